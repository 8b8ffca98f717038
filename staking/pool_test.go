// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/token"
)

func TestNewRejectsFeeOutOfRange(t *testing.T) {
	_, err := New(custodyAddr, nil, SoleOwner(ownerAddr), recipientAddr, 81, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = New(custodyAddr, nil, SoleOwner(ownerAddr), recipientAddr, 80, nil)
	assert.NoError(t, err)
}

func TestStake(t *testing.T) {
	env := newTestEnv(t, 10)

	require.NoError(t, env.pool.Stake(p1, units(100)))
	env.checkInvariants()

	assert.Equal(t, units(100), env.pool.TotalStaked())
	assert.True(t, env.pool.RewardPerToken().IsZero())
	assert.Equal(t, 1, env.pool.ParticipantCount())
	env.assertParticipant(p1).
		Status(StatusActive).
		Balance(units(100)).
		Tally(new(uint256.Int)).
		Earned(new(uint256.Int)).
		Assert(t)

	// stake moved into custody
	assert.Equal(t, units(100), env.ledger.BalanceOf(custodyAddr))
	assert.Equal(t, units(999_900), env.ledger.BalanceOf(p1))

	require.Len(t, env.sink.Events, 1)
	assert.Equal(t, KindStaked, env.sink.Events[0].Kind)
	assert.Equal(t, p1, env.sink.Events[0].User)
	assert.Equal(t, units(100), env.sink.Events[0].Amount)
}

func TestStakeValidation(t *testing.T) {
	env := newTestEnv(t, 10)

	err := env.pool.Stake(p1, new(uint256.Int))
	assert.ErrorIs(t, err, ErrValidation)

	err = env.pool.Stake(p1, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// caller lacks external balance
	poor := pond.BytesToAddress([]byte("poor"))
	err = env.pool.Stake(poor, units(1))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.True(t, env.pool.TotalStaked().IsZero())
	assert.Equal(t, 0, env.pool.ParticipantCount())
	assert.Empty(t, env.sink.Events)
}

func TestStakePoolCapBoundary(t *testing.T) {
	env := newTestEnv(t, 0)

	// exactly at the cap succeeds
	require.NoError(t, env.pool.Stake(p1, units(200_000)))
	require.NoError(t, env.pool.Stake(p2, units(50_000)))
	assert.Equal(t, units(250_000), env.pool.TotalStaked())

	// one wei past the cap fails
	err := env.pool.Stake(p3, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, units(250_000), env.pool.TotalStaked())
	env.checkInvariants()
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t, 10)
	require.NoError(t, env.pool.Stake(p1, units(100)))

	require.NoError(t, env.pool.Withdraw(p1, units(40)))
	env.checkInvariants()

	assert.Equal(t, units(60), env.pool.TotalStaked())
	env.assertParticipant(p1).Status(StatusActive).Balance(units(60)).Assert(t)
	assert.Equal(t, units(999_940), env.ledger.BalanceOf(p1))
}

func TestWithdrawValidation(t *testing.T) {
	env := newTestEnv(t, 10)
	require.NoError(t, env.pool.Stake(p1, units(100)))

	err := env.pool.Withdraw(p1, new(uint256.Int))
	assert.ErrorIs(t, err, ErrValidation)

	err = env.pool.Withdraw(p1, units(101))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// never staked
	err = env.pool.Withdraw(p2, units(1))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, units(100), env.pool.TotalStaked())
}

func TestStakeWithdrawRoundTrip(t *testing.T) {
	env := newTestEnv(t, 10)

	before := env.ledger.BalanceOf(p1)
	require.NoError(t, env.pool.Stake(p1, units(100)))
	require.NoError(t, env.pool.Withdraw(p1, units(100)))
	env.checkInvariants()

	// totals restored, participant deactivated but still registered
	assert.True(t, env.pool.TotalStaked().IsZero())
	assert.Equal(t, before, env.ledger.BalanceOf(p1))
	assert.Equal(t, 1, env.pool.ParticipantCount())
	env.assertParticipant(p1).
		Status(StatusDeleted).
		Balance(new(uint256.Int)).
		Assert(t)

	// re-staking reactivates the same record, id preserved
	require.NoError(t, env.pool.Stake(p1, units(5)))
	view, err := env.pool.Get(p1)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, view.Status)
	assert.Equal(t, uint64(1), view.ID)
	assert.Equal(t, 1, env.pool.ParticipantCount())
}

func TestPendingRewardsBlockStakeAndWithdraw(t *testing.T) {
	env := newTestEnv(t, 10)
	require.NoError(t, env.pool.Stake(p1, units(100)))

	env.yield(units(20))
	_, err := env.pool.DistributeRewards()
	require.NoError(t, err)

	stakedBefore := env.pool.TotalStaked()
	err = env.pool.Withdraw(p1, units(50))
	assert.ErrorIs(t, err, ErrPendingRewards)

	err = env.pool.Stake(p1, units(50))
	assert.ErrorIs(t, err, ErrPendingRewards)

	// no state change on either failure
	assert.Equal(t, stakedBefore, env.pool.TotalStaked())
	env.assertParticipant(p1).Balance(units(100)).Assert(t)
	env.checkInvariants()

	// claiming unblocks principal movement
	_, err = env.pool.WithdrawRewards(p1)
	require.NoError(t, err)
	require.NoError(t, env.pool.Withdraw(p1, units(50)))
	env.checkInvariants()
}

func TestChangeFee(t *testing.T) {
	env := newTestEnv(t, 10)

	err := env.pool.SetFeePercent(p1, 20)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = env.pool.SetFeePercent(ownerAddr, 81)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, uint64(10), env.pool.FeePercent())

	require.NoError(t, env.pool.SetFeePercent(ownerAddr, 80))
	assert.Equal(t, uint64(80), env.pool.FeePercent())

	last := env.sink.Events[len(env.sink.Events)-1]
	assert.Equal(t, KindFeeChanged, last.Kind)
	assert.Equal(t, uint256.NewInt(80), last.Amount)
}

func TestChangeFeeRecipient(t *testing.T) {
	env := newTestEnv(t, 10)
	other := pond.BytesToAddress([]byte("other-recipient"))

	err := env.pool.SetFeeRecipient(p1, other)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = env.pool.SetFeeRecipient(ownerAddr, pond.Address{})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.pool.SetFeeRecipient(ownerAddr, other))
	assert.Equal(t, other, env.pool.FeeRecipient())

	ev := env.sink.Events[len(env.sink.Events)-1]
	assert.Equal(t, KindFeeRecipientChanged, ev.Kind)
	assert.Equal(t, other, ev.User)
	require.NotNil(t, ev.Amount)
	assert.True(t, ev.Amount.IsZero())
}

func TestGetUnknownParticipant(t *testing.T) {
	env := newTestEnv(t, 10)

	view, err := env.pool.Get(p1)
	require.NoError(t, err)
	assert.Nil(t, view)

	earned, err := env.pool.EarnedReward(p1)
	require.NoError(t, err)
	assert.True(t, earned.IsZero())
}

func TestParticipantListing(t *testing.T) {
	env := newTestEnv(t, 10)
	require.NoError(t, env.pool.Stake(p1, units(10)))
	require.NoError(t, env.pool.Stake(p2, units(20)))
	require.NoError(t, env.pool.Stake(p3, units(30)))
	require.NoError(t, env.pool.Withdraw(p2, units(20)))

	all, err := env.pool.Participants()
	require.NoError(t, err)
	require.Len(t, all, 3)
	// registration order is permanent
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, p2, all[1].Address)
	assert.Equal(t, StatusDeleted, all[1].Status)

	active, err := env.pool.ActiveParticipants()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, p1, active[0].Address)
	assert.Equal(t, p3, active[1].Address)
}

// reentrantLedger re-enters the pool from inside a transfer, the way a
// malicious custody callback would.
type reentrantLedger struct {
	*token.Ledger
	pool *Pool
	errs []error
}

func (l *reentrantLedger) Transfer(from, to pond.Address, amount *uint256.Int) error {
	l.errs = append(l.errs, l.pool.Stake(p2, units(1)))
	return l.Ledger.Transfer(from, to, amount)
}

func (l *reentrantLedger) TransferFrom(from, to pond.Address, amount *uint256.Int) error {
	l.errs = append(l.errs, l.pool.Stake(p2, units(1)))
	return l.Ledger.TransferFrom(from, to, amount)
}

func TestReentrancyGuard(t *testing.T) {
	inner := token.New()
	require.NoError(t, inner.Mint(p1, units(1000)))
	require.NoError(t, inner.Mint(p2, units(1000)))

	ledger := &reentrantLedger{Ledger: inner}
	pool, err := New(custodyAddr, ledger, SoleOwner(ownerAddr), recipientAddr, 0, nil)
	require.NoError(t, err)
	ledger.pool = pool

	// outer operation succeeds; the nested call is rejected at any depth
	require.NoError(t, pool.Stake(p1, units(100)))
	require.NotEmpty(t, ledger.errs)
	for _, err := range ledger.errs {
		assert.ErrorIs(t, err, ErrReentrancy)
	}

	// p2 was never registered by the nested call
	view, err := pool.Get(p2)
	require.NoError(t, err)
	assert.Nil(t, view)
	assert.Equal(t, units(100), pool.TotalStaked())

	// guard is released after the operation completes
	assert.NoError(t, pool.Stake(p2, units(10)))
}
