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

	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/token"
)

var (
	custodyAddr   = pond.BytesToAddress([]byte("custody"))
	ownerAddr     = pond.BytesToAddress([]byte("owner"))
	recipientAddr = pond.BytesToAddress([]byte("fee-recipient"))

	p1 = pond.BytesToAddress([]byte("participant-1"))
	p2 = pond.BytesToAddress([]byte("participant-2"))
	p3 = pond.BytesToAddress([]byte("participant-3"))
)

func units(n uint64) *uint256.Int { return fixed.Units(n) }

type testEnv struct {
	t      *testing.T
	pool   *Pool
	ledger *token.Ledger
	sink   *MemorySink

	lastIndex *uint256.Int
}

// newTestEnv builds a pool with the given fee and a few funded accounts.
func newTestEnv(t *testing.T, feePercent uint64) *testEnv {
	ledger := token.New()
	for _, addr := range []pond.Address{p1, p2, p3} {
		require.NoError(t, ledger.Mint(addr, units(1_000_000)))
	}

	sink := &MemorySink{}
	pool, err := New(custodyAddr, ledger, SoleOwner(ownerAddr), recipientAddr, feePercent, sink)
	require.NoError(t, err)

	return &testEnv{t: t, pool: pool, ledger: ledger, sink: sink, lastIndex: new(uint256.Int)}
}

// yield simulates reward funds arriving at the custody account from outside.
func (e *testEnv) yield(amount *uint256.Int) {
	require.NoError(e.t, e.ledger.Mint(custodyAddr, amount))
}

// checkInvariants asserts the conservation properties that must hold after
// every operation, successful or not.
func (e *testEnv) checkInvariants() {
	sum := new(uint256.Int)
	for _, pt := range e.pool.registry {
		if pt.status == StatusDeleted {
			assert.True(e.t, pt.balance.IsZero(), "deleted participant %s holds stake", pt.addr)
		}
		sum.Add(sum, pt.balance)

		earned, err := e.pool.earned(pt)
		require.NoError(e.t, err)
		_ = earned // earned is always representable, never negative
	}
	assert.True(e.t, sum.Eq(e.pool.totalStaked), "total staked != sum of balances")

	assert.False(e.t, e.pool.rewardPerToken.Lt(e.lastIndex), "reward index decreased")
	e.lastIndex = e.pool.rewardPerToken.Clone()

	// custody covers principal plus outstanding rewards
	owed := new(uint256.Int).Add(e.pool.totalStaked, e.pool.totalDistributed)
	assert.False(e.t, e.ledger.BalanceOf(custodyAddr).Lt(owed), "custody below staked + outstanding rewards")
}

type participantAssertions struct {
	env  *testEnv
	addr pond.Address

	status  *Status
	balance *uint256.Int
	tally   *uint256.Int
	paid    *uint256.Int
	earned  *uint256.Int
}

func (e *testEnv) assertParticipant(addr pond.Address) *participantAssertions {
	return &participantAssertions{env: e, addr: addr}
}

func (a *participantAssertions) Status(expected Status) *participantAssertions {
	a.status = &expected
	return a
}

func (a *participantAssertions) Balance(expected *uint256.Int) *participantAssertions {
	a.balance = expected
	return a
}

func (a *participantAssertions) Tally(expected *uint256.Int) *participantAssertions {
	a.tally = expected
	return a
}

func (a *participantAssertions) Paid(expected *uint256.Int) *participantAssertions {
	a.paid = expected
	return a
}

func (a *participantAssertions) Earned(expected *uint256.Int) *participantAssertions {
	a.earned = expected
	return a
}

func (a *participantAssertions) Assert(t *testing.T) {
	view, err := a.env.pool.Get(a.addr)
	require.NoError(t, err)
	require.NotNil(t, view, "participant %s not registered", a.addr)

	if a.status != nil {
		assert.Equal(t, *a.status, view.Status, "participant %s status mismatch", a.addr)
	}
	if a.balance != nil {
		assert.Equal(t, a.balance, view.Balance, "participant %s balance mismatch", a.addr)
	}
	if a.tally != nil {
		assert.Equal(t, a.tally, view.Tally, "participant %s tally mismatch", a.addr)
	}
	if a.paid != nil {
		assert.Equal(t, a.paid, view.Paid, "participant %s paid mismatch", a.addr)
	}
	if a.earned != nil {
		assert.Equal(t, a.earned, view.Earned, "participant %s earned mismatch", a.addr)
	}
}
