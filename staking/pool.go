// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements a pooled staking ledger with constant-time
// reward-per-token accounting. Participants stake a fungible asset into a
// custody account, accrue a proportional share of injected reward funds, and
// withdraw principal and rewards independently.
//
// The Pool aggregate owns all mutable state and is designed for a strictly
// sequential execution environment: callers serialize operations, and a
// non-reentrant guard rejects custody callbacks that re-enter the public
// surface mid-operation.
package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/log"
	"github.com/stakepond/pond/pond"
)

var logger = log.WithContext("pkg", "staking")

const (
	// MaxFeePercent is the upper bound of the distribution fee.
	MaxFeePercent = uint64(80)

	// MaxPoolUnits is the hard cap of the pool in whole units.
	MaxPoolUnits = uint64(250_000)
)

var (
	maxPoolStake = fixed.Units(MaxPoolUnits)
	hundred      = uint256.NewInt(100)
)

// Pool is the staking pool aggregate: stake ledger, reward index and the
// public operation surface. It is not safe for concurrent use; the embedding
// environment must provide a total order over operations.
type Pool struct {
	custody      pond.Address
	feeRecipient pond.Address
	feePercent   uint64
	token        TokenLedger
	auth         Authorizer
	sink         EventSink

	totalStaked      *uint256.Int
	totalDistributed *uint256.Int // net-of-fee rewards credited to the index and not yet paid out
	totalPaid        *uint256.Int
	rewardPerToken   *uint256.Int // monotonically non-decreasing

	registry []*participant // append-only, ids and order are permanent
	index    map[pond.Address]*participant

	entered bool
}

// New creates a pool custodied at the given token-ledger account.
// sink may be nil.
func New(
	custody pond.Address,
	token TokenLedger,
	auth Authorizer,
	feeRecipient pond.Address,
	feePercent uint64,
	sink EventSink,
) (*Pool, error) {
	if feePercent > MaxFeePercent {
		return nil, errors.WithMessagef(ErrValidation, "fee percent %d exceeds maximum %d", feePercent, MaxFeePercent)
	}
	if sink == nil {
		sink = nopSink{}
	}
	return &Pool{
		custody:      custody,
		feeRecipient: feeRecipient,
		feePercent:   feePercent,
		token:        token,
		auth:         auth,
		sink:         sink,

		totalStaked:      new(uint256.Int),
		totalDistributed: new(uint256.Int),
		totalPaid:        new(uint256.Int),
		rewardPerToken:   new(uint256.Int),

		index: make(map[pond.Address]*participant),
	}, nil
}

// enter acquires the non-reentrant guard for the duration of a mutating
// operation. The guard is released on every exit path via defer.
func (p *Pool) enter() error {
	if p.entered {
		return ErrReentrancy
	}
	p.entered = true
	return nil
}

func (p *Pool) exit() { p.entered = false }

//
// Setters - state change
//

// Stake moves amount from the caller's external balance into the pool.
// Unclaimed rewards block staking; they must be claimed first.
func (p *Pool) Stake(caller pond.Address, amount *uint256.Int) (err error) {
	defer func() { meterOp("stake", err) }()
	if err = p.enter(); err != nil {
		return err
	}
	defer p.exit()

	if amount == nil || amount.IsZero() {
		return errors.WithMessage(ErrValidation, "stake amount must be positive")
	}
	newTotal, err := fixed.Add(p.totalStaked, amount)
	if err != nil {
		return err
	}
	if newTotal.Gt(maxPoolStake) {
		return errors.WithMessagef(ErrValidation, "pool cap of %d units exceeded", MaxPoolUnits)
	}
	if p.token.BalanceOf(caller).Lt(amount) {
		return errors.WithMessage(ErrInsufficientFunds, "external balance below stake amount")
	}

	pt := p.index[caller]
	newBalance := amount.Clone()
	if pt != nil {
		earned, err := p.earned(pt)
		if err != nil {
			return err
		}
		if !earned.IsZero() {
			return ErrPendingRewards
		}
		if newBalance, err = fixed.Add(pt.balance, amount); err != nil {
			return err
		}
	}
	newTally, err := fixed.Wmul(newBalance, p.rewardPerToken)
	if err != nil {
		return err
	}

	// all preconditions hold; pull the stake into custody
	if err := p.token.TransferFrom(caller, p.custody, amount); err != nil {
		return errors.Wrap(err, "pull stake into custody")
	}

	if pt == nil {
		pt = p.register(caller)
	} else {
		pt.status = StatusActive
	}
	pt.balance = newBalance
	pt.tally = newTally
	p.totalStaked = newTotal
	p.meterTotals()

	logger.Info("staked", "caller", caller, "amount", toUnits(amount), "total", toUnits(p.totalStaked))
	p.sink.Emit(Event{Kind: KindStaked, User: caller, Amount: amount.Clone()})
	return nil
}

// Withdraw returns amount of staked principal to the caller. A participant
// whose balance reaches exactly zero is soft-deleted; its registry id
// survives. Unclaimed rewards block withdrawal.
func (p *Pool) Withdraw(caller pond.Address, amount *uint256.Int) (err error) {
	defer func() { meterOp("withdraw", err) }()
	if err = p.enter(); err != nil {
		return err
	}
	defer p.exit()

	if amount == nil || amount.IsZero() {
		return errors.WithMessage(ErrValidation, "withdraw amount must be positive")
	}
	if amount.Gt(p.totalStaked) {
		return errors.WithMessage(ErrInsufficientFunds, "amount exceeds pool total")
	}
	pt := p.index[caller]
	if pt == nil || amount.Gt(pt.balance) {
		return errors.WithMessage(ErrInsufficientFunds, "amount exceeds staked balance")
	}
	earned, err := p.earned(pt)
	if err != nil {
		return err
	}
	if !earned.IsZero() {
		return ErrPendingRewards
	}

	newBalance, err := fixed.Sub(pt.balance, amount)
	if err != nil {
		return err
	}
	newTotal, err := fixed.Sub(p.totalStaked, amount)
	if err != nil {
		return err
	}
	newTally, err := fixed.Wmul(newBalance, p.rewardPerToken)
	if err != nil {
		return err
	}

	if err := p.token.Transfer(p.custody, caller, amount); err != nil {
		return errors.Wrap(err, "push stake from custody")
	}

	pt.balance = newBalance
	pt.tally = newTally
	if newBalance.IsZero() {
		pt.status = StatusDeleted
	}
	p.totalStaked = newTotal
	p.meterTotals()

	logger.Info("withdrawn", "caller", caller, "amount", toUnits(amount), "total", toUnits(p.totalStaked))
	p.sink.Emit(Event{Kind: KindWithdrawn, User: caller, Amount: amount.Clone()})
	return nil
}

// WithdrawRewards pays out the caller's accrued reward and resets the cost
// basis. The payout is clamped to the custody surplus over staked principal
// to tolerate rounding drift; with floor arithmetic the index only ever
// under-credits, so the clamp can shave off dust, never real value.
func (p *Pool) WithdrawRewards(caller pond.Address) (res *uint256.Int, err error) {
	defer func() { meterOp("withdraw_rewards", err) }()
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.exit()

	pt := p.index[caller]
	if pt == nil {
		return nil, ErrNoRewards
	}
	reward, err := p.earned(pt)
	if err != nil {
		return nil, err
	}
	if reward.IsZero() {
		return nil, ErrNoRewards
	}

	surplus, err := fixed.Sub(p.token.BalanceOf(p.custody), p.totalStaked)
	if err != nil {
		return nil, err
	}
	if reward.Gt(surplus) {
		reward = surplus
	}

	newTally, err := fixed.Wmul(pt.balance, p.rewardPerToken)
	if err != nil {
		return nil, err
	}
	newPaid, err := fixed.Add(pt.paid, reward)
	if err != nil {
		return nil, err
	}
	newTotalPaid, err := fixed.Add(p.totalPaid, reward)
	if err != nil {
		return nil, err
	}
	newDistributed, err := fixed.Sub(p.totalDistributed, reward)
	if err != nil {
		return nil, err
	}

	if err := p.token.Transfer(p.custody, caller, reward); err != nil {
		return nil, errors.Wrap(err, "push reward from custody")
	}

	pt.tally = newTally
	pt.paid = newPaid
	p.totalPaid = newTotalPaid
	p.totalDistributed = newDistributed

	logger.Info("reward paid", "caller", caller, "amount", toUnits(reward))
	p.sink.Emit(Event{Kind: KindRewardPaid, User: caller, Amount: reward.Clone()})
	return reward.Clone(), nil
}

// SetFeePercent changes the distribution fee. Owner only.
func (p *Pool) SetFeePercent(caller pond.Address, newFee uint64) (err error) {
	defer func() { meterOp("set_fee", err) }()
	if err = p.enter(); err != nil {
		return err
	}
	defer p.exit()

	if !p.auth.IsOwner(caller) {
		return ErrUnauthorized
	}
	if newFee > MaxFeePercent {
		return errors.WithMessagef(ErrValidation, "fee percent %d exceeds maximum %d", newFee, MaxFeePercent)
	}
	p.feePercent = newFee

	logger.Info("fee changed", "caller", caller, "fee", newFee)
	p.sink.Emit(Event{Kind: KindFeeChanged, Amount: uint256.NewInt(newFee)})
	return nil
}

// SetFeeRecipient changes the fee beneficiary. Owner only.
func (p *Pool) SetFeeRecipient(caller pond.Address, recipient pond.Address) (err error) {
	defer func() { meterOp("set_fee_recipient", err) }()
	if err = p.enter(); err != nil {
		return err
	}
	defer p.exit()

	if !p.auth.IsOwner(caller) {
		return ErrUnauthorized
	}
	if recipient.IsZero() {
		return errors.WithMessage(ErrValidation, "zero fee recipient")
	}
	p.feeRecipient = recipient

	logger.Info("fee recipient changed", "caller", caller, "recipient", recipient)
	p.sink.Emit(Event{Kind: KindFeeRecipientChanged, User: recipient, Amount: new(uint256.Int)})
	return nil
}
