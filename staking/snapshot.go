// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/pond"
)

// ParticipantRecord is the persisted form of a registry record.
type ParticipantRecord struct {
	Address pond.Address
	ID      uint64
	Status  Status
	Balance *uint256.Int
	Tally   *uint256.Int
	Paid    *uint256.Int
}

// Snapshot captures the full mutable state of the pool for persistence.
// Static wiring (custody account, owner, collaborators) is not part of it.
type Snapshot struct {
	FeePercent       uint64
	FeeRecipient     pond.Address
	TotalStaked      *uint256.Int
	TotalDistributed *uint256.Int
	TotalPaid        *uint256.Int
	RewardPerToken   *uint256.Int
	Participants     []ParticipantRecord
}

// Snapshot exports the current pool state.
func (p *Pool) Snapshot() *Snapshot {
	records := make([]ParticipantRecord, len(p.registry))
	for i, pt := range p.registry {
		records[i] = ParticipantRecord{
			Address: pt.addr,
			ID:      pt.id,
			Status:  pt.status,
			Balance: pt.balance.Clone(),
			Tally:   pt.tally.Clone(),
			Paid:    pt.paid.Clone(),
		}
	}
	return &Snapshot{
		FeePercent:       p.feePercent,
		FeeRecipient:     p.feeRecipient,
		TotalStaked:      p.totalStaked.Clone(),
		TotalDistributed: p.totalDistributed.Clone(),
		TotalPaid:        p.totalPaid.Clone(),
		RewardPerToken:   p.rewardPerToken.Clone(),
		Participants:     records,
	}
}

// Restore loads a snapshot into a freshly constructed pool. It refuses to
// overwrite a pool that has already registered participants, and verifies
// the conservation invariant over the restored records.
func (p *Pool) Restore(s *Snapshot) error {
	if len(p.registry) > 0 || !p.totalStaked.IsZero() {
		return errors.WithMessage(ErrValidation, "pool is not empty")
	}
	if s.FeePercent > MaxFeePercent {
		return errors.WithMessagef(ErrValidation, "fee percent %d exceeds maximum %d", s.FeePercent, MaxFeePercent)
	}

	sum := new(uint256.Int)
	for i, rec := range s.Participants {
		if rec.ID != uint64(i)+1 {
			return errors.WithMessagef(ErrValidation, "registry id %d out of order", rec.ID)
		}
		if rec.Status != StatusActive && rec.Status != StatusDeleted {
			return errors.WithMessagef(ErrValidation, "registry id %d has unknown status", rec.ID)
		}
		if rec.Status == StatusDeleted && !rec.Balance.IsZero() {
			return errors.WithMessagef(ErrValidation, "deleted participant %s holds stake", rec.Address)
		}
		var err error
		if sum, err = fixed.Add(sum, rec.Balance); err != nil {
			return err
		}
	}
	if !sum.Eq(s.TotalStaked) {
		return errors.WithMessage(ErrValidation, "total staked does not match participant balances")
	}

	for _, rec := range s.Participants {
		pt := &participant{
			addr:    rec.Address,
			id:      rec.ID,
			status:  rec.Status,
			balance: rec.Balance.Clone(),
			tally:   rec.Tally.Clone(),
			paid:    rec.Paid.Clone(),
		}
		p.registry = append(p.registry, pt)
		p.index[pt.addr] = pt
	}
	p.feePercent = s.FeePercent
	p.feeRecipient = s.FeeRecipient
	p.totalStaked = s.TotalStaked.Clone()
	p.totalDistributed = s.TotalDistributed.Clone()
	p.totalPaid = s.TotalPaid.Clone()
	p.rewardPerToken = s.RewardPerToken.Clone()
	p.meterTotals()
	return nil
}
