// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/pond"
)

// register appends a fresh record to the registry. Ids are assigned once,
// monotonically, and the registry order never changes afterwards.
func (p *Pool) register(addr pond.Address) *participant {
	pt := &participant{
		addr:    addr,
		id:      uint64(len(p.registry)) + 1,
		status:  StatusActive,
		balance: new(uint256.Int),
		tally:   new(uint256.Int),
		paid:    new(uint256.Int),
	}
	p.registry = append(p.registry, pt)
	p.index[addr] = pt
	return pt
}

//
// Getters - no state change
//

// TotalStaked returns the pool-wide staked balance.
func (p *Pool) TotalStaked() *uint256.Int { return p.totalStaked.Clone() }

// TotalDistributed returns the cumulative net rewards credited to the index
// and not yet paid out.
func (p *Pool) TotalDistributed() *uint256.Int { return p.totalDistributed.Clone() }

// TotalPaid returns the cumulative rewards ever paid out.
func (p *Pool) TotalPaid() *uint256.Int { return p.totalPaid.Clone() }

// RewardPerToken returns the global reward index.
func (p *Pool) RewardPerToken() *uint256.Int { return p.rewardPerToken.Clone() }

// FeePercent returns the current distribution fee.
func (p *Pool) FeePercent() uint64 { return p.feePercent }

// FeeRecipient returns the current fee beneficiary.
func (p *Pool) FeeRecipient() pond.Address { return p.feeRecipient }

// Custody returns the custody account identity.
func (p *Pool) Custody() pond.Address { return p.custody }

// CustodyBalance returns the custody account's holdings in the token ledger.
func (p *Pool) CustodyBalance() *uint256.Int { return p.token.BalanceOf(p.custody) }

// ParticipantCount returns the registry size, deleted records included.
func (p *Pool) ParticipantCount() int { return len(p.registry) }

// Get returns the view of a participant, or nil when the address never staked.
func (p *Pool) Get(addr pond.Address) (*Participant, error) {
	pt := p.index[addr]
	if pt == nil {
		return nil, nil
	}
	earned, err := p.earned(pt)
	if err != nil {
		return nil, err
	}
	return pt.view(earned), nil
}

// EarnedReward returns the unclaimed reward of an address; zero for unknowns.
func (p *Pool) EarnedReward(addr pond.Address) (*uint256.Int, error) {
	pt := p.index[addr]
	if pt == nil {
		return new(uint256.Int), nil
	}
	return p.earned(pt)
}

// Participants lists all registry records in registration order.
func (p *Pool) Participants() ([]*Participant, error) {
	return p.list(false)
}

// ActiveParticipants lists records with Active status, in registration order.
func (p *Pool) ActiveParticipants() ([]*Participant, error) {
	return p.list(true)
}

func (p *Pool) list(activeOnly bool) ([]*Participant, error) {
	views := make([]*Participant, 0, len(p.registry))
	for _, pt := range p.registry {
		if activeOnly && pt.status != StatusActive {
			continue
		}
		earned, err := p.earned(pt)
		if err != nil {
			return nil, errors.WithMessagef(err, "participant %s", pt.addr)
		}
		views = append(views, pt.view(earned))
	}
	return views, nil
}
