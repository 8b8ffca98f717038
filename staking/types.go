// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/stakepond/pond/pond"
)

type Status = uint8

const (
	StatusUnknown = Status(iota) // 0 -> default value, never stored in the registry
	StatusActive                 // participant holds a non-zero stake
	StatusDeleted                // stake reached exactly zero; record kept for stable ids
)

// participant is a registry record. Records are created on first-ever stake
// and never removed; Status flips between Active and Deleted instead.
type participant struct {
	addr    pond.Address
	id      uint64
	status  Status
	balance *uint256.Int // staked balance
	tally   *uint256.Int // cost basis: balance × rewardPerToken at last settlement
	paid    *uint256.Int // cumulative rewards ever paid out
}

// Participant is the read-only view of a registry record.
type Participant struct {
	Address pond.Address
	ID      uint64
	Status  Status
	Balance *uint256.Int
	Tally   *uint256.Int
	Paid    *uint256.Int
	Earned  *uint256.Int
}

func (p *participant) view(earned *uint256.Int) *Participant {
	return &Participant{
		Address: p.addr,
		ID:      p.id,
		Status:  p.status,
		Balance: p.balance.Clone(),
		Tally:   p.tally.Clone(),
		Paid:    p.paid.Clone(),
		Earned:  earned,
	}
}

// TokenLedger is the external custody collaborator moving the staked asset.
// Any transfer failure aborts the whole calling operation.
type TokenLedger interface {
	BalanceOf(addr pond.Address) *uint256.Int
	Transfer(from, to pond.Address, amount *uint256.Int) error
	TransferFrom(from, to pond.Address, amount *uint256.Int) error
}

// Authorizer gates the fee and fee-recipient mutators only.
type Authorizer interface {
	IsOwner(caller pond.Address) bool
}

// SoleOwner is an Authorizer recognizing exactly one owner address.
type SoleOwner pond.Address

func (o SoleOwner) IsOwner(caller pond.Address) bool {
	return pond.Address(o) == caller
}
