// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/stakepond/pond/pond"
)

// Kind names an event emitted by the pool.
type Kind string

const (
	KindStaked              Kind = "Staked"
	KindWithdrawn           Kind = "Withdrawn"
	KindRewardPaid          Kind = "RewardPaid"
	KindRewardsDistributed  Kind = "RewardsDistributed"
	KindFeeChanged          Kind = "FeeChanged"
	KindFeeRecipientChanged Kind = "FeeRecipientChanged"
)

// Event is emitted after a successful mutation, for off-chain observers only.
// Internal accounting never reads events back.
//
// User is the participant for Staked/Withdrawn/RewardPaid, the new recipient
// for FeeRecipientChanged, and zero for the rest. Amount is the moved value;
// FeeChanged carries the new fee percent unscaled and FeeRecipientChanged
// carries zero.
type Event struct {
	Kind   Kind
	User   pond.Address
	Amount *uint256.Int
}

// EventSink consumes emitted events. Sink failures must not affect pool
// state; implementations log and drop.
type EventSink interface {
	Emit(ev Event)
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// MemorySink collects events in order, mainly for tests.
type MemorySink struct {
	Events []Event
}

func (s *MemorySink) Emit(ev Event) {
	s.Events = append(s.Events, ev)
}
