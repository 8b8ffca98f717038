// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node serializes pool operations and persists state after each
// successful mutation. The pool itself is not safe for concurrent use; all
// access from the api layer goes through a Node.
package node

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/stakepond/pond/log"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/pooldb"
	"github.com/stakepond/pond/staking"
	"github.com/stakepond/pond/token"
)

var logger = log.WithContext("pkg", "node")

// Node wraps a pool with a total order over operations and a persistence
// hook. db may be nil for a purely in-memory pool.
type Node struct {
	mu     sync.RWMutex
	pool   *staking.Pool
	ledger *token.Ledger
	db     *pooldb.PoolDB
}

func New(pool *staking.Pool, ledger *token.Ledger, db *pooldb.PoolDB) *Node {
	return &Node{pool: pool, ledger: ledger, db: db}
}

// persist saves a snapshot of the committed state, together with the token
// ledger it settles against. The in-memory mutation has already taken effect;
// a save failure is logged, not propagated, so that the caller sees the true
// outcome of the operation.
func (n *Node) persist() {
	if n.db == nil {
		return
	}
	if err := n.db.SaveSnapshot(n.pool.Snapshot()); err != nil {
		logger.Error("failed to persist pool state", "err", err)
		return
	}
	if n.ledger == nil {
		return
	}
	if err := n.db.SaveLedger(n.ledger.Balances()); err != nil {
		logger.Error("failed to persist token ledger", "err", err)
	}
}

func (n *Node) Stake(caller pond.Address, amount *uint256.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.pool.Stake(caller, amount); err != nil {
		return err
	}
	n.persist()
	return nil
}

func (n *Node) Withdraw(caller pond.Address, amount *uint256.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.pool.Withdraw(caller, amount); err != nil {
		return err
	}
	n.persist()
	return nil
}

func (n *Node) WithdrawRewards(caller pond.Address) (*uint256.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	paid, err := n.pool.WithdrawRewards(caller)
	if err != nil {
		return nil, err
	}
	n.persist()
	return paid, nil
}

func (n *Node) DistributeRewards() (*uint256.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	net, err := n.pool.DistributeRewards()
	if err != nil {
		return nil, err
	}
	n.persist()
	return net, nil
}

func (n *Node) SetFeePercent(caller pond.Address, newFee uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.pool.SetFeePercent(caller, newFee); err != nil {
		return err
	}
	n.persist()
	return nil
}

func (n *Node) SetFeeRecipient(caller pond.Address, recipient pond.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.pool.SetFeeRecipient(caller, recipient); err != nil {
		return err
	}
	n.persist()
	return nil
}

// Status is a consistent read of the pool's global accounting.
type Status struct {
	Custody          pond.Address
	CustodyBalance   *uint256.Int
	FeePercent       uint64
	FeeRecipient     pond.Address
	TotalStaked      *uint256.Int
	TotalDistributed *uint256.Int
	TotalPaid        *uint256.Int
	RewardPerToken   *uint256.Int
	Participants     int
}

func (n *Node) Status() *Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return &Status{
		Custody:          n.pool.Custody(),
		CustodyBalance:   n.pool.CustodyBalance(),
		FeePercent:       n.pool.FeePercent(),
		FeeRecipient:     n.pool.FeeRecipient(),
		TotalStaked:      n.pool.TotalStaked(),
		TotalDistributed: n.pool.TotalDistributed(),
		TotalPaid:        n.pool.TotalPaid(),
		RewardPerToken:   n.pool.RewardPerToken(),
		Participants:     n.pool.ParticipantCount(),
	}
}

func (n *Node) Get(addr pond.Address) (*staking.Participant, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.pool.Get(addr)
}

func (n *Node) Participants(activeOnly bool) ([]*staking.Participant, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if activeOnly {
		return n.pool.ActiveParticipants()
	}
	return n.pool.Participants()
}
