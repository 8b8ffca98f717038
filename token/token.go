// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements an in-process fungible-asset ledger serving as the
// pool's custody collaborator in the daemon and in tests.
package token

import (
	"bytes"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/pond"
)

// Ledger tracks account balances of the staked asset.
type Ledger struct {
	mu       sync.RWMutex
	balances map[pond.Address]*uint256.Int
	supply   *uint256.Int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[pond.Address]*uint256.Int),
		supply:   new(uint256.Int),
	}
}

// BalanceOf returns the balance of an account.
func (l *Ledger) BalanceOf(addr pond.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if bal, ok := l.balances[addr]; ok {
		return bal.Clone()
	}
	return new(uint256.Int)
}

// TotalSupply returns the sum of all balances.
func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply.Clone()
}

// Mint credits freshly issued funds to an account.
func (l *Ledger) Mint(addr pond.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(l.supply, amount)
	if overflow {
		return errors.New("total supply overflow")
	}
	l.supply = supply
	l.addBalance(addr, amount)
	return nil
}

// Transfer moves amount between accounts, failing when the sender's balance
// is insufficient.
func (l *Ledger) Transfer(from, to pond.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

// TransferFrom is Transfer invoked on behalf of the sender. The ledger is a
// trusted in-process collaborator; no allowance bookkeeping applies.
func (l *Ledger) TransferFrom(from, to pond.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

func (l *Ledger) move(from, to pond.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	bal, ok := l.balances[from]
	if !ok || bal.Lt(amount) {
		return errors.Errorf("account %s balance below transfer amount", from)
	}
	bal.Sub(bal, amount)
	l.addBalance(to, amount)
	return nil
}

func (l *Ledger) addBalance(addr pond.Address, amount *uint256.Int) {
	if bal, ok := l.balances[addr]; ok {
		bal.Add(bal, amount)
		return
	}
	l.balances[addr] = amount.Clone()
}

// Balance is an account entry, used for persistence.
type Balance struct {
	Address pond.Address
	Amount  *uint256.Int
}

// Balances returns all non-zero account entries ordered by address.
func (l *Ledger) Balances() []Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Balance, 0, len(l.balances))
	for addr, bal := range l.balances {
		if bal.IsZero() {
			continue
		}
		entries = append(entries, Balance{Address: addr, Amount: bal.Clone()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Address.Bytes(), entries[j].Address.Bytes()) < 0
	})
	return entries
}

// Restore replaces the ledger content with the given entries. Any existing
// balances, including genesis allocations, are discarded.
func (l *Ledger) Restore(entries []Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	supply := new(uint256.Int)
	for _, entry := range entries {
		var overflow bool
		if supply, overflow = new(uint256.Int).AddOverflow(supply, entry.Amount); overflow {
			return errors.New("total supply overflow")
		}
	}
	l.balances = make(map[pond.Address]*uint256.Int, len(entries))
	for _, entry := range entries {
		l.balances[entry.Address] = entry.Amount.Clone()
	}
	l.supply = supply
	return nil
}
