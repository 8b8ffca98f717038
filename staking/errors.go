// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// Every operation checks all of its preconditions before any mutation; on
// failure the pool state is identical to before the call and the caller
// receives one of these kinds (arithmetic failures surface the fixed package
// sentinels). Callers match with errors.Is.
var (
	// ErrValidation covers non-positive amounts, the pool cap and fee range.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds is returned when the caller lacks external balance
	// or stake.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPendingRewards blocks stake and withdraw while unclaimed rewards
	// exist; they must be claimed first.
	ErrPendingRewards = errors.New("pending rewards must be claimed first")

	// ErrNoRewards is returned by a claim when nothing has accrued.
	ErrNoRewards = errors.New("no rewards available")

	// ErrInsufficientPoolFunds is returned when a distribution finds less
	// than one whole unit of unindexed yield.
	ErrInsufficientPoolFunds = errors.New("insufficient pool funds")

	// ErrUnauthorized is returned by owner-only mutators.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrReentrancy is returned when a custody callback re-enters the pool.
	ErrReentrancy = errors.New("reentrant call")
)
