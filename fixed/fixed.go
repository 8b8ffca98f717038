// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixed provides checked 256-bit fixed-point arithmetic at scale 10^18.
// All pool accounting is expressed through this package; no floating point is
// involved anywhere.
package fixed

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Scale is the fixed-point scale: 1.0 unit == 10^18.
var Scale = uint256.NewInt(1e18)

var (
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrUnderflow      = errors.New("arithmetic underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Wmul returns ⌊a·b/Scale⌋.
func Wmul(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).MulDivOverflow(a, b, Scale)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Wdiv returns ⌊a·Scale/b⌋.
func Wdiv(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	res, overflow := new(uint256.Int).MulDivOverflow(a, Scale, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Add returns a+b, checked.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Sub returns a-b, failing when the result would go negative.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	res, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return res, nil
}

// Units returns n whole units as a fixed-point value, i.e. n·Scale.
func Units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Scale)
}
