// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// FormatAmount renders a token amount for JSON, hex encoded.
func FormatAmount(v *uint256.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAmount converts a JSON amount back to uint256. The JSON form accepts
// hex or decimal.
func ParseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("amount is required")
	}
	// FromBig wraps negative values instead of flagging them
	if (*big.Int)(v).Sign() < 0 {
		return nil, errors.New("amount out of range")
	}
	value, overflow := uint256.FromBig((*big.Int)(v))
	if overflow {
		return nil, errors.New("amount out of range")
	}
	return value, nil
}
