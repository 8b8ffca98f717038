// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixed

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxUint256 = new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(1))

func TestWmul(t *testing.T) {
	tests := []struct {
		name string
		a    *uint256.Int
		b    *uint256.Int
		want *uint256.Int
		err  error
	}{
		{"zero times anything", uint256.NewInt(0), Units(100), uint256.NewInt(0), nil},
		{"one unit squared", Units(1), Units(1), Units(1), nil},
		{"hundred times index", Units(100), uint256.NewInt(18e16), Units(18), nil},
		{"rounds down", uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0), nil},
		{"small integer factor", Units(20), uint256.NewInt(10), uint256.NewInt(200), nil},
		{"overflow", maxUint256, Units(2), nil, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wmul(tt.a, tt.b)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWdiv(t *testing.T) {
	tests := []struct {
		name string
		a    *uint256.Int
		b    *uint256.Int
		want *uint256.Int
		err  error
	}{
		{"whole division", Units(18), Units(100), uint256.NewInt(18e16), nil},
		{"by one unit", Units(5), Units(1), Units(5), nil},
		{"integer divisor", uint256.NewInt(200), uint256.NewInt(100), Units(2), nil},
		{"rounds down", uint256.NewInt(1), Units(3), uint256.NewInt(0), nil},
		{"division by zero", Units(1), uint256.NewInt(0), nil, ErrDivisionByZero},
		{"overflow", maxUint256, uint256.NewInt(1), nil, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wdiv(tt.a, tt.b)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddSub(t *testing.T) {
	sum, err := Add(Units(1), Units(2))
	require.NoError(t, err)
	assert.Equal(t, Units(3), sum)

	_, err = Add(maxUint256, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)

	diff, err := Sub(Units(3), Units(2))
	require.NoError(t, err)
	assert.Equal(t, Units(1), diff)

	_, err = Sub(Units(2), Units(3))
	assert.ErrorIs(t, err, ErrUnderflow)

	zero, err := Sub(Units(2), Units(2))
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestUnits(t *testing.T) {
	assert.Equal(t, uint256.NewInt(1e18), Units(1))
	assert.True(t, Units(0).IsZero())
	assert.Equal(t, "250000000000000000000000", Units(250_000).Dec())
}
