// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/metrics"
)

var (
	metricOps         = metrics.LazyLoadCounterVec("pool_ops_total", []string{"op"})
	metricOpFailures  = metrics.LazyLoadCounterVec("pool_op_failures_total", []string{"op"})
	metricTotalStaked = metrics.LazyLoadGauge("pool_total_staked_units")
	metricRegistry    = metrics.LazyLoadGauge("pool_participants")
)

func meterOp(op string, err error) {
	metricOps().AddWithLabel(1, map[string]string{"op": op})
	if err != nil {
		metricOpFailures().AddWithLabel(1, map[string]string{"op": op})
	}
}

func (p *Pool) meterTotals() {
	metricTotalStaked().Set(int64(toUnits(p.totalStaked)))
	metricRegistry().Set(int64(len(p.registry)))
}

// toUnits converts a fixed-point value to whole units, for logs and gauges.
func toUnits(v *uint256.Int) uint64 {
	return new(uint256.Int).Div(v, fixed.Scale).Uint64()
}
