// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/fixed"
)

// distributionThreshold is the dust guard: less than one whole unit of
// unindexed yield is a pure no-op failure.
var distributionThreshold = fixed.Units(1)

// DistributeRewards realizes custody funds that arrived since the last
// distribution into the reward index, net of the configured fee. It is a
// permissionless crank: any actor may call it at any time, and repeated
// below-threshold calls fail without any state change.
//
// The gross reward is whatever the custody account holds beyond staked
// principal and already-indexed rewards. An empty pool fails with a
// division-by-zero kind; there is no stake to index against.
func (p *Pool) DistributeRewards() (res *uint256.Int, err error) {
	defer func() { meterOp("distribute", err) }()
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.exit()

	owed, err := fixed.Add(p.totalStaked, p.totalDistributed)
	if err != nil {
		return nil, err
	}
	gross, err := fixed.Sub(p.token.BalanceOf(p.custody), owed)
	if err != nil || gross.Lt(distributionThreshold) {
		return nil, errors.WithMessage(ErrInsufficientPoolFunds, "gross reward below one unit")
	}

	scaled, err := fixed.Wmul(gross, uint256.NewInt(p.feePercent))
	if err != nil {
		return nil, err
	}
	fee, err := fixed.Wdiv(scaled, hundred)
	if err != nil {
		return nil, err
	}
	net, err := fixed.Sub(gross, fee)
	if err != nil {
		return nil, err
	}

	if p.totalStaked.IsZero() {
		return nil, errors.WithMessage(fixed.ErrDivisionByZero, "pool is empty")
	}
	delta, err := fixed.Wdiv(net, p.totalStaked)
	if err != nil {
		return nil, err
	}
	newIndex, err := fixed.Add(p.rewardPerToken, delta)
	if err != nil {
		return nil, err
	}
	newDistributed, err := fixed.Add(p.totalDistributed, net)
	if err != nil {
		return nil, err
	}

	if !fee.IsZero() {
		if err := p.token.Transfer(p.custody, p.feeRecipient, fee); err != nil {
			return nil, errors.Wrap(err, "push fee from custody")
		}
	}

	p.rewardPerToken = newIndex
	p.totalDistributed = newDistributed

	logger.Info("rewards distributed",
		"gross", toUnits(gross),
		"fee", toUnits(fee),
		"net", toUnits(net),
		"rewardPerToken", p.rewardPerToken,
	)
	p.sink.Emit(Event{Kind: KindRewardsDistributed, Amount: net.Clone()})
	return net.Clone(), nil
}
