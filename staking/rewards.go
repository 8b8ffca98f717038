// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/stakepond/pond/fixed"
)

// earned computes the participant's unclaimed reward in constant time:
//
//	earned = ⌊balance · rewardPerToken⌋ − tally
//
// The tally is reset to ⌊balance · rewardPerToken⌋ whenever the balance
// changes or a reward is paid, so the difference only ever reflects reward
// accrued since the last settlement. This keeps payouts O(1) per participant
// with no iteration over the registry at distribution time.
func (p *Pool) earned(pt *participant) (*uint256.Int, error) {
	gross, err := fixed.Wmul(pt.balance, p.rewardPerToken)
	if err != nil {
		return nil, err
	}
	return fixed.Sub(gross, pt.tally)
}
