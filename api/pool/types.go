// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakepond/pond/api/restutil"
	"github.com/stakepond/pond/node"
	"github.com/stakepond/pond/pond"
)

// Status is the pool's global accounting as exposed over http.
type Status struct {
	Custody          pond.Address          `json:"custody"`
	CustodyBalance   *math.HexOrDecimal256 `json:"custodyBalance"`
	FeePercent       uint64                `json:"feePercent"`
	FeeRecipient     pond.Address          `json:"feeRecipient"`
	TotalStaked      *math.HexOrDecimal256 `json:"totalStaked"`
	TotalDistributed *math.HexOrDecimal256 `json:"totalDistributed"`
	TotalPaid        *math.HexOrDecimal256 `json:"totalPaid"`
	RewardPerToken   *math.HexOrDecimal256 `json:"rewardPerToken"`
	Participants     int                   `json:"participants"`
}

func convertStatus(s *node.Status) *Status {
	return &Status{
		Custody:          s.Custody,
		CustodyBalance:   restutil.FormatAmount(s.CustodyBalance),
		FeePercent:       s.FeePercent,
		FeeRecipient:     s.FeeRecipient,
		TotalStaked:      restutil.FormatAmount(s.TotalStaked),
		TotalDistributed: restutil.FormatAmount(s.TotalDistributed),
		TotalPaid:        restutil.FormatAmount(s.TotalPaid),
		RewardPerToken:   restutil.FormatAmount(s.RewardPerToken),
		Participants:     s.Participants,
	}
}

// StakeRequest is the body of POST /pool/stakes and /pool/withdrawals.
type StakeRequest struct {
	Caller pond.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// ClaimRequest is the body of POST /pool/claims.
type ClaimRequest struct {
	Caller pond.Address `json:"caller"`
}

// ClaimResult reports the paid reward.
type ClaimResult struct {
	Paid *math.HexOrDecimal256 `json:"paid"`
}

// DistributeResult reports the net amount credited to the reward index.
type DistributeResult struct {
	Net *math.HexOrDecimal256 `json:"net"`
}

// FeeRequest is the body of PUT /pool/fee.
type FeeRequest struct {
	Caller     pond.Address `json:"caller"`
	FeePercent uint64       `json:"feePercent"`
}

// FeeRecipientRequest is the body of PUT /pool/fee-recipient.
type FeeRecipientRequest struct {
	Caller    pond.Address `json:"caller"`
	Recipient pond.Address `json:"recipient"`
}
