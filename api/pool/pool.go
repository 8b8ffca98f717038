// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool exposes the pool operations over http.
package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/api/restutil"
	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/node"
	"github.com/stakepond/pond/staking"
)

type Pool struct {
	node *node.Node
}

func New(node *node.Node) *Pool {
	return &Pool{node}
}

// convertPoolError maps domain failures to http statuses. Anything not
// recognized falls through as an internal error.
func convertPoolError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, staking.ErrUnauthorized):
		return restutil.Forbidden(err)
	case errors.Is(err, staking.ErrReentrancy):
		return restutil.HTTPError(err, http.StatusConflict)
	case errors.Is(err, staking.ErrValidation),
		errors.Is(err, staking.ErrInsufficientFunds),
		errors.Is(err, staking.ErrPendingRewards),
		errors.Is(err, staking.ErrNoRewards),
		errors.Is(err, staking.ErrInsufficientPoolFunds),
		errors.Is(err, fixed.ErrDivisionByZero):
		return restutil.BadRequest(err)
	default:
		return err
	}
}

func (p *Pool) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, convertStatus(p.node.Status()))
}

func (p *Pool) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.ParseAmount(body.Amount)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "amount"))
	}
	if err := p.node.Stake(body.Caller, amount); err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"staked": body.Amount})
}

func (p *Pool) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.ParseAmount(body.Amount)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "amount"))
	}
	if err := p.node.Withdraw(body.Caller, amount); err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"withdrawn": body.Amount})
}

func (p *Pool) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	paid, err := p.node.WithdrawRewards(body.Caller)
	if err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, &ClaimResult{Paid: restutil.FormatAmount(paid)})
}

// handleDistribute settles pending custody surplus into the reward index.
// The crank is deliberately callable by anyone.
func (p *Pool) handleDistribute(w http.ResponseWriter, _ *http.Request) error {
	net, err := p.node.DistributeRewards()
	if err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, &DistributeResult{Net: restutil.FormatAmount(net)})
}

func (p *Pool) handleSetFee(w http.ResponseWriter, req *http.Request) error {
	var body FeeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.node.SetFeePercent(body.Caller, body.FeePercent); err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"feePercent": body.FeePercent})
}

func (p *Pool) handleSetFeeRecipient(w http.ResponseWriter, req *http.Request) error {
	var body FeeRecipientRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.node.SetFeeRecipient(body.Caller, body.Recipient); err != nil {
		return convertPoolError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"recipient": body.Recipient})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pool_get_status").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetStatus))
	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("pool_post_stake").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleStake))
	sub.Path("/withdrawals").
		Methods(http.MethodPost).
		Name("pool_post_withdrawal").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/claims").
		Methods(http.MethodPost).
		Name("pool_post_claim").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleClaim))
	sub.Path("/distributions").
		Methods(http.MethodPost).
		Name("pool_post_distribution").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleDistribute))
	sub.Path("/fee").
		Methods(http.MethodPut).
		Name("pool_put_fee").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleSetFee))
	sub.Path("/fee-recipient").
		Methods(http.MethodPut).
		Name("pool_put_fee_recipient").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleSetFeeRecipient))
}
