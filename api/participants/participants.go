// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package participants exposes the stake registry over http.
package participants

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/api/restutil"
	"github.com/stakepond/pond/node"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
)

type Participants struct {
	node *node.Node
}

func New(node *node.Node) *Participants {
	return &Participants{node}
}

// Participant is the registry record as exposed over http.
type Participant struct {
	Address pond.Address          `json:"address"`
	ID      uint64                `json:"id"`
	Status  string                `json:"status"`
	Balance *math.HexOrDecimal256 `json:"balance"`
	Paid    *math.HexOrDecimal256 `json:"paid"`
	Earned  *math.HexOrDecimal256 `json:"earned"`
}

func statusName(s staking.Status) string {
	switch s {
	case staking.StatusActive:
		return "active"
	case staking.StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

func convertParticipant(pt *staking.Participant) *Participant {
	return &Participant{
		Address: pt.Address,
		ID:      pt.ID,
		Status:  statusName(pt.Status),
		Balance: restutil.FormatAmount(pt.Balance),
		Paid:    restutil.FormatAmount(pt.Paid),
		Earned:  restutil.FormatAmount(pt.Earned),
	}
}

func (p *Participants) handleList(w http.ResponseWriter, req *http.Request) error {
	activeOnly := req.URL.Query().Get("active") == "true"
	list, err := p.node.Participants(activeOnly)
	if err != nil {
		return err
	}
	converted := make([]*Participant, len(list))
	for i, pt := range list {
		converted[i] = convertParticipant(pt)
	}
	return restutil.WriteJSON(w, converted)
}

func (p *Participants) handleGet(w http.ResponseWriter, req *http.Request) error {
	addr, err := pond.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	pt, err := p.node.Get(*addr)
	if err != nil {
		return err
	}
	if pt == nil {
		return restutil.NotFound(errors.Errorf("participant %s not found", addr))
	}
	return restutil.WriteJSON(w, convertParticipant(pt))
}

func (p *Participants) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("participants_get_list").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleList))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("participants_get_one").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGet))
}
