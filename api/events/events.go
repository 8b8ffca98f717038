// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events exposes the recorded pool events over http.
package events

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepond/pond/api/restutil"
	"github.com/stakepond/pond/eventdb"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

// FilteredEvent is a stored event as exposed over http.
type FilteredEvent struct {
	Seq    uint64                `json:"seq"`
	Time   uint64                `json:"time"`
	Kind   staking.Kind          `json:"kind"`
	User   pond.Address          `json:"user"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func convertEvent(ev *eventdb.StoredEvent) *FilteredEvent {
	return &FilteredEvent{
		Seq:    ev.Seq,
		Time:   ev.Time,
		Kind:   ev.Kind,
		User:   ev.User,
		Amount: restutil.FormatAmount(ev.Amount),
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if err := restutil.ParseJSON(req.Body, &filter); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return restutil.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options == nil {
		filter.Options = &eventdb.Options{Offset: 0, Limit: e.limit}
	}

	events, err := e.db.Filter(&filter)
	if err != nil {
		return err
	}
	converted := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		converted[i] = convertEvent(ev)
	}
	return restutil.WriteJSON(w, converted)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("events_post_filter").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
