// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepond/pond/eventdb"
	"github.com/stakepond/pond/fixed"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
)

var (
	alice = pond.BytesToAddress([]byte("alice"))
	bob   = pond.BytesToAddress([]byte("bob"))
)

func newTestServer(t *testing.T) *httptest.Server {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Insert(
		staking.Event{Kind: staking.KindStaked, User: alice, Amount: fixed.Units(100)},
		staking.Event{Kind: staking.KindStaked, User: bob, Amount: fixed.Units(30)},
		staking.Event{Kind: staking.KindRewardsDistributed, User: pond.Address{}, Amount: fixed.Units(18)},
	))

	router := mux.NewRouter()
	New(db, 100).Mount(router, "/events")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func filterEvents(t *testing.T, url string, filter interface{}) (int, []*FilteredEvent) {
	data, err := json.Marshal(filter)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var events []*FilteredEvent
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(payload, &events))
	}
	return res.StatusCode, events
}

func TestFilterAll(t *testing.T) {
	srv := newTestServer(t)

	status, events := filterEvents(t, srv.URL+"/events", &eventdb.Filter{})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events, 3)
	assert.Equal(t, staking.KindStaked, events[0].Kind)
	assert.Equal(t, alice, events[0].User)
}

func TestFilterByKind(t *testing.T) {
	srv := newTestServer(t)

	kind := staking.KindStaked
	status, events := filterEvents(t, srv.URL+"/events", &eventdb.Filter{Kind: &kind})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events, 2)
}

func TestFilterLimitEnforced(t *testing.T) {
	srv := newTestServer(t)

	status, _ := filterEvents(t, srv.URL+"/events", &eventdb.Filter{
		Options: &eventdb.Options{Limit: 1000},
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestFilterBadBody(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Post(srv.URL+"/events", "application/json", bytes.NewReader([]byte(`{"bogus": 1}`)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
