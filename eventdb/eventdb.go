// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb records pool events in a sqlite db for off-chain queries.
package eventdb

import (
	"database/sql"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/holiman/uint256"

	"github.com/stakepond/pond/log"
	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
)

var logger = log.WithContext("pkg", "eventdb")

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	kind TEXT NOT NULL,
	user BLOB NOT NULL,
	amount BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS event_kind ON event(kind);
CREATE INDEX IF NOT EXISTS event_user ON event(user);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range bounds a filter by sequence number, inclusive on both ends.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter narrows a query; nil fields match everything.
type Filter struct {
	Kind    *staking.Kind `json:"kind"`
	User    *pond.Address `json:"user"`
	Order   OrderType     `json:"order"` // default asc
	Range   *Range
	Options *Options
}

// StoredEvent is an event as read back from the db, with its assigned
// sequence number and insertion time.
type StoredEvent struct {
	Seq  uint64
	Time uint64
	staking.Event
}

// EventDB manages all pool events.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
	now           func() uint64
}

// New opens an event db, creating the table if not exists.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
		now:           func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// NewMem creates a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert appends events to the db.
func (db *EventDB) Insert(events ...staking.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	ts := db.now()
	for _, ev := range events {
		if _, err = tx.Exec("INSERT INTO event(ts, kind, user, amount) VALUES (?, ?, ?, ?);",
			ts,
			string(ev.Kind),
			ev.User.Bytes(),
			amountValue(ev.Amount)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// amountValue renders an event amount for storage; a nil amount counts as
// zero so that amount-less events never fail the sink.
func amountValue(amount *uint256.Int) []byte {
	if amount == nil {
		return []byte{}
	}
	return amount.Bytes()
}

// Emit implements staking.EventSink. Insert failures are logged and dropped
// so that pool mutations never fail on the event path.
func (db *EventDB) Emit(ev staking.Event) {
	if err := db.Insert(ev); err != nil {
		logger.Error("failed to record event", "kind", ev.Kind, "err", err)
	}
}

// Filter returns events matching the filter, in sequence order.
func (db *EventDB) Filter(filter *Filter) ([]*StoredEvent, error) {
	if filter == nil {
		return db.query("SELECT * FROM event ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND seq >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND seq <= ? "
		}
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		stmt += " AND kind = ? "
	}
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...interface{}) ([]*StoredEvent, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*StoredEvent
	for rows.Next() {
		var (
			seq    uint64
			ts     uint64
			kind   string
			user   []byte
			amount []byte
		)
		if err := rows.Scan(&seq, &ts, &kind, &user, &amount); err != nil {
			return nil, err
		}
		events = append(events, &StoredEvent{
			Seq:  seq,
			Time: ts,
			Event: staking.Event{
				Kind:   staking.Kind(kind),
				User:   pond.BytesToAddress(user),
				Amount: new(uint256.Int).SetBytes(amount),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path returns db's directory.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes sqlite.
func (db *EventDB) Close() {
	db.db.Close()
}
