// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pooldb persists pool-state snapshots in a level db. Records are
// RLP-encoded; the registry is stored one record per participant id so that
// saves after each operation stay cheap.
package pooldb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
	"github.com/stakepond/pond/token"
)

var (
	keyGlobal        = []byte("g")
	keyLedger        = []byte("l")
	participantLabel = byte('p')
)

// Options options for creating a pool db instance.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

// PoolDB wraps the level db holding pool state.
type PoolDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New creates a persistent pool db instance.
// Creates an empty one if not exists, or opens if already there.
func New(path string, opts Options) (*PoolDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent pool db")
	}
	return openPoolDB(stg, opts.CacheSize, opts.OpenFilesCacheCapacity)
}

// NewMem creates a pool db in memory.
func NewMem() (*PoolDB, error) {
	return openPoolDB(storage.NewMemStorage(), 0, 0)
}

func openPoolDB(stg storage.Storage, cacheSize, openFilesCacheCapacity int) (*PoolDB, error) {
	if cacheSize < 16 {
		cacheSize = 16
	}
	if openFilesCacheCapacity < 16 {
		openFilesCacheCapacity = 16
	}
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: openFilesCacheCapacity,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open pool db")
	}
	return &PoolDB{db: db, stg: stg}, nil
}

// Close closes the underlying db and releases the storage lock, so the same
// path can be reopened.
func (d *PoolDB) Close() error {
	err := d.db.Close()
	if serr := d.stg.Close(); err == nil {
		err = serr
	}
	return err
}

type storedGlobal struct {
	FeePercent       uint64
	FeeRecipient     pond.Address
	TotalStaked      *uint256.Int
	TotalDistributed *uint256.Int
	TotalPaid        *uint256.Int
	RewardPerToken   *uint256.Int
	Participants     uint64
}

type storedParticipant struct {
	Address pond.Address
	Status  staking.Status
	Balance *uint256.Int
	Tally   *uint256.Int
	Paid    *uint256.Int
}

func participantKey(id uint64) []byte {
	key := make([]byte, 9)
	key[0] = participantLabel
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}

// SaveSnapshot writes a snapshot atomically.
func (d *PoolDB) SaveSnapshot(s *staking.Snapshot) error {
	batch := new(leveldb.Batch)

	global, err := rlp.EncodeToBytes(&storedGlobal{
		FeePercent:       s.FeePercent,
		FeeRecipient:     s.FeeRecipient,
		TotalStaked:      s.TotalStaked,
		TotalDistributed: s.TotalDistributed,
		TotalPaid:        s.TotalPaid,
		RewardPerToken:   s.RewardPerToken,
		Participants:     uint64(len(s.Participants)),
	})
	if err != nil {
		return errors.Wrap(err, "encode global state")
	}
	batch.Put(keyGlobal, global)

	for _, rec := range s.Participants {
		data, err := rlp.EncodeToBytes(&storedParticipant{
			Address: rec.Address,
			Status:  rec.Status,
			Balance: rec.Balance,
			Tally:   rec.Tally,
			Paid:    rec.Paid,
		})
		if err != nil {
			return errors.Wrapf(err, "encode participant %d", rec.ID)
		}
		batch.Put(participantKey(rec.ID), data)
	}

	return errors.Wrap(d.db.Write(batch, nil), "write snapshot")
}

// LoadSnapshot reads the stored snapshot, or nil when the db is empty.
func (d *PoolDB) LoadSnapshot() (*staking.Snapshot, error) {
	data, err := d.db.Get(keyGlobal, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read global state")
	}
	var global storedGlobal
	if err := rlp.DecodeBytes(data, &global); err != nil {
		return nil, errors.Wrap(err, "decode global state")
	}

	records := make([]staking.ParticipantRecord, 0, global.Participants)
	for id := uint64(1); id <= global.Participants; id++ {
		data, err := d.db.Get(participantKey(id), nil)
		if err != nil {
			return nil, errors.Wrapf(err, "read participant %d", id)
		}
		var rec storedParticipant
		if err := rlp.DecodeBytes(data, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode participant %d", id)
		}
		records = append(records, staking.ParticipantRecord{
			Address: rec.Address,
			ID:      id,
			Status:  rec.Status,
			Balance: rec.Balance,
			Tally:   rec.Tally,
			Paid:    rec.Paid,
		})
	}

	return &staking.Snapshot{
		FeePercent:       global.FeePercent,
		FeeRecipient:     global.FeeRecipient,
		TotalStaked:      global.TotalStaked,
		TotalDistributed: global.TotalDistributed,
		TotalPaid:        global.TotalPaid,
		RewardPerToken:   global.RewardPerToken,
		Participants:     records,
	}, nil
}

type storedBalance struct {
	Address pond.Address
	Amount  *uint256.Int
}

// SaveLedger writes the token-ledger entries that accompany a snapshot.
func (d *PoolDB) SaveLedger(entries []token.Balance) error {
	stored := make([]storedBalance, len(entries))
	for i, entry := range entries {
		stored[i] = storedBalance{Address: entry.Address, Amount: entry.Amount}
	}
	data, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return errors.Wrap(err, "encode ledger")
	}
	return errors.Wrap(d.db.Put(keyLedger, data, nil), "write ledger")
}

// LoadLedger reads the stored token-ledger entries, or nil when absent.
func (d *PoolDB) LoadLedger() ([]token.Balance, error) {
	data, err := d.db.Get(keyLedger, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read ledger")
	}
	var stored []storedBalance
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, errors.Wrap(err, "decode ledger")
	}
	entries := make([]token.Balance, len(stored))
	for i, entry := range stored {
		entries[i] = token.Balance{Address: entry.Address, Amount: entry.Amount}
	}
	return entries, nil
}
