// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/l2exec/cache"
	"github.com/vechain/l2exec/kv"
	"github.com/vechain/l2exec/stark"
)

const (
	storageBucket           = kv.Bucket("s")
	nonceBucket             = kv.Bucket("n")
	classHashBucket         = kv.Bucket("c")
	compiledClassHashBucket = kv.Bucket("k")

	defaultCacheSize = 4096
)

// DB is the persistent chain state over a kv store.
// Values are rlp encoded, zero values are not stored.
type DB struct {
	store             kv.Store
	storage           kv.Store
	nonce             kv.Store
	classHash         kv.Store
	compiledClassHash kv.Store
	cache             *cache.LRU[string, stark.Felt]
}

var _ State = (*DB)(nil)

// NewDB creates a DB on store.
func NewDB(store kv.Store) *DB {
	c, _ := cache.NewLRU[string, stark.Felt](defaultCacheSize)
	return &DB{
		store:             store,
		storage:           storageBucket.NewStore(store),
		nonce:             nonceBucket.NewStore(store),
		classHash:         classHashBucket.NewStore(store),
		compiledClassHash: compiledClassHashBucket.NewStore(store),
		cache:             c,
	}
}

func storageDBKey(addr stark.Address, key stark.StorageKey) []byte {
	k := make([]byte, 0, stark.FeltLength*2)
	k = append(k, addr[:]...)
	return append(k, key[:]...)
}

func (db *DB) get(store kv.Store, bucket kv.Bucket, key []byte) (stark.Felt, error) {
	cacheKey := string(bucket) + string(key)
	if v, ok := db.cache.Get(cacheKey); ok {
		return v, nil
	}

	data, err := store.Get(key)
	if err != nil {
		if store.IsNotFound(err) {
			db.cache.Add(cacheKey, stark.Felt{})
			return stark.Felt{}, nil
		}
		return stark.Felt{}, &Error{errors.Wrap(err, "get")}
	}
	var v stark.Felt
	if err := rlp.DecodeBytes(data, &v); err != nil {
		return stark.Felt{}, &Error{errors.Wrap(err, "decode")}
	}
	db.cache.Add(cacheKey, v)
	return v, nil
}

func (db *DB) put(store kv.Putter, bucket kv.Bucket, key []byte, v stark.Felt) error {
	db.cache.Remove(string(bucket) + string(key))
	if v.IsZero() {
		if err := store.Delete(key); err != nil {
			return &Error{errors.Wrap(err, "delete")}
		}
		return nil
	}
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return &Error{errors.Wrap(err, "encode")}
	}
	if err := store.Put(key, data); err != nil {
		return &Error{errors.Wrap(err, "put")}
	}
	return nil
}

func (db *DB) GetStorageAt(addr stark.Address, key stark.StorageKey) (stark.Felt, error) {
	return db.get(db.storage, storageBucket, storageDBKey(addr, key))
}

func (db *DB) GetNonceAt(addr stark.Address) (stark.Nonce, error) {
	v, err := db.get(db.nonce, nonceBucket, addr[:])
	return stark.Nonce(v), err
}

func (db *DB) GetClassHashAt(addr stark.Address) (stark.ClassHash, error) {
	v, err := db.get(db.classHash, classHashBucket, addr[:])
	return stark.ClassHash(v), err
}

func (db *DB) GetCompiledClassHash(classHash stark.ClassHash) (stark.CompiledClassHash, error) {
	v, err := db.get(db.compiledClassHash, compiledClassHashBucket, classHash[:])
	return stark.CompiledClassHash(v), err
}

func (db *DB) SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error {
	return db.put(db.storage, storageBucket, storageDBKey(addr, key), value)
}

func (db *DB) IncrementNonce(addr stark.Address) error {
	return incrementNonce(db, addr)
}

func (db *DB) SetNonce(addr stark.Address, nonce stark.Nonce) error {
	return db.put(db.nonce, nonceBucket, addr[:], stark.Felt(nonce))
}

func (db *DB) SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error {
	return db.put(db.classHash, classHashBucket, addr[:], stark.Felt(classHash))
}

func (db *DB) SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error {
	return db.put(db.compiledClassHash, compiledClassHashBucket, classHash[:], stark.Felt(compiled))
}

func (db *DB) writeBatch(fn func(setter) error) error {
	bulk := db.store.Bulk()
	if err := fn(&dbBatch{
		db:                db,
		storage:           storageBucket.NewPutter(bulk),
		nonce:             nonceBucket.NewPutter(bulk),
		classHash:         classHashBucket.NewPutter(bulk),
		compiledClassHash: compiledClassHashBucket.NewPutter(bulk),
	}); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return &Error{errors.Wrap(err, "write batch")}
	}
	return nil
}

// dbBatch collects DB writes in a kv bulk.
type dbBatch struct {
	db                *DB
	storage           kv.Putter
	nonce             kv.Putter
	classHash         kv.Putter
	compiledClassHash kv.Putter
}

func (b *dbBatch) SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error {
	return b.db.put(b.storage, storageBucket, storageDBKey(addr, key), value)
}

func (b *dbBatch) SetNonce(addr stark.Address, nonce stark.Nonce) error {
	return b.db.put(b.nonce, nonceBucket, addr[:], stark.Felt(nonce))
}

func (b *dbBatch) SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error {
	return b.db.put(b.classHash, classHashBucket, addr[:], stark.Felt(classHash))
}

func (b *dbBatch) SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error {
	return b.db.put(b.compiledClassHash, compiledClassHashBucket, classHash[:], stark.Felt(compiled))
}

// ReportCacheStats publishes the read cache counters as metrics and logs
// them when the hit rate moved since the last report.
func (db *DB) ReportCacheStats() cache.Snapshot {
	snap, moved := db.cache.Stats().Snapshot()
	if moved {
		logger.Debug("state cache stats", "hit", snap.Hit, "miss", snap.Miss, "rate", fmt.Sprintf("%.3f", snap.HitRate()))
	}
	metricCacheHitMiss().SetWithLabel(snap.Hit, map[string]string{"event": "hit"})
	metricCacheHitMiss().SetWithLabel(snap.Miss, map[string]string{"event": "miss"})
	return snap
}
