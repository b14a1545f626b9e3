// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/l2exec/kv"
)

func newMem(t *testing.T) *kv.LevelDB {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLevelDB(t *testing.T) {
	db := newMem(t)

	_, err := db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBulk(t *testing.T) {
	db := newMem(t)

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))

	_, err := db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err), "bulk must not be visible before write")

	require.NoError(t, bulk.Write())
	v, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestBucket(t *testing.T) {
	db := newMem(t)

	a := kv.Bucket("a").NewStore(db)
	b := kv.Bucket("b").NewStore(db)

	require.NoError(t, a.Put([]byte("k"), []byte("va")))
	require.NoError(t, b.Put([]byte("k"), []byte("vb")))

	va, err := a.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("va"), va)

	vb, err := b.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("vb"), vb)

	raw, err := db.Get([]byte("ak"))
	require.NoError(t, err)
	assert.Equal(t, []byte("va"), raw)

	bulk := b.Bulk()
	require.NoError(t, bulk.Put([]byte("x"), []byte("1")))
	require.NoError(t, bulk.Write())
	has, err := db.Has([]byte("bx"))
	require.NoError(t, err)
	assert.True(t, has)

	_, err = a.Get([]byte("x"))
	assert.True(t, a.IsNotFound(err))

	require.NoError(t, kv.Bucket("a").NewPutter(db).Delete([]byte("k")))
	has, err = kv.Bucket("a").NewGetter(db).Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
	vb, err = b.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("vb"), vb)
}
