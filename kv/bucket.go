// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "sync"

// Bucket is a key prefix partitioning one store into independent key spaces.
type Bucket string

var keyPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// withKey passes the prefixed key to fn. The key buffer is reused afterwards,
// fn must not retain it.
func (b Bucket) withKey(key []byte, fn func(k []byte)) {
	buf := keyPool.Get().(*[]byte)
	*buf = append(append((*buf)[:0], b...), key...)
	fn(*buf)
	keyPool.Put(buf)
}

// NewGetter creates a getter reading the bucket of src.
func (b Bucket) NewGetter(src Getter) Getter {
	return bucketGetter{b, src}
}

// NewPutter creates a putter writing the bucket of dst.
func (b Bucket) NewPutter(dst Putter) Putter {
	return bucketPutter{b, dst}
}

// NewStore creates a store over the bucket of src. Its bulks are bulks of src.
func (b Bucket) NewStore(src Store) Store {
	return bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	bucket Bucket
	src    Getter
}

func (g bucketGetter) Get(key []byte) (val []byte, err error) {
	g.bucket.withKey(key, func(k []byte) { val, err = g.src.Get(k) })
	return
}

func (g bucketGetter) Has(key []byte) (has bool, err error) {
	g.bucket.withKey(key, func(k []byte) { has, err = g.src.Has(k) })
	return
}

func (g bucketGetter) IsNotFound(err error) bool { return g.src.IsNotFound(err) }

type bucketPutter struct {
	bucket Bucket
	dst    Putter
}

func (p bucketPutter) Put(key, val []byte) (err error) {
	p.bucket.withKey(key, func(k []byte) { err = p.dst.Put(k, val) })
	return
}

func (p bucketPutter) Delete(key []byte) (err error) {
	p.bucket.withKey(key, func(k []byte) { err = p.dst.Delete(k) })
	return
}

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return bucketBulk{bucketPutter{s.bucketPutter.bucket, bulk}, bulk}
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b bucketBulk) Write() error { return b.bulk.Write() }
