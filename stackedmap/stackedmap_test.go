// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/l2exec/stackedmap"
)

func M(a ...interface{}) []interface{} {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []interface{}
	}{
		{func() {}, 0, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 1, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 1, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 2, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 0, "", "", "foo", M("bar", true, nil)},

		{func() { sm.Push(); sm.Push() }, 2, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i)

	n := 0
	sm.Journal(func(string, string) bool {
		n++
		return n < 2
	})
	assert.Equal(2, n)
}

func TestStackedMapRepeatedPut(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, nil
	})

	sm.Push()
	sm.Put("k", 1)
	sm.Push()
	sm.Put("k", 2)
	sm.Put("k", 3)

	v, ok, _ := sm.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	sm.Pop()
	v, ok, _ = sm.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	sm.Pop()
	_, ok, _ = sm.Get("k")
	assert.False(t, ok)
}

func TestStackedMapSourceError(t *testing.T) {
	boom := errors.New("boom")
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, boom
	})
	sm.Push()
	sm.Put("a", 1)

	v, ok, err := sm.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, _, err = sm.Get("b")
	assert.Equal(t, boom, err)
}
