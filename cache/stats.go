// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille at the last snapshot
	rate atomic.Int32
}

// Hit records a hit and returns the hits so far.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records a miss and returns the misses so far.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// Snapshot is a point in time copy of the counters.
type Snapshot struct {
	Hit, Miss int64
}

// Lookups returns hits plus misses.
func (s Snapshot) Lookups() int64 { return s.Hit + s.Miss }

// HitRate returns the share of lookups that hit, 0 without lookups.
func (s Snapshot) HitRate() float64 {
	if s.Lookups() == 0 {
		return 0
	}
	return float64(s.Hit) / float64(s.Lookups())
}

// Snapshot returns the counters, and whether the hit rate moved by at least
// one permille since the previous snapshot.
func (s *Stats) Snapshot() (Snapshot, bool) {
	snap := Snapshot{Hit: s.hit.Load(), Miss: s.miss.Load()}
	rate := int32(snap.HitRate() * 1000)
	return snap, s.rate.Swap(rate) != rate
}
