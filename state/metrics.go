// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/l2exec/log"
	"github.com/vechain/l2exec/metrics"
)

var (
	logger = log.WithContext("pkg", "state")

	metricCacheHitMiss = metrics.LazyLoadGaugeVec("state_db_cache_hit_miss", []string{"event"})
)
