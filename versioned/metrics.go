// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package versioned

import "github.com/vechain/l2exec/metrics"

var metricReadCounter = metrics.LazyLoadCounterVec("versioned_read_count", []string{"kind", "source"})
