// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state defines the chain state capability consumed by the transaction runtime.
// It follows the flow as bellow:
//
//	      o
//	      |
//	[ Cached (execute) ] -> Commit / Abort
//	      |
//	[ Cached (transaction) ] -> Commit / Abort
//	      |
//	[ State: DB or versioned view ]
//
// A Cached overlay buffers writes in a stacked map and replays its journal
// into the parent on Commit, so nested overlays compose.
package state
