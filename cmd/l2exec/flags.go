// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import cli "gopkg.in/urfave/cli.v1"

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "block config file (yaml), defaults apply when omitted",
	}
	batchFlag = cli.StringFlag{
		Name:  "batch",
		Usage: "transaction batch file (yaml)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the chain state, in memory when omitted",
	}
	versionedFlag = cli.BoolFlag{
		Name:  "versioned",
		Usage: "execute through versioned state views, one version per transaction",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump full execution infos",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address, disabled when omitted",
	}
)
