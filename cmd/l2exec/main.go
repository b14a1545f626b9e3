// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// l2exec executes batches of account transactions against a chain state.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/builtin"
	"github.com/vechain/l2exec/co"
	"github.com/vechain/l2exec/fee"
	"github.com/vechain/l2exec/kv"
	"github.com/vechain/l2exec/log"
	"github.com/vechain/l2exec/metrics"
	"github.com/vechain/l2exec/runtime"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/versioned"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "l2exec")
)

func main() {
	app := cli.App{
		Version: fmt.Sprintf("%s-%s", version, gitCommit),
		Name:    "l2exec",
		Usage:   "L2 account transaction executor",
		Commands: []cli.Command{
			{
				Name:   "run",
				Usage:  "execute a transaction batch",
				Flags:  []cli.Flag{configFlag, batchFlag, dataDirFlag, versionedFlag, dumpFlag, verbosityFlag, jsonLogsFlag, metricsAddrFlag},
				Action: run,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	// logfmt on terminals, json otherwise
	format := log.FormatLogfmt
	if ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stderr.Fd()) {
		format = log.FormatJSON
	}
	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, format, levelVar)))
}

func loadBlockContext(ctx *cli.Context) (*block.Context, error) {
	cfg := block.DefaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = block.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	return cfg.Context()
}

func openStore(dataDir string) (kv.StoreCloser, error) {
	if dataDir == "" {
		return kv.NewMemLevelDB()
	}
	return kv.OpenLevelDB(dataDir, kv.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
}

func run(ctx *cli.Context) error {
	initLogger(ctx)

	blk, err := loadBlockContext(ctx)
	if err != nil {
		return err
	}
	batchPath := ctx.String(batchFlag.Name)
	if batchPath == "" {
		return errors.New("--batch is required")
	}
	batch, err := LoadBatch(batchPath)
	if err != nil {
		return err
	}
	txs := make([]tx.Account, 0, len(batch.Transactions))
	for i := range batch.Transactions {
		t, err := batch.Transactions[i].Transaction()
		if err != nil {
			return errors.WithMessagef(err, "transaction %d", i)
		}
		txs = append(txs, t)
	}

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(addr)
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	store, err := openStore(ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	db := state.NewDB(store)
	defer func() {
		snap := db.ReportCacheStats()
		logger.Info("state cache", "lookups", snap.Lookups(), "hitRate", fmt.Sprintf("%.3f", snap.HitRate()))
	}()
	if err := batch.Genesis.Apply(db, blk); err != nil {
		return errors.WithMessage(err, "apply genesis")
	}

	rt := runtime.New(builtin.NewExecutor(builtin.Account, builtin.FeeToken), fee.Default{}, blk)
	out := &printer{w: os.Stdout, dump: ctx.Bool(dumpFlag.Name)}

	if !ctx.Bool(versionedFlag.Name) {
		for i, t := range txs {
			info, err := rt.ExecuteTransaction(db, t)
			out.print(i, t, info, err)
		}
		return nil
	}

	vs := versioned.NewState(db)
	prefetch(vs, blk, txs)
	for i, t := range txs {
		info, err := rt.ExecuteTransaction(vs.View(versioned.Version(i)), t)
		out.print(i, t, info, err)
	}
	if err := vs.Apply(db); err != nil {
		return errors.WithMessage(err, "apply versioned state")
	}
	return nil
}

// prefetch loads the base values of the senders' nonces and fee balances concurrently.
func prefetch(vs *versioned.State, blk *block.Context, txs []tx.Account) {
	<-co.Parallel(func(queue chan<- func()) {
		for _, t := range txs {
			ctx := t.Context()
			queue <- func() {
				vs.GetNonceAt(ctx.SenderAddress, 0)
				balanceKey := state.FeeTokenBalanceKey(ctx.SenderAddress)
				vs.GetStorageAt(blk.FeeTokenAddress(ctx.Version), balanceKey, 0)
			}
		}
	})
}

type printer struct {
	w    io.Writer
	dump bool
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

func (p *printer) print(i int, t tx.Account, info *runtime.ExecutionInfo, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(p.w, "#%d %v rejected: %v\n", i, t.Type(), err)
		return
	case info.Reverted():
		fmt.Fprintf(p.w, "#%d %v reverted fee=%v steps=%d: %v\n", i, t.Type(), info.ActualFee, info.ActualResources.Get(block.NSteps), info.RevertError)
	default:
		fmt.Fprintf(p.w, "#%d %v ok fee=%v steps=%d\n", i, t.Type(), info.ActualFee, info.ActualResources.Get(block.NSteps))
	}
	if p.dump {
		dumper.Fdump(p.w, info)
	}
}
