// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepond/pond/api"
	"github.com/stakepond/pond/log"
	"github.com/stakepond/pond/metrics"
	"github.com/stakepond/pond/node"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Poold",
		Usage:     "Pond staking pool daemon",
		Copyright: "2026 The Pond developers",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene := loadGenesis(ctx)
	dataDir := makeDataDir(ctx)

	poolDB := openPoolDB(ctx, dataDir)
	defer func() { logger.Info("closing pool database..."); poolDB.Close() }()

	eventDB := openEventDB(ctx, dataDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	pool, ledger, err := gene.Build(eventDB)
	if err != nil {
		fatal(err)
	}

	snapshot, err := poolDB.LoadSnapshot()
	if err != nil {
		fatal(err)
	}
	if snapshot != nil {
		if err := pool.Restore(snapshot); err != nil {
			fatal(err)
		}
		balances, err := poolDB.LoadLedger()
		if err != nil {
			fatal(err)
		}
		if err := ledger.Restore(balances); err != nil {
			fatal(err)
		}
		logger.Info("restored pool state",
			"participants", pool.ParticipantCount(),
			"totalStaked", pool.TotalStaked(),
		)
	}

	n := node.New(pool, ledger, poolDB)
	handler := api.New(n, eventDB, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:        ctx.Bool(pprofFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})

	srv, apiURL := startAPIServer(ctx, handler)
	defer func() { logger.Info("stopping API server..."); srv.Shutdown(context.Background()) }()

	logger.Info("pool daemon started",
		"version", fullVersion(),
		"custody", pool.Custody(),
		"feePercent", pool.FeePercent(),
		"api", apiURL,
	)

	<-handleExitSignal()
	return nil
}
