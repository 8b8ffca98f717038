// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepond/pond/eventdb"
	"github.com/stakepond/pond/genesis"
	"github.com/stakepond/pond/log"
	"github.com/stakepond/pond/pooldb"
)

func fatal(args ...interface{}) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	// force machine-readable output when stderr is not a terminal
	json := ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, log.FromVerbosity(ctx.Uint64(verbosityFlag.Name)), json)
}

func loadGenesis(ctx *cli.Context) *genesis.Config {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		fatal("--genesis is required")
	}
	gene, err := genesis.Load(path)
	if err != nil {
		fatal(err)
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func openPoolDB(ctx *cli.Context, dataDir string) *pooldb.PoolDB {
	if ctx.Bool(memFlag.Name) {
		db, err := pooldb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open pool database: %v", err))
		}
		return db
	}
	path := filepath.Join(dataDir, "pool.db")
	db, err := pooldb.New(path, pooldb.Options{})
	if err != nil {
		fatal(fmt.Sprintf("open pool database [%v]: %v", path, err))
	}
	return db
}

func openEventDB(ctx *cli.Context, dataDir string) *eventdb.EventDB {
	if ctx.Bool(memFlag.Name) {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open event database: %v", err))
		}
		return db
	}
	path := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler}
	go func() {
		srv.Serve(listener)
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.stakepond.pond")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.stakepond.pond")
		}
		return filepath.Join(home, ".org.stakepond.pond")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
