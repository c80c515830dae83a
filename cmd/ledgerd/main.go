// Copyright (c) 2019 Caleb James DeLisle
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command ledgerd is the entry-point binary for the settlement core: one
// urfave/cli subcommand per entry point named in the specification. Each
// subcommand opens the store, runs exactly one invocation of the
// corresponding engine operation, and exits — the outer scheduler (cron,
// queue worker) that decides when to invoke each one is out of scope.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger"
	"github.com/blockvault/ledgerd/ledger/store/postgres"
	"github.com/blockvault/ledgerd/pktconfig/version"
)

var bgCtx = context.Background()

func main() {
	version.SetUserAgentName("ledgerd")
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err.String())
		os.Exit(1)
	}
}

func realMain() er.R {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.DataSourceName)
	if err != nil {
		return err
	}
	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		return err
	}

	settings := cfg.settings()
	clients := newNodeClientCache(db, settings)
	engine := ledger.New(db, settings, defaultAddressValidator, clients.resolve)

	app := cli.NewApp()
	app.Name = "ledgerd"
	app.Usage = "custodial wallet ledger settlement core"
	app.Version = version.Version()
	app.Commands = commands(engine)

	return er.E(app.Run(append([]string{"ledgerd"}, args...)))
}

func commands(e *ledger.Engine) []cli.Command {
	return []cli.Command{
		refillAddressesCommand(e),
		processDepositCommand(e),
		processWithdrawalsCommand(e),
		scanCommand(e),
		scanTxCommand(e),
	}
}

