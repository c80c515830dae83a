// Copyright (c) 2019 Caleb James DeLisle
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger"
	"github.com/blockvault/ledgerd/pktlog/log"
)

const (
	defaultConfigFilename    = "ledgerd.conf"
	defaultMigrationsDirname = "migrations"
	defaultLogLevel          = "info"
	defaultRPCTimeoutSeconds = 30
	defaultRPCMaxRetries     = 3
)

var defaultHomeDir = filepath.Join(os.Getenv("HOME"), ".ledgerd")

// config holds every option the ledgerd binary itself needs: how to reach
// Postgres, the account label passed to getnewaddress/sendmany, the RPC
// defaults applied to any currency that leaves its own columns unset, and
// log verbosity. Per-currency connection details (rpc_url, rpc_user, ...)
// live in the currencies table, not here — spec.md §9 "Global state" design
// note re-expresses the teacher's process-wide config variable as an
// injected value, with the currency registry kept in the store.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`

	DataSourceName string `long:"dsn" description:"Postgres data source name"`
	MigrationsDir  string `long:"migrations" description:"Directory of golang-migrate migration files"`

	AccountLabel string `long:"account" description:"Node account label used for getnewaddress/sendmany" default:""`

	RPCTimeoutSeconds int `long:"rpctimeout" description:"Default per-call node RPC timeout in seconds" default:"30"`
	RPCMaxRetries     int `long:"rpcretries" description:"Default bounded retry budget per node RPC call" default:"3"`

	LogLevel string `long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`
}

func defaultConfig() config {
	return config{
		ConfigFile:        filepath.Join(defaultHomeDir, defaultConfigFilename),
		MigrationsDir:     defaultMigrationsDirname,
		RPCTimeoutSeconds: defaultRPCTimeoutSeconds,
		RPCMaxRetries:     defaultRPCMaxRetries,
		LogLevel:          defaultLogLevel,
	}
}

// loadConfig mirrors the teacher's own three-pass load: defaults plus a
// pre-parse for --configfile, then an INI config file if present, then
// command-line flags, with the command line always taking precedence.
func loadConfig() (*config, []string, er.R) {
	cfg := defaultConfig()

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, (flags.Default&^flags.PrintErrors&^flags.HelpFlag)|flags.IgnoreUnknown)
	_, err := preParser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); !ok || flagsErr.Type != flags.ErrHelp {
			return nil, nil, er.E(err)
		}
	}
	if preCfg.ConfigFile != "" {
		cfg.ConfigFile = preCfg.ConfigFile
	}

	if fileExists(cfg.ConfigFile) {
		iniParser := flags.NewIniParser(flags.NewParser(&cfg, flags.Default))
		if err := iniParser.ParseFile(cfg.ConfigFile); err != nil {
			if _, ok := err.(*os.PathError); !ok {
				return nil, nil, er.E(err)
			}
		}
	}

	// IgnoreUnknown is required here: everything after the ledgerd-level
	// flags is a urfave/cli subcommand name plus that subcommand's own
	// flags (--currency, --txid, ...), which this parser does not know
	// about and must pass through untouched as positional arguments.
	parser := flags.NewParser(&cfg, flags.Default|flags.IgnoreUnknown)
	remaining, err := parser.Parse()
	if err != nil {
		return nil, nil, er.E(err)
	}

	if cfg.DataSourceName == "" {
		return nil, nil, er.Errorf("--dsn is required (or set dsn= in %s)", cfg.ConfigFile)
	}
	if _, ok := log.LevelFromString(cfg.LogLevel); !ok {
		return nil, nil, er.Errorf("invalid loglevel %q", cfg.LogLevel)
	}
	if err := log.SetLogLevels(cfg.LogLevel); err != nil {
		return nil, nil, err
	}

	return &cfg, remaining, nil
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// settings adapts the parsed CLI config to ledger.Settings.
func (c *config) settings() ledger.Settings {
	return ledger.Settings{
		AccountLabel:         c.AccountLabel,
		DefaultRPCTimeout:    time.Duration(c.RPCTimeoutSeconds) * time.Second,
		DefaultRPCMaxRetries: c.RPCMaxRetries,
	}
}
