package main

import (
	"io/ioutil"
	"os"

	"github.com/json-iterator/go"
	"github.com/urfave/cli"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger"
	"github.com/blockvault/ledgerd/ledger/money"
)

// actionDecorator adapts an er.R-returning handler to the func(*cli.Context)
// error signature urfave/cli requires, matching the teacher's own lncli
// convention of keeping command bodies in terms of the typed error package.
func actionDecorator(f func(*cli.Context) er.R) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if err := f(c); err != nil {
			return er.Native(err)
		}
		return nil
	}
}

func refillAddressesCommand(e *ledger.Engine) cli.Command {
	return cli.Command{
		Name:  "refill-addresses",
		Usage: "top every currency's unassigned address pool up to its configured target",
		Action: actionDecorator(func(c *cli.Context) er.R {
			return e.RefillAddressesQueue(bgCtx)
		}),
	}
}

// depositTxdict is the JSON shape process-deposit reads from stdin or
// --file: the minimal {category, txid, address, amount, confirmations}
// descriptor spec.md §4.D requires of its txdict argument.
type depositTxdict struct {
	Category      string  `json:"category"`
	Txid          string  `json:"txid"`
	Address       string  `json:"address"`
	Amount        float64 `json:"amount"`
	Confirmations int64   `json:"confirmations"`
}

func processDepositCommand(e *ledger.Engine) cli.Command {
	return cli.Command{
		Name:      "process-deposit",
		Usage:     "feed one txdict through the deposit processor",
		ArgsUsage: "--currency=TICKER [--file=path.json]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "currency", Usage: "currency ticker"},
			cli.StringFlag{Name: "file", Usage: "read the txdict from this file instead of stdin"},
		},
		Action: actionDecorator(func(c *cli.Context) er.R {
			if c.String("currency") == "" {
				return er.Errorf("process-deposit: --currency is required")
			}
			var raw []byte
			var errr error
			if f := c.String("file"); f != "" {
				raw, errr = ioutil.ReadFile(f)
			} else {
				raw, errr = ioutil.ReadAll(os.Stdin)
			}
			if errr != nil {
				return er.E(errr)
			}

			var d depositTxdict
			if errr := jsoniter.Unmarshal(raw, &d); errr != nil {
				return er.E(errr)
			}

			return e.ProcessDepositTransaction(bgCtx, c.String("currency"), ledger.Txdict{
				Category:      ledger.DepositCategory(d.Category),
				Txid:          d.Txid,
				Address:       d.Address,
				Amount:        money.NewFromFloat(d.Amount),
				Confirmations: d.Confirmations,
			})
		}),
	}
}

func processWithdrawalsCommand(e *ledger.Engine) cli.Command {
	return cli.Command{
		Name:  "process-withdrawals",
		Usage: "coalesce the pending withdraw queue for one currency into a sendmany batch",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "currency", Usage: "currency ticker"},
		},
		Action: actionDecorator(func(c *cli.Context) er.R {
			if c.String("currency") == "" {
				return er.Errorf("process-withdrawals: --currency is required")
			}
			return e.ProcessWithdrawTransactions(bgCtx, c.String("currency"))
		}),
	}
}

func scanCommand(e *ledger.Engine) cli.Command {
	return cli.Command{
		Name:  "scan",
		Usage: "walk listsinceblock from the currency's last seen block",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "currency", Usage: "currency ticker"},
		},
		Action: actionDecorator(func(c *cli.Context) er.R {
			if c.String("currency") == "" {
				return er.Errorf("scan: --currency is required")
			}
			return e.QueryTransactions(bgCtx, c.String("currency"))
		}),
	}
}

func scanTxCommand(e *ledger.Engine) cli.Command {
	return cli.Command{
		Name:  "scan-tx",
		Usage: "re-query a single on-chain transaction by id",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "currency", Usage: "currency ticker"},
			cli.StringFlag{Name: "txid", Usage: "on-chain transaction id"},
		},
		Action: actionDecorator(func(c *cli.Context) er.R {
			if c.String("currency") == "" || c.String("txid") == "" {
				return er.Errorf("scan-tx: --currency and --txid are required")
			}
			return e.QueryTransaction(bgCtx, c.String("currency"), c.String("txid"))
		}),
	}
}
