package ledger

import (
	"context"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/pktlog/log"
)

// QueryTransactions walks listsinceblock from the currency's last seen block
// and feeds every receive entry owned by this currency's wallets through the
// deposit processor. The deposit processor's own idempotence guarantees
// correctness against repeated runs, so a transaction appearing many times
// (once per owned output) is harmless.
func (e *Engine) QueryTransactions(ctx context.Context, ticker string) er.R {
	client, err := e.NodeClient(ticker)
	if err != nil {
		return err
	}
	currency, err := e.Store.GetCurrency(ctx, ticker)
	if err != nil {
		return err
	}

	tip, err := client.GetBlockCount(ctx)
	if err != nil {
		return err
	}
	tip -= int64(currency.ConfirmationsRequired)
	if tip < 0 {
		tip = 0
	}
	h, err := client.GetBlockHash(ctx, tip)
	if err != nil {
		return err
	}

	since := ""
	if currency.LastBlockHash != nil {
		since = *currency.LastBlockHash
	}
	result, err := client.ListSinceBlock(ctx, since)
	if err != nil {
		return err
	}

	for _, d := range result.Transactions {
		switch d.Category {
		case string(CategoryReceive):
			if derr := e.ProcessDepositTransaction(ctx, ticker, Txdict{
				Category:      CategoryReceive,
				Txid:          d.TxID,
				Address:       d.Address,
				Amount:        money.NewFromFloat(d.Amount),
				Confirmations: d.Confirmations,
			}); derr != nil {
				log.Warnf("ledger: %s scan: deposit processing for tx %s failed: %s", ticker, d.TxID, derr.String())
			}
		case string(CategorySend):
			// Confirmation advancement for already-sent WithdrawTransaction
			// rows has no externally visible state beyond State == Sent in
			// this specification; nothing further to do here.
		}
	}

	return e.Store.UpdateLastBlockHash(ctx, ticker, h)
}

// QueryTransaction is the explicit one-shot re-query entry point: it
// refetches a single transaction by id and replays its receive details
// through the deposit processor.
func (e *Engine) QueryTransaction(ctx context.Context, ticker string, txid string) er.R {
	client, err := e.NodeClient(ticker)
	if err != nil {
		return err
	}
	result, err := client.GetTransaction(ctx, txid)
	if err != nil {
		return err
	}
	for _, d := range result.Details {
		if d.Category != string(CategoryReceive) {
			continue
		}
		if derr := e.ProcessDepositTransaction(ctx, ticker, Txdict{
			Category:      CategoryReceive,
			Txid:          txid,
			Address:       d.Address,
			Amount:        money.NewFromFloat(d.Amount),
			Confirmations: result.Confirmations,
		}); derr != nil {
			return derr
		}
	}
	return nil
}
