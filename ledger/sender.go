package ledger

import (
	"context"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/metrics"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/ledger/store"
	"github.com/blockvault/ledgerd/pktlog/log"
)

// ProcessWithdrawTransactions drains the pending withdraw queue for one
// currency into a single coalesced sendmany call. Concurrent invocations for
// the same currency are serialized by a per-currency advisory lock that
// spans the RPC call, so two senders can never double-submit the same rows.
func (e *Engine) ProcessWithdrawTransactions(ctx context.Context, ticker string) er.R {
	client, cerr := e.NodeClient(ticker)
	if cerr != nil {
		return cerr
	}

	return e.Store.WithCurrencyLock(ctx, ticker, func(tx store.Tx) er.R {
		currency, err := tx.GetCurrency(ticker)
		if err != nil {
			return err
		}

		pending, err := tx.ListPendingWithdraws(ticker)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		addressTotals := map[string]money.Money{}
		for _, wt := range pending {
			addressTotals[wt.Address] = addressTotals[wt.Address].Add(wt.Amount)
		}

		destinations := map[string]money.Money{}
		for addr, total := range addressTotals {
			if !total.IsDust(currency.Dust) {
				destinations[addr] = total
			}
		}
		if len(destinations) == 0 {
			return nil // every candidate destination is dust; retry later
		}

		var included []models.WithdrawTransaction
		for _, wt := range pending {
			if _, ok := destinations[wt.Address]; ok {
				included = append(included, wt)
			}
		}

		txid, serr := client.SendMany(ctx, e.Settings.AccountLabel, destinations)
		if serr != nil {
			// Nothing mutated; the batch retries on the next invocation.
			return serr
		}

		fee := money.Zero
		envelope, gerr := client.GetTransaction(ctx, txid)
		if gerr != nil {
			log.Warnf("ledger: gettransaction(%s) failed after successful sendmany for %s: %s; fee recorded as 0 pending reconciliation", txid, ticker, gerr.String())
		} else {
			fee = money.NewFromFloat(-envelope.Fee).RoundHalfEven()
		}

		ids := make([]int64, 0, len(included))
		contributions := map[int64]money.Money{}
		representative := map[int64]int64{}
		for _, wt := range included {
			ids = append(ids, wt.ID)
			contributions[wt.WalletID] = contributions[wt.WalletID].Add(wt.Amount)
			if prev, ok := representative[wt.WalletID]; !ok || wt.ID < prev {
				representative[wt.WalletID] = wt.ID
			}
		}
		if err := tx.MarkWithdrawsSent(ids, txid); err != nil {
			return err
		}
		metrics.WithdrawalsBatched.WithLabelValues(ticker).Add(float64(len(ids)))
		metrics.SendManyFeeSatoshi.WithLabelValues(ticker).Observe(fee.Float64() * 1e8)

		contribList := make([]money.Contribution, 0, len(contributions))
		for walletID, amount := range contributions {
			contribList = append(contribList, money.Contribution{WalletID: walletID, Amount: amount})
		}
		shares := money.SplitProportional(fee, contribList)

		// One combined Operation per contributing wallet carries both the
		// fee debit and the release of that wallet's share of the hold;
		// dust rows left out of destinations keep their hold untouched.
		for walletID, walletTotal := range contributions {
			if _, err := tx.PostOperation(models.Operation{
				WalletID:     walletID,
				BalanceDelta: shares[walletID].Neg(),
				HoldedDelta:  walletTotal.Neg(),
				Description:  "Network fee",
				ReasonKind:   models.ReasonWithdrawTransaction,
				ReasonID:     representative[walletID],
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
