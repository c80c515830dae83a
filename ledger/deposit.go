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

// DepositCategory mirrors the node's transaction category field.
type DepositCategory string

const (
	CategoryReceive  DepositCategory = "receive"
	CategoryImmature DepositCategory = "immature"
	CategoryGenerate DepositCategory = "generate"
	CategorySend     DepositCategory = "send"
)

// Txdict is the minimal inbound chain-transaction descriptor the deposit
// processor and the reconciliation scanner both synthesize from node RPC
// envelopes.
type Txdict struct {
	Category      DepositCategory
	Txid          string
	Address       string
	Amount        money.Money
	Confirmations int64
}

// ProcessDepositTransaction is the deposit processor entry point. It is a
// no-op when the address is unassigned or unowned: the daemon received funds
// we cannot yet account to a wallet. It is idempotent against duplicate
// notifications of the same (txid, address, currency).
func (e *Engine) ProcessDepositTransaction(ctx context.Context, ticker string, txdict Txdict) er.R {
	if txdict.Confirmations < 0 {
		log.Warnf("ledger: %s tx %s at address %s has negative confirmations (%d), ignoring",
			ticker, txdict.Txid, txdict.Address, txdict.Confirmations)
		metrics.ConflictedTx.WithLabelValues(ticker).Inc()
		return nil
	}

	addr, err := e.Store.FindAddress(ctx, ticker, txdict.Address)
	if err != nil {
		if store.ErrNoAddress.Is(err) {
			return nil // funds received to an address we don't own
		}
		return err
	}
	if addr.WalletID == nil {
		return nil // unassigned address: no wallet to credit yet
	}
	walletID := *addr.WalletID

	return e.Store.WithWalletLock(ctx, walletID, func(tx store.Tx) er.R {
		currency, err := tx.GetCurrency(ticker)
		if err != nil {
			return err
		}

		trow, created, err := tx.GetOrCreateTransaction(txdict.Txid, txdict.Address, ticker)
		if err != nil {
			return err
		}
		_ = created
		if trow.Processed {
			metrics.DepositsProcessed.WithLabelValues(ticker, "already_processed").Inc()
			return nil // idempotence against duplicate notifications
		}

		hasPriorOp, err := tx.HasOperationForReason(models.ReasonTransaction, trow.ID)
		if err != nil {
			return err
		}

		switch txdict.Category {
		case CategoryReceive:
			if txdict.Confirmations >= int64(currency.ConfirmationsRequired) {
				if hasPriorOp {
					if _, err := tx.PostOperation(models.Operation{
						WalletID:         walletID,
						BalanceDelta:     txdict.Amount,
						UnconfirmedDelta: txdict.Amount.Neg(),
						Description:      "Deposit confirmed",
						ReasonKind:       models.ReasonTransaction,
						ReasonID:         trow.ID,
					}); err != nil {
						return err
					}
				} else {
					if _, err := tx.PostOperation(models.Operation{
						WalletID:     walletID,
						BalanceDelta: txdict.Amount,
						Description:  "Deposit confirmed",
						ReasonKind:   models.ReasonTransaction,
						ReasonID:     trow.ID,
					}); err != nil {
						return err
					}
				}
				if err := tx.MarkTransactionProcessed(trow.ID); err != nil {
					return err
				}
				metrics.DepositsProcessed.WithLabelValues(ticker, "confirmed").Inc()
				return nil
			}
			fallthrough
		case CategoryImmature, CategoryGenerate:
			if txdict.Confirmations < int64(currency.ConfirmationsRequired) {
				if !hasPriorOp {
					if _, err := tx.PostOperation(models.Operation{
						WalletID:         walletID,
						UnconfirmedDelta: txdict.Amount,
						Description:      "Deposit pending confirmation",
						ReasonKind:       models.ReasonTransaction,
						ReasonID:         trow.ID,
					}); err != nil {
						return err
					}
				}
				metrics.DepositsProcessed.WithLabelValues(ticker, "pending").Inc()
				return nil
			}
			return nil
		case CategorySend:
			return nil // handled by the withdraw-confirmation path, not here
		default:
			return ErrUnknownCategory.New(string(txdict.Category), nil)
		}
	})
}
