package ledger

import (
	"context"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/ledger/store"
)

// WithdrawToAddress records a new outbound withdraw request and immediately
// moves the requested amount from the wallet's spendable balance into hold.
// It validates the destination address, the amount, and sufficient balance
// inside the same serializable transaction that posts the hold.
func (e *Engine) WithdrawToAddress(ctx context.Context, walletID int64, address string, amount money.Money, description string) (*models.WithdrawTransaction, er.R) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount.New(amount.String(), nil)
	}

	var out *models.WithdrawTransaction
	err := e.Store.WithWalletLock(ctx, walletID, func(tx store.Tx) er.R {
		w, err := tx.GetWallet(walletID)
		if err != nil {
			return err
		}
		if !e.IsValid(w.Currency, address) {
			return ErrInvalidAddress.New(address, nil)
		}
		if w.Balance.Cmp(amount) < 0 {
			return ErrInsufficientBalance.New(w.Balance.String()+" < "+amount.String(), nil)
		}

		wt, err := tx.InsertWithdrawTransaction(models.WithdrawTransaction{
			WalletID: walletID,
			Currency: w.Currency,
			Address:  address,
			Amount:   amount,
		})
		if err != nil {
			return err
		}

		if _, err := tx.PostOperation(models.Operation{
			WalletID:     walletID,
			BalanceDelta: amount.Neg(),
			HoldedDelta:  amount,
			Description:  description,
			ReasonKind:   models.ReasonWithdrawTransaction,
			ReasonID:     wt.ID,
		}); err != nil {
			return err
		}
		out = wt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves funds between two wallets of the same currency in one
// serializable transaction, posting symmetric Operations whose reason is the
// counterparty wallet id under ReasonOperation.
func (e *Engine) Transfer(ctx context.Context, sourceWalletID, destWalletID int64, amount money.Money) er.R {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount.New(amount.String(), nil)
	}
	ids := []int64{sourceWalletID, destWalletID}
	return e.Store.WithWalletsLock(ctx, ids, func(tx store.Tx) er.R {
		src, err := tx.GetWallet(sourceWalletID)
		if err != nil {
			return err
		}
		dst, err := tx.GetWallet(destWalletID)
		if err != nil {
			return err
		}
		if src.Currency != dst.Currency {
			return ErrCurrencyMismatch.New(src.Currency+" != "+dst.Currency, nil)
		}
		if src.Balance.Cmp(amount) < 0 {
			return ErrInsufficientBalance.New(src.Balance.String()+" < "+amount.String(), nil)
		}

		// Operation.Reason is a (kind, id) pair over {Transaction,
		// WithdrawTransaction, Operation}; there is no dedicated Transfer
		// row to hang both sides off of, and Operation ids are assigned
		// sequentially by the store so neither side can know the other's id
		// in advance. Both legs reference the counterparty wallet id under
		// ReasonOperation, giving a symmetric, queryable link between the
		// two legs of the same transfer.
		if _, err := tx.PostOperation(models.Operation{
			WalletID:     sourceWalletID,
			BalanceDelta: amount.Neg(),
			Description:  "Transfer out",
			ReasonKind:   models.ReasonOperation,
			ReasonID:     destWalletID,
		}); err != nil {
			return err
		}
		_, err = tx.PostOperation(models.Operation{
			WalletID:     destWalletID,
			BalanceDelta: amount,
			Description:  "Transfer in",
			ReasonKind:   models.ReasonOperation,
			ReasonID:     sourceWalletID,
		})
		return err
	})
}
