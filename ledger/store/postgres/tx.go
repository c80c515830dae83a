package postgres

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/store"
)

// tx implements store.Tx against a single open *sqlx.Tx. None of its methods
// commit or roll back; the enclosing WithWalletLock/WithWalletsLock/
// WithCurrencyLock call does that once the caller's fn returns.
type tx struct {
	sqlTx *sqlx.Tx
}

func (t *tx) GetCurrency(ticker string) (*models.Currency, er.R) {
	var c models.Currency
	if err := t.sqlTx.Get(&c, `SELECT * FROM currencies WHERE ticker = $1`, ticker); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCurrencyNotFound.New(ticker, nil)
		}
		return nil, er.E(err)
	}
	return &c, nil
}

func (t *tx) GetWallet(walletID int64) (*models.Wallet, er.R) {
	var w models.Wallet
	if err := t.sqlTx.Get(&w, `SELECT * FROM wallets WHERE id = $1`, walletID); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrWalletNotFound.New("", nil)
		}
		return nil, er.E(err)
	}
	return &w, nil
}

// PostOperation applies an Operation's deltas to its wallet's materialized
// columns and appends the Operation row in the same statement sequence. The
// wallets_nonneg CHECK constraint is the backstop against a negative balance
// slipping through a bug in the engine above this package; a constraint
// violation here is translated to store.ErrNegativeBalance.
func (t *tx) PostOperation(op models.Operation) (*models.Operation, er.R) {
	res, err := t.sqlTx.Exec(
		`UPDATE wallets SET balance = balance + $1, unconfirmed = unconfirmed + $2, holded = holded + $3 WHERE id = $4`,
		op.BalanceDelta, op.UnconfirmedDelta, op.HoldedDelta, op.WalletID)
	if err != nil {
		if isCheckViolation(err) {
			return nil, store.ErrNegativeBalance.New(err.Error(), nil)
		}
		return nil, er.E(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrWalletNotFound.New("", nil)
	}

	var id int64
	if err := t.sqlTx.Get(&id, `
		INSERT INTO operations (wallet_id, balance_delta, unconfirmed_delta, holded_delta, description, reason_kind, reason_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		op.WalletID, op.BalanceDelta, op.UnconfirmedDelta, op.HoldedDelta, op.Description, op.ReasonKind, op.ReasonID); err != nil {
		return nil, er.E(err)
	}
	op.ID = id
	return &op, nil
}

// ClaimAddressForWallet implements the address-pool resolution order:
// 1. the wallet's own active address; 2. any address it already owns;
// 3. an unassigned address, claimed by setting its wallet_id; 4. ErrNoAddress.
func (t *tx) ClaimAddressForWallet(ticker string, walletID int64) (*models.Address, er.R) {
	var a models.Address
	err := t.sqlTx.Get(&a, `
		SELECT * FROM addresses WHERE currency = $1 AND wallet_id = $2
		ORDER BY active DESC LIMIT 1`, ticker, walletID)
	if err == nil {
		return &a, nil
	}
	if err != sql.ErrNoRows {
		return nil, er.E(err)
	}

	err = t.sqlTx.Get(&a, `
		UPDATE addresses SET wallet_id = $2, active = true
		WHERE ctid = (
			SELECT ctid FROM addresses
			WHERE currency = $1 AND wallet_id IS NULL
			FOR UPDATE SKIP LOCKED LIMIT 1
		)
		RETURNING *`, ticker, walletID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNoAddress.New(ticker, nil)
		}
		return nil, er.E(err)
	}
	return &a, nil
}

func (t *tx) GetAddress(ticker string, address string) (*models.Address, er.R) {
	var a models.Address
	if err := t.sqlTx.Get(&a, `SELECT * FROM addresses WHERE currency = $1 AND address = $2`, ticker, address); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNoAddress.New(address, nil)
		}
		return nil, er.E(err)
	}
	return &a, nil
}

func (t *tx) GetOrCreateTransaction(txid, address, ticker string) (*models.Transaction, bool, er.R) {
	var existing models.Transaction
	err := t.sqlTx.Get(&existing, `SELECT * FROM transactions WHERE txid = $1 AND address = $2 AND currency = $3`,
		txid, address, ticker)
	if err == nil {
		return &existing, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, er.E(err)
	}

	var created models.Transaction
	if err := t.sqlTx.Get(&created, `
		INSERT INTO transactions (txid, address, currency) VALUES ($1, $2, $3)
		ON CONFLICT (txid, address, currency) DO UPDATE SET txid = EXCLUDED.txid
		RETURNING *`, txid, address, ticker); err != nil {
		return nil, false, er.E(err)
	}
	return &created, true, nil
}

func (t *tx) MarkTransactionProcessed(transactionID int64) er.R {
	res, err := t.sqlTx.Exec(`UPDATE transactions SET processed = true WHERE id = $1`, transactionID)
	if err != nil {
		return er.E(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrTxNotFound.New("", nil)
	}
	return nil
}

func (t *tx) HasOperationForReason(kind models.OperationReasonKind, id int64) (bool, er.R) {
	var n int
	if err := t.sqlTx.Get(&n, `SELECT count(*) FROM operations WHERE reason_kind = $1 AND reason_id = $2`, kind, id); err != nil {
		return false, er.E(err)
	}
	return n > 0, nil
}

func (t *tx) InsertWithdrawTransaction(wt models.WithdrawTransaction) (*models.WithdrawTransaction, er.R) {
	var out models.WithdrawTransaction
	if err := t.sqlTx.Get(&out, `
		INSERT INTO withdraw_transactions (wallet_id, currency, address, amount, fee, state)
		VALUES ($1, $2, $3, $4, 0, 'new')
		RETURNING *`, wt.WalletID, wt.Currency, wt.Address, wt.Amount); err != nil {
		return nil, er.E(err)
	}
	return &out, nil
}

func (t *tx) ListPendingWithdraws(ticker string) ([]models.WithdrawTransaction, er.R) {
	var out []models.WithdrawTransaction
	if err := t.sqlTx.Select(&out, `
		SELECT * FROM withdraw_transactions
		WHERE currency = $1 AND state = 'new' AND txid IS NULL
		FOR UPDATE`, ticker); err != nil {
		return nil, er.E(err)
	}
	return out, nil
}

func (t *tx) MarkWithdrawsSent(ids []int64, txid string) er.R {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.sqlTx.Exec(`
		UPDATE withdraw_transactions SET txid = $1, state = 'sent'
		WHERE id = ANY($2)`, txid, pqInt64Array(ids))
	if err != nil {
		return er.E(err)
	}
	return nil
}

func (t *tx) UpdateLastBlockHash(ticker string, hash string) er.R {
	_, err := t.sqlTx.Exec(`UPDATE currencies SET last_block_hash = $1 WHERE ticker = $2`, hash, ticker)
	if err != nil {
		return er.E(err)
	}
	return nil
}

var _ store.Tx = (*tx)(nil)
