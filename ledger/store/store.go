// Package store declares the persistence contract the ledger engine runs
// against. It is deliberately small: every entry point in the ledger package
// reaches the database only through this interface, following the same
// abstracted-driver shape the teacher uses for its own storage layer (one
// interface, swappable backends — here: ledger/store/postgres for production
// and ledger/store/memstore for tests and single-process deployments).
package store

import (
	"context"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
)

// Store is the top-level handle a caller obtains once at process start.
type Store interface {
	// GetCurrency loads currency configuration and registry state.
	GetCurrency(ctx context.Context, ticker string) (*models.Currency, er.R)
	// ListCurrencies returns every configured currency, used by the address
	// pool refill sweep which iterates all of them.
	ListCurrencies(ctx context.Context) ([]models.Currency, er.R)
	// UpdateLastBlockHash advances a currency's reconciliation checkpoint.
	UpdateLastBlockHash(ctx context.Context, ticker string, hash string) er.R

	// InsertUnassignedAddress adds a freshly minted address to a currency's
	// unassigned pool. Idempotent: a uniqueness collision on (address,
	// currency) is swallowed, not surfaced as an error.
	InsertUnassignedAddress(ctx context.Context, ticker string, address string) er.R
	// CountUnassignedAddresses reports the current queue depth for a currency.
	CountUnassignedAddresses(ctx context.Context, ticker string) (int, er.R)

	// GetWallet reads a wallet without taking any lock; used for read-only
	// reporting. Entry points that mutate state go through WithWalletLock.
	GetWallet(ctx context.Context, walletID int64) (*models.Wallet, er.R)

	// FindAddress resolves an address to its owning wallet (if any) without
	// taking a lock. Callers use this to learn which wallet to lock before
	// opening a WithWalletLock transaction.
	FindAddress(ctx context.Context, ticker string, address string) (*models.Address, er.R)

	// WithWalletLock opens a serializable transaction, takes SELECT ... FOR
	// UPDATE on the wallet row, and runs fn. Every ledger-mutating entry
	// point (deposit, withdraw) goes through this.
	WithWalletLock(ctx context.Context, walletID int64, fn func(tx Tx) er.R) er.R

	// WithWalletsLock is WithWalletLock generalized to more than one wallet,
	// used by transfer. Implementations must lock rows in a fixed order
	// (ascending wallet id) to avoid deadlocking against concurrent
	// transfers touching an overlapping pair of wallets.
	WithWalletsLock(ctx context.Context, walletIDs []int64, fn func(tx Tx) er.R) er.R

	// WithCurrencyLock opens a serializable transaction holding a
	// per-currency advisory lock for the duration of fn, preventing two
	// batched-sender invocations for the same currency from overlapping.
	WithCurrencyLock(ctx context.Context, ticker string, fn func(tx Tx) er.R) er.R
}

// Tx is the set of operations available inside a locked transaction. Every
// method operates against the single open transaction; none of them commit
// or roll back on their own — the enclosing WithWalletLock/WithCurrencyLock
// call does that once fn returns.
type Tx interface {
	GetCurrency(ticker string) (*models.Currency, er.R)
	GetWallet(walletID int64) (*models.Wallet, er.R)

	// PostOperation applies an Operation's deltas to its wallet's
	// materialized columns and appends the Operation row. It is the only
	// function in the whole engine allowed to mutate Wallet.Balance,
	// Wallet.Unconfirmed or Wallet.Holded.
	PostOperation(op models.Operation) (*models.Operation, er.R)

	// ClaimAddressForWallet implements the address-pool resolution order:
	// the wallet's own active address, else any address it already owns,
	// else an unassigned address from the currency's pool (claimed by
	// setting its wallet_id), else ErrNoAddress.
	ClaimAddressForWallet(ticker string, walletID int64) (*models.Address, er.R)
	GetAddress(ticker string, address string) (*models.Address, er.R)

	// GetOrCreateTransaction returns the existing (txid, address, currency)
	// row, or inserts a new unprocessed one. The bool return is true when a
	// row was freshly created.
	GetOrCreateTransaction(txid, address, ticker string) (*models.Transaction, bool, er.R)
	MarkTransactionProcessed(transactionID int64) er.R

	// HasOperationForReason reports whether an Operation already exists
	// whose Reason points at the given (kind, id) pair. Used by the deposit
	// processor to decide whether an unconfirmed posting already happened.
	HasOperationForReason(kind models.OperationReasonKind, id int64) (bool, er.R)

	InsertWithdrawTransaction(wt models.WithdrawTransaction) (*models.WithdrawTransaction, er.R)
	// ListPendingWithdraws returns every WithdrawTransaction for a currency
	// with State == New and Txid == nil.
	ListPendingWithdraws(ticker string) ([]models.WithdrawTransaction, er.R)
	// MarkWithdrawsSent assigns the shared on-chain txid and sets State ==
	// Sent on every row in ids. Fee attribution is recorded separately as a
	// "Network fee" Operation per contributing wallet, not on the row
	// itself.
	MarkWithdrawsSent(ids []int64, txid string) er.R

	UpdateLastBlockHash(ticker string, hash string) er.R
}
