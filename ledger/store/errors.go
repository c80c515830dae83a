package store

import "github.com/blockvault/ledgerd/btcutil/er"

// ErrorType collects the failure modes a Store implementation can surface.
// Engine callers match on these codes (e.g. ErrNoAddress) rather than on
// backend-specific errors (sql.ErrNoRows, pq error codes, ...).
var ErrorType = er.NewErrorType("store.ErrorType")

var (
	ErrCurrencyNotFound = ErrorType.Code("ErrCurrencyNotFound")
	ErrWalletNotFound   = ErrorType.Code("ErrWalletNotFound")
	ErrTxNotFound       = ErrorType.Code("ErrTxNotFound")
	ErrWithdrawNotFound = ErrorType.Code("ErrWithdrawNotFound")
	// ErrNoAddress is returned by ClaimAddressForWallet when the wallet owns
	// no address and the currency's unassigned pool is empty.
	ErrNoAddress = ErrorType.Code("ErrNoAddress")
	// ErrNegativeBalance signals an invariant violation: a PostOperation
	// would have driven balance, unconfirmed or holded negative. The
	// enclosing transaction is aborted; this is a bug, not user input.
	ErrNegativeBalance = ErrorType.Code("ErrNegativeBalance")
)
