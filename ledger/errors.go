package ledger

import "github.com/blockvault/ledgerd/btcutil/er"

// ErrorType collects every domain-level failure this package can surface,
// following the one-ErrorType-per-package convention.
var ErrorType = er.NewErrorType("ledger.ErrorType")

// Validation failures: synchronous, no state mutated.
var (
	ErrInvalidAddress      = ErrorType.Code("ErrInvalidAddress")
	ErrNonPositiveAmount   = ErrorType.Code("ErrNonPositiveAmount")
	ErrInsufficientBalance = ErrorType.Code("ErrInsufficientBalance")
	ErrCurrencyMismatch    = ErrorType.Code("ErrCurrencyMismatch")
	ErrUnknownCurrency     = ErrorType.Code("ErrUnknownCurrency")
)

// Invariant violations: abort the transaction, surface as fatal to the
// operator. These should never happen; if they do, the bug is in this
// package, not in caller input.
var (
	ErrNegativeBalance = ErrorType.Code("ErrNegativeBalance")
	ErrUnknownCategory = ErrorType.Code("ErrUnknownCategory")
	ErrOrphanAddress   = ErrorType.Code("ErrOrphanAddress")
)

// ErrNoAddressAvailable is returned by the address pool when a wallet has no
// address of its own and the unassigned queue for its currency is empty.
var ErrNoAddressAvailable = ErrorType.Code("ErrNoAddressAvailable")
