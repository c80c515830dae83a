// Package models defines the relational shapes of the ledger: currencies,
// wallets, addresses, inbound transactions, outbound withdraw rows and the
// append-only operation log that is the sole writer of wallet balances.
package models

import (
	"time"

	"github.com/blockvault/ledgerd/ledger/money"
)

// Currency is a chain the ledger custodies funds on. Created once, rarely
// mutated; LastBlockHash is advanced only by the reconciliation scanner.
type Currency struct {
	Ticker               string     `db:"ticker"`
	Label                string     `db:"label"`
	MagicBytes           string     `db:"magic_bytes"`
	Dust                 money.Money `db:"dust"`
	ConfirmationsRequired int32      `db:"confirmations_required"`
	AddressQueueTarget   int32      `db:"address_queue_target"`
	RPCURL               string     `db:"rpc_url"`
	RPCUser              string     `db:"rpc_user"`
	RPCPassword          string     `db:"rpc_password"`
	RPCTimeoutSeconds    int32      `db:"rpc_timeout_seconds"`
	RPCMaxRetries        int32      `db:"rpc_max_retries"`
	LastBlockHash        *string    `db:"last_block_hash"`
}

// Wallet holds a custodial balance in one currency. At rest, outside the
// brief in-transaction window of a single Operation, Balance, Unconfirmed
// and Holded are all non-negative.
type Wallet struct {
	ID          int64      `db:"id"`
	Currency    string     `db:"currency"`
	Label       string     `db:"label"`
	Balance     money.Money `db:"balance"`
	Unconfirmed money.Money `db:"unconfirmed"`
	Holded      money.Money `db:"holded"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Address is a receive address belonging to a currency, optionally claimed
// by a wallet. Unclaimed addresses have WalletID == nil.
type Address struct {
	Address  string `db:"address"`
	Currency string `db:"currency"`
	WalletID *int64 `db:"wallet_id"`
	Active   bool   `db:"active"`
}

// Transaction is an inbound chain transaction credited to one owned address.
// Identity is (Txid, Address, Currency); once Processed it never reverts.
type Transaction struct {
	ID        int64  `db:"id"`
	Txid      string `db:"txid"`
	Address   string `db:"address"`
	Currency  string `db:"currency"`
	Processed bool   `db:"processed"`
	CreatedAt time.Time `db:"created_at"`
}

// WithdrawState is the lifecycle of an outbound withdraw request.
type WithdrawState string

const (
	WithdrawStateNew  WithdrawState = "new"
	WithdrawStateSent WithdrawState = "sent"
)

// WithdrawTransaction is a queued outbound payment. Created by withdrawal
// intake with State == New; transitioned to Sent by the batched sender
// together with the shared on-chain Txid.
type WithdrawTransaction struct {
	ID        int64         `db:"id"`
	WalletID  int64         `db:"wallet_id"`
	Currency  string        `db:"currency"`
	Address   string        `db:"address"`
	Amount    money.Money   `db:"amount"`
	Txid      *string       `db:"txid"`
	Fee       money.Money   `db:"fee"`
	State     WithdrawState `db:"state"`
	CreatedAt time.Time     `db:"created_at"`
}

// OperationReasonKind tags what kind of row an Operation's Reason points at.
type OperationReasonKind string

const (
	ReasonTransaction         OperationReasonKind = "transaction"
	ReasonWithdrawTransaction OperationReasonKind = "withdraw_transaction"
	ReasonOperation           OperationReasonKind = "operation"
)

// OperationReason is a tagged reference to the row that caused an Operation
// to be posted, modeled as (kind, id) rather than a polymorphic pointer.
type OperationReason struct {
	Kind OperationReasonKind
	ID   int64
}

// Operation is a single append-only ledger entry. The sum of an Operation's
// deltas for a wallet, taken over all of that wallet's Operations, equals
// the wallet's materialized Balance/Unconfirmed/Holded columns.
type Operation struct {
	ID              int64       `db:"id"`
	WalletID        int64       `db:"wallet_id"`
	BalanceDelta    money.Money `db:"balance_delta"`
	UnconfirmedDelta money.Money `db:"unconfirmed_delta"`
	HoldedDelta     money.Money `db:"holded_delta"`
	Description     string      `db:"description"`
	ReasonKind      OperationReasonKind `db:"reason_kind"`
	ReasonID        int64       `db:"reason_id"`
	CreatedAt       time.Time   `db:"created_at"`
}
