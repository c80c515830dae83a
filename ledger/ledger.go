// Package ledger implements the settlement core: the balance state machine,
// the address pool, deposit processing, withdrawal hold/release, the batched
// sendmany coalescer and the since-block reconciliation scanner. Every
// mutation of a wallet's balance/unconfirmed/holded columns flows through
// store.Tx.PostOperation, the single writer this package allows.
package ledger

import (
	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/noderpc"
	"github.com/blockvault/ledgerd/ledger/store"
)

// AddressValidator is a pluggable, per-currency address-format check. The
// specification treats address validation as an external collaborator; the
// engine only ever calls it, never implements it.
type AddressValidator func(currency string, address string) bool

// Engine bundles everything an entry point needs: the store, the injected
// settings, the address validator, and a resolver for the per-currency node
// RPC client.
type Engine struct {
	Store      store.Store
	Settings   Settings
	IsValid    AddressValidator
	NodeClient func(ticker string) (noderpc.Client, er.R)
}

// New builds an Engine. nodeClient resolves a currency ticker to the RPC
// client that speaks for that currency's node; callers typically close over
// a map built once at process start from each Currency's RPC* fields.
func New(s store.Store, settings Settings, isValid AddressValidator, nodeClient func(ticker string) (noderpc.Client, er.R)) *Engine {
	return &Engine{Store: s, Settings: settings, IsValid: isValid, NodeClient: nodeClient}
}
