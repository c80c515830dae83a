// Package noderpc names and implements the JSON-RPC contract this ledger
// speaks to a Bitcoin-derivative full-node daemon over. The wire envelopes
// are the teacher's own btcjson types, which already model exactly this
// family of calls.
package noderpc

import (
	"context"

	"github.com/blockvault/ledgerd/btcjson"
	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/money"
)

// Client is the node RPC surface the ledger engine depends on. Per the
// specification this is an external collaborator; this interface names its
// contract precisely so the engine can be built and tested against a fake
// while HTTPClient supplies a real, runnable adapter.
type Client interface {
	GetNewAddress(ctx context.Context, account string) (string, er.R)
	SendMany(ctx context.Context, account string, amounts map[string]money.Money) (txid string, err er.R)
	GetTransaction(ctx context.Context, txid string) (*btcjson.GetTransactionResult, er.R)
	ListSinceBlock(ctx context.Context, blockHash string) (*btcjson.ListSinceBlockResult, er.R)
	GetBlockCount(ctx context.Context) (int64, er.R)
	GetBlockHash(ctx context.Context, height int64) (string, er.R)
}
