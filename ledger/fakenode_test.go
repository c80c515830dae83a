package ledger_test

import (
	"context"

	"github.com/blockvault/ledgerd/btcjson"
	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/ledger/noderpc"
)

// fakeNode is a scriptable noderpc.Client stand-in, mirroring the way the
// pack's bitcoind-family adapters get exercised in tests: no network, every
// call answered from fields set up by the test.
type fakeNode struct {
	sendManyTxid   string
	sendManyErr    er.R
	sentAmounts    map[string]money.Money // last sendmany call's destination map, captured for assertions
	getTxResult    *btcjson.GetTransactionResult
	getTxErr       er.R
	listSinceBlock *btcjson.ListSinceBlockResult
	blockCount     int64
	blockHash      string
}

func (f *fakeNode) GetNewAddress(_ context.Context, _ string) (string, er.R) {
	return "", er.Errorf("not used in this test")
}

func (f *fakeNode) SendMany(_ context.Context, _ string, amounts map[string]money.Money) (string, er.R) {
	f.sentAmounts = amounts
	if f.sendManyErr != nil {
		return "", f.sendManyErr
	}
	return f.sendManyTxid, nil
}

func (f *fakeNode) GetTransaction(_ context.Context, _ string) (*btcjson.GetTransactionResult, er.R) {
	if f.getTxErr != nil {
		return nil, f.getTxErr
	}
	return f.getTxResult, nil
}

func (f *fakeNode) ListSinceBlock(_ context.Context, _ string) (*btcjson.ListSinceBlockResult, er.R) {
	return f.listSinceBlock, nil
}

func (f *fakeNode) GetBlockCount(_ context.Context) (int64, er.R) {
	return f.blockCount, nil
}

func (f *fakeNode) GetBlockHash(_ context.Context, _ int64) (string, er.R) {
	return f.blockHash, nil
}

var _ noderpc.Client = (*fakeNode)(nil)
