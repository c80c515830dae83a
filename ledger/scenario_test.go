package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockvault/ledgerd/btcjson"
	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/ledger/noderpc"
	"github.com/blockvault/ledgerd/ledger/store"
	"github.com/blockvault/ledgerd/ledger/store/memstore"
)

const testAddress = "mzBc4XEFSdzCDcTxAgf6EZXgsZWpztRhef"
const withdrawAddress = "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"

func alwaysValid(_ string, _ string) bool { return true }

func newTestEngine(mem *memstore.Store, client noderpc.Client) *ledger.Engine {
	return ledger.New(mem, ledger.DefaultSettings(), alwaysValid, func(_ string) (noderpc.Client, er.R) {
		return client, nil
	})
}

func seedBTC(mem *memstore.Store, confirmationsRequired int32, dust string) {
	mem.SeedCurrency(models.Currency{
		Ticker:                "btc",
		Label:                 "Bitcoin",
		Dust:                  money.MustParse(dust),
		ConfirmationsRequired: confirmationsRequired,
		AddressQueueTarget:    10,
	})
}

// S1 Confirmed deposit: one address owned by wallet W (balance 0). Feed a
// receive at or above the confirmation threshold -> credited straight to
// balance, transaction marked processed.
func TestS1ConfirmedDeposit(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc"})
	mem.SeedAddress(models.Address{Address: testAddress, Currency: "btc", WalletID: &walletID, Active: true})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	err := e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryReceive,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("5"),
		Confirmations: 87,
	})
	require.Nil(t, err)

	w, err := mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "5.00000000", w.Balance.String())
	require.Equal(t, "0.00000000", w.Unconfirmed.String())
}

// S2 Unconfirmed deposit: confirmations below threshold -> credited to
// unconfirmed only, transaction left unprocessed.
func TestS2UnconfirmedDeposit(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc"})
	mem.SeedAddress(models.Address{Address: testAddress, Currency: "btc", WalletID: &walletID, Active: true})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	err := e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryReceive,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("5"),
		Confirmations: 1,
	})
	require.Nil(t, err)

	w, err := mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "0.00000000", w.Balance.String())
	require.Equal(t, "5.00000000", w.Unconfirmed.String())
}

// S3 Immature coinbase: immature category below threshold behaves like an
// unconfirmed receive.
func TestS3ImmatureCoinbase(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc"})
	mem.SeedAddress(models.Address{Address: testAddress, Currency: "btc", WalletID: &walletID, Active: true})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	err := e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryImmature,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("1"),
		Confirmations: 1,
	})
	require.Nil(t, err)

	w, err := mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "1.00000000", w.Unconfirmed.String())
	require.Equal(t, "0.00000000", w.Balance.String())
}

// S4 Late confirmation: an unconfirmed posting already exists; the
// confirming feed must move the amount from unconfirmed to balance rather
// than double-crediting it.
func TestS4LateConfirmation(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc"})
	mem.SeedAddress(models.Address{Address: testAddress, Currency: "btc", WalletID: &walletID, Active: true})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	require.Nil(t, e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryReceive,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("5"),
		Confirmations: 1,
	}))
	require.Nil(t, e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryReceive,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("5"),
		Confirmations: 3,
	}))

	w, err := mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "5.00000000", w.Balance.String())
	require.Equal(t, "0.00000000", w.Unconfirmed.String())

	// Re-feeding the now-processed confirmation is a no-op (idempotence).
	require.Nil(t, e.ProcessDepositTransaction(ctx, "btc", ledger.Txdict{
		Category:      ledger.CategoryReceive,
		Txid:          "T1",
		Address:       testAddress,
		Amount:        money.MustParse("5"),
		Confirmations: 3,
	}))
	w, err = mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "5.00000000", w.Balance.String())
}

// S5 Withdrawal intake: a valid withdraw moves funds from balance to hold;
// an over-amount or invalid-address withdraw fails validation and mutates
// nothing.
func TestS5WithdrawalIntake(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc", Balance: money.MustParse("1")})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	wt, err := e.WithdrawToAddress(ctx, walletID, withdrawAddress, money.MustParse("1"), "d")
	require.Nil(t, err)
	require.Equal(t, models.WithdrawStateNew, wt.State)

	w, gerr := mem.GetWallet(ctx, walletID)
	require.Nil(t, gerr)
	require.Equal(t, "0.00000000", w.Balance.String())
	require.Equal(t, "1.00000000", w.Holded.String())

	_, err = e.WithdrawToAddress(ctx, walletID, withdrawAddress, money.MustParse("100"), "d")
	require.NotNil(t, err)
	require.True(t, ledger.ErrInsufficientBalance.Is(err))

	invalidEngine := ledger.New(mem, ledger.DefaultSettings(), func(_ string, _ string) bool { return false }, nil)
	_, err = invalidEngine.WithdrawToAddress(ctx, walletID, "not-an-address", money.MustParse("0.1"), "d")
	require.NotNil(t, err)
	require.True(t, ledger.ErrInvalidAddress.Is(err))
}

// S6 Batched send with dust: a dust-sized withdraw is excluded from the
// sendmany map and its row is left unsent; the deliverable withdraw is sent
// and its fee share debited from the initiating wallet.
func TestS6BatchedSendWithDust(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0.00005430")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc", Balance: money.MustParse("2")})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	_, err := e.WithdrawToAddress(ctx, walletID, "X", money.MustParse("1.0"), "")
	require.Nil(t, err)
	dustWT, err := e.WithdrawToAddress(ctx, walletID, "Y", money.MustParse("0.00000001"), "")
	require.Nil(t, err)

	node := &fakeNode{
		sendManyTxid: "T",
		getTxResult: &btcjson.GetTransactionResult{
			Fee: -0.0001,
			Details: []btcjson.GetTransactionDetailsResult{
				{Category: "send", Address: "X", Amount: -1.0},
			},
		},
	}
	e2 := newTestEngine(mem, node)
	require.Nil(t, e2.ProcessWithdrawTransactions(ctx, "btc"))

	require.Equal(t, sentAmountStrings(node.sentAmounts), map[string]string{"X": "1.00000000"})

	w, gerr := mem.GetWallet(ctx, walletID)
	require.Nil(t, gerr)
	require.Equal(t, "0.99989999", w.Balance.String())

	refreshedDust, derr := refetchWithdraw(mem, dustWT.ID)
	require.Nil(t, derr)
	require.Nil(t, refreshedDust.Txid)
	require.Equal(t, models.WithdrawStateNew, refreshedDust.State)
}

// S7 Coalescing: four intakes to three distinct addresses fold into one
// sendmany call with summed per-address amounts; the fee is posted as one
// "Network fee" Operation and every hold is released.
func TestS7Coalescing(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc", Balance: money.MustParse("1.0")})

	e := newTestEngine(mem, &fakeNode{})
	ctx := context.Background()

	for _, w := range []struct {
		addr string
		amt  string
	}{
		{"X", "0.1"}, {"X", "0.1"}, {"Y", "0.1"}, {"Z", "0.1"},
	} {
		_, err := e.WithdrawToAddress(ctx, walletID, w.addr, money.MustParse(w.amt), "")
		require.Nil(t, err)
	}

	node := &fakeNode{
		sendManyTxid: "T2",
		getTxResult: &btcjson.GetTransactionResult{
			Fee: -0.0001,
		},
	}
	e2 := newTestEngine(mem, node)
	require.Nil(t, e2.ProcessWithdrawTransactions(ctx, "btc"))

	require.Equal(t, sentAmountStrings(node.sentAmounts), map[string]string{
		"X": "0.20000000",
		"Y": "0.10000000",
		"Z": "0.10000000",
	})

	w, gerr := mem.GetWallet(ctx, walletID)
	require.Nil(t, gerr)
	require.Equal(t, "0.59990000", w.Balance.String())
	require.Equal(t, "0.00000000", w.Holded.String())
}

// S8 Since-block scan: a listsinceblock payload crediting three owned
// addresses above threshold posts the sum exactly once, ignoring the
// intermixed send entries and never double-counting the repeated txid.
func TestS8SinceBlockScan(t *testing.T) {
	mem := memstore.New()
	seedBTC(mem, 2, "0")
	walletID := mem.SeedWallet(models.Wallet{Currency: "btc"})
	mem.SeedAddress(models.Address{Address: "A1", Currency: "btc", WalletID: &walletID, Active: true})
	mem.SeedAddress(models.Address{Address: "A2", Currency: "btc", WalletID: &walletID})
	mem.SeedAddress(models.Address{Address: "A3", Currency: "btc", WalletID: &walletID})

	node := &fakeNode{
		blockCount: 100,
		blockHash:  "H100",
		listSinceBlock: &btcjson.ListSinceBlockResult{
			Transactions: []btcjson.ListTransactionsResult{
				{Category: "receive", TxID: "TA", Address: "A1", Amount: 500.1234567, Confirmations: 10},
				{Category: "send", TxID: "TB", Address: "somewhere-else", Amount: -1, Confirmations: 10},
				{Category: "receive", TxID: "TC", Address: "A2", Amount: 76.0000000, Confirmations: 10},
				// same txid delivering to a second owned output: must not double count
				{Category: "receive", TxID: "TC", Address: "A3", Amount: 0.0414596, Confirmations: 10},
			},
			LastBlock: "H100",
		},
	}
	e := newTestEngine(mem, node)
	ctx := context.Background()

	require.Nil(t, e.QueryTransactions(ctx, "btc"))

	w, err := mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "576.16491630", w.Balance.String())

	cur, cerr := mem.GetCurrency(ctx, "btc")
	require.Nil(t, cerr)
	require.NotNil(t, cur.LastBlockHash)
	require.Equal(t, "H100", *cur.LastBlockHash)

	// Re-running the scan against the same payload must not double count.
	require.Nil(t, e.QueryTransactions(ctx, "btc"))
	w, err = mem.GetWallet(ctx, walletID)
	require.Nil(t, err)
	require.Equal(t, "576.16491630", w.Balance.String())
}

func sentAmountStrings(m map[string]money.Money) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

// refetchWithdraw reaches into the store the same way the engine would, via
// a throwaway currency lock, since memstore exposes pending withdraws only
// through store.Tx.ListPendingWithdraws.
func refetchWithdraw(mem *memstore.Store, id int64) (*models.WithdrawTransaction, er.R) {
	var out *models.WithdrawTransaction
	err := mem.WithCurrencyLock(context.Background(), "btc", func(tx store.Tx) er.R {
		rows, err := tx.ListPendingWithdraws("btc")
		if err != nil {
			return err
		}
		for i := range rows {
			if rows[i].ID == id {
				out = &rows[i]
			}
		}
		return nil
	})
	return out, err
}
