// Package memstore is an in-process, mutex-guarded implementation of
// ledger/store.Store. It enforces the same uniqueness and locking contracts
// as the Postgres backend so the engine's behavioral tests run against the
// real store interface without a database, and it is also suitable as the
// backend for a single-process deployment.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/store"
)

// Store is the in-memory store. The zero value is not usable; build one with
// New.
type Store struct {
	mu sync.Mutex

	currencies map[string]models.Currency
	wallets    map[int64]models.Wallet
	addresses  map[string]models.Address // key: ticker + "|" + address
	txByID     map[int64]models.Transaction
	txByKey    map[string]int64 // key: txid + "|" + address + "|" + ticker
	ops        map[int64]models.Operation
	opsByReason map[string][]int64 // key: kind + "|" + id
	withdraws  map[int64]models.WithdrawTransaction

	nextTxID       int64
	nextOpID       int64
	nextWithdrawID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		currencies:  make(map[string]models.Currency),
		wallets:     make(map[int64]models.Wallet),
		addresses:   make(map[string]models.Address),
		txByID:      make(map[int64]models.Transaction),
		txByKey:     make(map[string]int64),
		ops:         make(map[int64]models.Operation),
		opsByReason: make(map[string][]int64),
		withdraws:   make(map[int64]models.WithdrawTransaction),
	}
}

// SeedCurrency installs a currency for test setup.
func (s *Store) SeedCurrency(c models.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[c.Ticker] = c
}

// SeedWallet installs a wallet for test setup and returns its id.
func (s *Store) SeedWallet(w models.Wallet) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = int64(len(s.wallets)) + 1
	}
	s.wallets[w.ID] = w
	return w.ID
}

// SeedAddress installs an address for test setup.
func (s *Store) SeedAddress(a models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[a.Currency+"|"+a.Address] = a
}

func reasonKey(kind models.OperationReasonKind, id int64) string {
	return fmt.Sprintf("%s|%d", kind, id)
}

func (s *Store) GetCurrency(_ context.Context, ticker string) (*models.Currency, er.R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.currencies[ticker]
	if !ok {
		return nil, store.ErrCurrencyNotFound.New(ticker, nil)
	}
	return &c, nil
}

func (s *Store) ListCurrencies(_ context.Context) ([]models.Currency, er.R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) UpdateLastBlockHash(_ context.Context, ticker string, hash string) er.R {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.currencies[ticker]
	if !ok {
		return store.ErrCurrencyNotFound.New(ticker, nil)
	}
	h := hash
	c.LastBlockHash = &h
	s.currencies[ticker] = c
	return nil
}

func (s *Store) InsertUnassignedAddress(_ context.Context, ticker string, address string) er.R {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ticker + "|" + address
	if _, exists := s.addresses[key]; exists {
		return nil // idempotent, per the (address, currency) uniqueness contract
	}
	s.addresses[key] = models.Address{Address: address, Currency: ticker}
	return nil
}

func (s *Store) CountUnassignedAddresses(_ context.Context, ticker string) (int, er.R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.addresses {
		if a.Currency == ticker && a.WalletID == nil {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindAddress(_ context.Context, ticker string, address string) (*models.Address, er.R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.addresses[ticker+"|"+address]
	if !ok {
		return nil, store.ErrNoAddress.New(address, nil)
	}
	return &a, nil
}

func (s *Store) GetWallet(_ context.Context, walletID int64) (*models.Wallet, er.R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, store.ErrWalletNotFound.New(fmt.Sprintf("%d", walletID), nil)
	}
	return &w, nil
}

// snapshot captures every mutable map so a failed transaction can be rolled
// back wholesale; this stands in for Postgres's native transaction abort.
type snapshot struct {
	wallets     map[int64]models.Wallet
	addresses   map[string]models.Address
	txByID      map[int64]models.Transaction
	txByKey     map[string]int64
	ops         map[int64]models.Operation
	opsByReason map[string][]int64
	withdraws   map[int64]models.WithdrawTransaction
	currencies  map[string]models.Currency

	nextTxID       int64
	nextOpID       int64
	nextWithdrawID int64
}

func (s *Store) snapshot() snapshot {
	cp := func() snapshot {
		sn := snapshot{
			wallets:        make(map[int64]models.Wallet, len(s.wallets)),
			addresses:      make(map[string]models.Address, len(s.addresses)),
			txByID:         make(map[int64]models.Transaction, len(s.txByID)),
			txByKey:        make(map[string]int64, len(s.txByKey)),
			ops:            make(map[int64]models.Operation, len(s.ops)),
			opsByReason:    make(map[string][]int64, len(s.opsByReason)),
			withdraws:      make(map[int64]models.WithdrawTransaction, len(s.withdraws)),
			currencies:     make(map[string]models.Currency, len(s.currencies)),
			nextTxID:       s.nextTxID,
			nextOpID:       s.nextOpID,
			nextWithdrawID: s.nextWithdrawID,
		}
		for k, v := range s.wallets {
			sn.wallets[k] = v
		}
		for k, v := range s.addresses {
			sn.addresses[k] = v
		}
		for k, v := range s.txByID {
			sn.txByID[k] = v
		}
		for k, v := range s.txByKey {
			sn.txByKey[k] = v
		}
		for k, v := range s.ops {
			sn.ops[k] = v
		}
		for k, v := range s.opsByReason {
			cpv := make([]int64, len(v))
			copy(cpv, v)
			sn.opsByReason[k] = cpv
		}
		for k, v := range s.withdraws {
			sn.withdraws[k] = v
		}
		for k, v := range s.currencies {
			sn.currencies[k] = v
		}
		return sn
	}
	return cp()
}

func (s *Store) restore(sn snapshot) {
	s.wallets = sn.wallets
	s.addresses = sn.addresses
	s.txByID = sn.txByID
	s.txByKey = sn.txByKey
	s.ops = sn.ops
	s.opsByReason = sn.opsByReason
	s.withdraws = sn.withdraws
	s.currencies = sn.currencies
	s.nextTxID = sn.nextTxID
	s.nextOpID = sn.nextOpID
	s.nextWithdrawID = sn.nextWithdrawID
}

func (s *Store) runLocked(fn func(tx store.Tx) er.R) er.R {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snapshot()
	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// WithWalletLock and WithCurrencyLock both serialize on the single store
// mutex; that is strictly stronger than the per-wallet/per-currency
// granularity the real backend provides, which is acceptable for a test
// double and a single-process deployment.
func (s *Store) WithWalletLock(_ context.Context, _ int64, fn func(tx store.Tx) er.R) er.R {
	return s.runLocked(fn)
}

func (s *Store) WithWalletsLock(_ context.Context, _ []int64, fn func(tx store.Tx) er.R) er.R {
	return s.runLocked(fn)
}

func (s *Store) WithCurrencyLock(_ context.Context, _ string, fn func(tx store.Tx) er.R) er.R {
	return s.runLocked(fn)
}

var _ store.Store = (*Store)(nil)

type memTx struct {
	s *Store
}

func (t *memTx) GetCurrency(ticker string) (*models.Currency, er.R) {
	c, ok := t.s.currencies[ticker]
	if !ok {
		return nil, store.ErrCurrencyNotFound.New(ticker, nil)
	}
	return &c, nil
}

func (t *memTx) GetWallet(walletID int64) (*models.Wallet, er.R) {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return nil, store.ErrWalletNotFound.New(fmt.Sprintf("%d", walletID), nil)
	}
	return &w, nil
}

func (t *memTx) PostOperation(op models.Operation) (*models.Operation, er.R) {
	w, ok := t.s.wallets[op.WalletID]
	if !ok {
		return nil, store.ErrWalletNotFound.New(fmt.Sprintf("%d", op.WalletID), nil)
	}
	w.Balance = w.Balance.Add(op.BalanceDelta)
	w.Unconfirmed = w.Unconfirmed.Add(op.UnconfirmedDelta)
	w.Holded = w.Holded.Add(op.HoldedDelta)
	if w.Balance.IsNegative() || w.Unconfirmed.IsNegative() || w.Holded.IsNegative() {
		return nil, store.ErrNegativeBalance.New(fmt.Sprintf("wallet %d", op.WalletID), nil)
	}

	t.s.nextOpID++
	op.ID = t.s.nextOpID
	t.s.ops[op.ID] = op
	key := reasonKey(op.ReasonKind, op.ReasonID)
	t.s.opsByReason[key] = append(t.s.opsByReason[key], op.ID)
	t.s.wallets[op.WalletID] = w
	return &op, nil
}

func (t *memTx) ClaimAddressForWallet(ticker string, walletID int64) (*models.Address, er.R) {
	var active, anyOwned *models.Address
	for k, a := range t.s.addresses {
		if a.Currency != ticker || a.WalletID == nil || *a.WalletID != walletID {
			continue
		}
		cp := a
		if a.Active {
			active = &cp
			break
		}
		if anyOwned == nil {
			anyOwned = &cp
		}
		_ = k
	}
	if active != nil {
		return active, nil
	}
	if anyOwned != nil {
		return anyOwned, nil
	}
	for key, a := range t.s.addresses {
		if a.Currency == ticker && a.WalletID == nil {
			wid := walletID
			a.WalletID = &wid
			a.Active = true
			t.s.addresses[key] = a
			return &a, nil
		}
	}
	return nil, store.ErrNoAddress.New(ticker, nil)
}

func (t *memTx) GetAddress(ticker string, address string) (*models.Address, er.R) {
	a, ok := t.s.addresses[ticker+"|"+address]
	if !ok {
		return nil, store.ErrNoAddress.New(address, nil)
	}
	return &a, nil
}

func (t *memTx) GetOrCreateTransaction(txid, address, ticker string) (*models.Transaction, bool, er.R) {
	key := txid + "|" + address + "|" + ticker
	if id, ok := t.s.txByKey[key]; ok {
		tr := t.s.txByID[id]
		return &tr, false, nil
	}
	t.s.nextTxID++
	tr := models.Transaction{ID: t.s.nextTxID, Txid: txid, Address: address, Currency: ticker}
	t.s.txByID[tr.ID] = tr
	t.s.txByKey[key] = tr.ID
	return &tr, true, nil
}

func (t *memTx) MarkTransactionProcessed(transactionID int64) er.R {
	tr, ok := t.s.txByID[transactionID]
	if !ok {
		return store.ErrTxNotFound.New(fmt.Sprintf("%d", transactionID), nil)
	}
	tr.Processed = true
	t.s.txByID[transactionID] = tr
	return nil
}

func (t *memTx) HasOperationForReason(kind models.OperationReasonKind, id int64) (bool, er.R) {
	ids := t.s.opsByReason[reasonKey(kind, id)]
	return len(ids) > 0, nil
}

func (t *memTx) InsertWithdrawTransaction(wt models.WithdrawTransaction) (*models.WithdrawTransaction, er.R) {
	t.s.nextWithdrawID++
	wt.ID = t.s.nextWithdrawID
	wt.State = models.WithdrawStateNew
	t.s.withdraws[wt.ID] = wt
	return &wt, nil
}

func (t *memTx) ListPendingWithdraws(ticker string) ([]models.WithdrawTransaction, er.R) {
	var out []models.WithdrawTransaction
	for _, wt := range t.s.withdraws {
		if wt.Currency == ticker && wt.State == models.WithdrawStateNew && wt.Txid == nil {
			out = append(out, wt)
		}
	}
	return out, nil
}

func (t *memTx) MarkWithdrawsSent(ids []int64, txid string) er.R {
	for _, id := range ids {
		wt, ok := t.s.withdraws[id]
		if !ok {
			return store.ErrWithdrawNotFound.New(fmt.Sprintf("%d", id), nil)
		}
		tid := txid
		wt.Txid = &tid
		wt.State = models.WithdrawStateSent
		t.s.withdraws[id] = wt
	}
	return nil
}

func (t *memTx) UpdateLastBlockHash(ticker string, hash string) er.R {
	c, ok := t.s.currencies[ticker]
	if !ok {
		return store.ErrCurrencyNotFound.New(ticker, nil)
	}
	h := hash
	c.LastBlockHash = &h
	t.s.currencies[ticker] = c
	return nil
}

var _ store.Tx = (*memTx)(nil)
