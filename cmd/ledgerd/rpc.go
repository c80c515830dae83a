package main

import (
	"regexp"
	"sync"
	"time"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger"
	"github.com/blockvault/ledgerd/ledger/noderpc"
	"github.com/blockvault/ledgerd/ledger/store"
)

// nodeClientCache resolves a currency ticker to the noderpc.Client that
// speaks for that currency's node, building and caching one HTTPClient per
// ticker from the currencies table's rpc_url/rpc_user/rpc_password columns.
// This is the concrete closure Engine.NodeClient expects.
type nodeClientCache struct {
	store    store.Store
	settings ledger.Settings

	mu      sync.Mutex
	clients map[string]noderpc.Client
}

func newNodeClientCache(s store.Store, settings ledger.Settings) *nodeClientCache {
	return &nodeClientCache{store: s, settings: settings, clients: map[string]noderpc.Client{}}
}

func (c *nodeClientCache) resolve(ticker string) (noderpc.Client, er.R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[ticker]; ok {
		return client, nil
	}

	cur, err := c.store.GetCurrency(bgCtx, ticker)
	if err != nil {
		return nil, err
	}

	timeout := c.settings.DefaultRPCTimeout
	if cur.RPCTimeoutSeconds > 0 {
		timeout = time.Duration(cur.RPCTimeoutSeconds) * time.Second
	}
	retries := c.settings.DefaultRPCMaxRetries
	if cur.RPCMaxRetries > 0 {
		retries = int(cur.RPCMaxRetries)
	}

	client := noderpc.NewHTTPClient(ticker, cur.RPCURL, cur.RPCUser, cur.RPCPassword, timeout, retries)
	c.clients[ticker] = client
	return client, nil
}

// base58Address is a deliberately loose stand-in for the real per-currency
// address validator spec.md §1 names as an external collaborator
// ("is_valid_address(currency, s) -> bool", not implemented here). It only
// rejects strings that couldn't possibly be a Base58Check-encoded address,
// so callers get a real function to wire rather than an always-true stub;
// a production deployment injects the actual per-currency decoder instead.
var base58Address = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{25,62}$`)

func defaultAddressValidator(_ string, address string) bool {
	return base58Address.MatchString(address)
}
