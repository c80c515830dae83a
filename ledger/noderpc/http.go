package noderpc

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/json-iterator/go"

	"github.com/blockvault/ledgerd/btcjson"
	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/metrics"
	"github.com/blockvault/ledgerd/ledger/money"
	"github.com/blockvault/ledgerd/pktlog/log"
)

// ErrorType collects the node RPC client's own failure modes, distinct from
// whatever the node itself returns in a Response.Error envelope.
var ErrorType = er.NewErrorType("noderpc.ErrorType")

var (
	// ErrTransport covers network-level failures: connection refused,
	// timeout, TLS errors. These are retried by HTTPClient.call up to
	// MaxRetries before being surfaced to the caller.
	ErrTransport = ErrorType.Code("ErrTransport")
	// ErrNodeRejected wraps a non-nil Response.Error from the node itself.
	// These are not retried — the node understood the call and rejected
	// it, so retrying would reject identically — except for
	// btcjson.ErrRPCInWarmup, which is retried like a transport failure.
	ErrNodeRejected = ErrorType.Code("ErrNodeRejected")
)

// HTTPClient is a minimal JSON-RPC 1.0-over-HTTP-basic-auth client, built
// directly on the btcjson.Request/Response envelope types rather than any
// heavier client library — the same shape the teacher's own rpcclient
// package and the bitcoind-family adapters in the wider pack use for this
// exact family of calls.
type HTTPClient struct {
	URL        string
	User       string
	Password   string
	Timeout    time.Duration
	MaxRetries int
	HTTP       *http.Client

	// Currency labels the ledger_rpc_call_duration_seconds/
	// ledger_rpc_retries_total metrics this client reports; it is the
	// ticker it was resolved for, not part of the wire protocol.
	Currency string

	nextID int64
}

// NewHTTPClient builds a client with the given per-call timeout and bounded
// retry budget; callers typically source these from Currency.RPCTimeoutSeconds
// / Currency.RPCMaxRetries, falling back to Settings' defaults when unset.
func NewHTTPClient(currency, url, user, password string, timeout time.Duration, maxRetries int) *HTTPClient {
	return &HTTPClient{
		URL:        url,
		User:       user,
		Password:   password,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		HTTP:       &http.Client{Timeout: timeout},
		Currency:   currency,
	}
}

func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, out interface{}) er.R {
	start := time.Now()
	defer func() {
		metrics.RPCCallDuration.WithLabelValues(method, c.Currency).Observe(time.Since(start).Seconds())
	}()

	req, err := btcjson.NewRequest(c.nextID, method, params)
	if err != nil {
		return err
	}
	c.nextID++

	body, errr := jsoniter.Marshal(req)
	if errr != nil {
		return er.E(errr)
	}

	var lastErr er.R
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RPCRetries.WithLabelValues(method, c.Currency).Inc()
			log.Debugf("noderpc: retrying %s (attempt %d/%d): %s", method, attempt, c.MaxRetries, lastErr.String())
			select {
			case <-ctx.Done():
				return er.E(ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, rerr := c.doOnce(ctx, body)
		if rerr != nil {
			lastErr = rerr
			continue
		}
		if resp.Error != nil {
			// A node still replaying its chain answers everything with
			// ErrRPCInWarmup; that one is worth the remaining retry
			// budget instead of failing the call outright.
			if int(resp.Error.Code) == btcjson.ErrRPCInWarmup.Number {
				lastErr = ErrNodeRejected.New(resp.Error.Message, nil)
				continue
			}
			return ErrNodeRejected.New(resp.Error.Message, nil)
		}
		if out != nil {
			if errr := jsoniter.Unmarshal(resp.Result, out); errr != nil {
				return er.E(errr)
			}
		}
		return nil
	}
	return ErrTransport.New(method, lastErr)
}

func (c *HTTPClient) doOnce(ctx context.Context, body []byte) (*btcjson.Response, er.R) {
	httpReq, errr := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if errr != nil {
		return nil, er.E(errr)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.User, c.Password)

	httpResp, errr := c.HTTP.Do(httpReq)
	if errr != nil {
		return nil, ErrTransport.New(errr.Error(), nil)
	}
	defer httpResp.Body.Close()

	raw, errr := ioutil.ReadAll(httpResp.Body)
	if errr != nil {
		return nil, ErrTransport.New(errr.Error(), nil)
	}
	if httpResp.StatusCode >= 500 {
		return nil, ErrTransport.New(httpResp.Status, nil)
	}

	var resp btcjson.Response
	if errr := jsoniter.Unmarshal(raw, &resp); errr != nil {
		return nil, er.E(errr)
	}
	return &resp, nil
}

func (c *HTTPClient) GetNewAddress(ctx context.Context, account string) (string, er.R) {
	var addr string
	if err := c.call(ctx, "getnewaddress", []interface{}{account}, &addr); err != nil {
		return "", err
	}
	return addr, nil
}

func (c *HTTPClient) SendMany(ctx context.Context, account string, amounts map[string]money.Money) (string, er.R) {
	floatAmounts := make(map[string]float64, len(amounts))
	for addr, amt := range amounts {
		floatAmounts[addr] = amt.Float64()
	}
	var txid string
	if err := c.call(ctx, "sendmany", []interface{}{account, floatAmounts}, &txid); err != nil {
		return "", err
	}
	return txid, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, txid string) (*btcjson.GetTransactionResult, er.R) {
	var res btcjson.GetTransactionResult
	if err := c.call(ctx, "gettransaction", []interface{}{txid}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListSinceBlock(ctx context.Context, blockHash string) (*btcjson.ListSinceBlockResult, er.R) {
	var res btcjson.ListSinceBlockResult
	params := []interface{}{}
	if blockHash != "" {
		params = append(params, blockHash)
	}
	if err := c.call(ctx, "listsinceblock", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) GetBlockCount(ctx context.Context) (int64, er.R) {
	var n int64
	if err := c.call(ctx, "getblockcount", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *HTTPClient) GetBlockHash(ctx context.Context, height int64) (string, er.R) {
	var hash string
	if err := c.call(ctx, "getblockhash", []interface{}{height}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

var _ Client = (*HTTPClient)(nil)
