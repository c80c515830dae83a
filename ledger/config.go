package ledger

import "time"

// Settings is the process-wide configuration every entry point is handed
// explicitly, replacing the teacher's process-global config variable: the
// currency registry itself lives in the Store, but the account label and
// default RPC bounds are injected rather than read from package state.
type Settings struct {
	// AccountLabel is the node-side account name used for getnewaddress and
	// sendmany calls; the teacher family of daemons defaults this to "".
	AccountLabel string

	// DefaultRPCTimeout and DefaultRPCMaxRetries apply when a currency row
	// leaves its own RPCTimeoutSeconds/RPCMaxRetries unset (zero).
	DefaultRPCTimeout    time.Duration
	DefaultRPCMaxRetries int
}

// DefaultSettings matches spec defaults: 30s RPC timeout, 3 retries.
func DefaultSettings() Settings {
	return Settings{
		AccountLabel:         "",
		DefaultRPCTimeout:    30 * time.Second,
		DefaultRPCMaxRetries: 3,
	}
}
