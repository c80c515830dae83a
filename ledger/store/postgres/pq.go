package postgres

import (
	"github.com/lib/pq"
)

// pqInt64Array adapts a plain []int64 for use as a Postgres ANY($n) argument.
func pqInt64Array(ids []int64) interface{} {
	return pq.Array(ids)
}

// isCheckViolation reports whether err is a Postgres CHECK constraint
// violation (SQLSTATE 23514), the class the wallets_nonneg constraint raises.
func isCheckViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23514"
}
