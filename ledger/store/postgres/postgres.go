// Package postgres is the production ledger/store.Store backend: jmoiron/sqlx
// over lib/pq, SERIALIZABLE transactions, SELECT ... FOR UPDATE row locks on
// wallets, and pg_advisory_xact_lock for the batched sender's per-currency
// lock. Schema migrations live under ./migrations and are applied with
// golang-migrate/migrate/v4.
package postgres

import (
	"context"
	"database/sql"
	"hash/fnv"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/store"
	"github.com/blockvault/ledgerd/pktlog/log"
)

var ErrorType = er.NewErrorType("postgres.ErrorType")

var ErrMigration = ErrorType.Code("ErrMigration")

// DB is the Postgres-backed Store.
type DB struct {
	sqlx *sqlx.DB
}

// Open connects to dsn and verifies the connection is live.
func Open(dsn string) (*DB, er.R) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, er.E(err)
	}
	return &DB{sqlx: db}, nil
}

// Migrate applies every pending migration under migrationsDir.
func (db *DB) Migrate(migrationsDir string) er.R {
	driver, err := postgres.WithInstance(db.sqlx.DB, &postgres.Config{})
	if err != nil {
		return ErrMigration.New(err.Error(), nil)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return ErrMigration.New(err.Error(), nil)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return ErrMigration.New(err.Error(), nil)
	}
	log.Infof("postgres: migrations applied from %s", migrationsDir)
	return nil
}

func (db *DB) GetCurrency(ctx context.Context, ticker string) (*models.Currency, er.R) {
	var c models.Currency
	if err := db.sqlx.GetContext(ctx, &c, `SELECT * FROM currencies WHERE ticker = $1`, ticker); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCurrencyNotFound.New(ticker, nil)
		}
		return nil, er.E(err)
	}
	return &c, nil
}

func (db *DB) ListCurrencies(ctx context.Context) ([]models.Currency, er.R) {
	var out []models.Currency
	if err := db.sqlx.SelectContext(ctx, &out, `SELECT * FROM currencies`); err != nil {
		return nil, er.E(err)
	}
	return out, nil
}

func (db *DB) UpdateLastBlockHash(ctx context.Context, ticker string, hash string) er.R {
	_, err := db.sqlx.ExecContext(ctx, `UPDATE currencies SET last_block_hash = $1 WHERE ticker = $2`, hash, ticker)
	if err != nil {
		return er.E(err)
	}
	return nil
}

func (db *DB) InsertUnassignedAddress(ctx context.Context, ticker string, address string) er.R {
	_, err := db.sqlx.ExecContext(ctx,
		`INSERT INTO addresses (address, currency) VALUES ($1, $2)
		 ON CONFLICT (currency, address) DO NOTHING`, address, ticker)
	if err != nil {
		return er.E(err)
	}
	return nil
}

func (db *DB) CountUnassignedAddresses(ctx context.Context, ticker string) (int, er.R) {
	var n int
	if err := db.sqlx.GetContext(ctx, &n,
		`SELECT count(*) FROM addresses WHERE currency = $1 AND wallet_id IS NULL`, ticker); err != nil {
		return 0, er.E(err)
	}
	return n, nil
}

func (db *DB) GetWallet(ctx context.Context, walletID int64) (*models.Wallet, er.R) {
	var w models.Wallet
	if err := db.sqlx.GetContext(ctx, &w, `SELECT * FROM wallets WHERE id = $1`, walletID); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrWalletNotFound.New("", nil)
		}
		return nil, er.E(err)
	}
	return &w, nil
}

func (db *DB) FindAddress(ctx context.Context, ticker string, address string) (*models.Address, er.R) {
	var a models.Address
	if err := db.sqlx.GetContext(ctx, &a,
		`SELECT * FROM addresses WHERE currency = $1 AND address = $2`, ticker, address); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNoAddress.New(address, nil)
		}
		return nil, er.E(err)
	}
	return &a, nil
}

func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) er.R) er.R {
	sqlTx, err := db.sqlx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return er.E(err)
	}
	txErr := fn(sqlTx)
	if txErr != nil {
		if rerr := sqlTx.Rollback(); rerr != nil {
			log.Errorf("postgres: rollback failed: %s", rerr)
		}
		return txErr
	}
	if err := sqlTx.Commit(); err != nil {
		return er.E(err)
	}
	return nil
}

func (db *DB) WithWalletLock(ctx context.Context, walletID int64, fn func(tx store.Tx) er.R) er.R {
	return db.withTx(ctx, func(sqlTx *sqlx.Tx) er.R {
		if _, err := sqlTx.ExecContext(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, walletID); err != nil {
			return er.E(err)
		}
		return fn(&tx{sqlTx: sqlTx})
	})
}

func (db *DB) WithWalletsLock(ctx context.Context, walletIDs []int64, fn func(tx store.Tx) er.R) er.R {
	return db.withTx(ctx, func(sqlTx *sqlx.Tx) er.R {
		ids := append([]int64(nil), walletIDs...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] }) // fixed lock order avoids deadlock against concurrent transfers
		if _, err := sqlTx.ExecContext(ctx,
			`SELECT id FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array(ids)); err != nil {
			return er.E(err)
		}
		return fn(&tx{sqlTx: sqlTx})
	})
}

// WithCurrencyLock takes a transaction-scoped Postgres advisory lock keyed
// on the currency ticker and holds it for the duration of fn, which in
// practice spans the sendmany RPC call the batched sender makes inside it.
func (db *DB) WithCurrencyLock(ctx context.Context, ticker string, fn func(tx store.Tx) er.R) er.R {
	return db.withTx(ctx, func(sqlTx *sqlx.Tx) er.R {
		if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, tickerLockKey(ticker)); err != nil {
			return er.E(err)
		}
		return fn(&tx{sqlTx: sqlTx})
	})
}

func tickerLockKey(ticker string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	return int64(h.Sum64())
}

var _ store.Store = (*DB)(nil)
