package ledger

import (
	"context"

	"github.com/blockvault/ledgerd/btcutil/er"
	"github.com/blockvault/ledgerd/ledger/models"
	"github.com/blockvault/ledgerd/ledger/store"
	"github.com/blockvault/ledgerd/pktlog/log"
)

// GetAddress resolves a receive address for a wallet, claiming one from the
// currency's unassigned pool if the wallet does not already own one. It
// returns ErrNoAddressAvailable (wrapping store.ErrNoAddress) when the pool
// is empty — callers should run RefillAddressesQueue and retry.
func (e *Engine) GetAddress(ctx context.Context, walletID int64) (*models.Address, er.R) {
	var addr *models.Address
	err := e.Store.WithWalletLock(ctx, walletID, func(tx store.Tx) er.R {
		w, err := tx.GetWallet(walletID)
		if err != nil {
			return err
		}
		a, err := tx.ClaimAddressForWallet(w.Currency, walletID)
		if err != nil {
			if store.ErrNoAddress.Is(err) {
				return ErrNoAddressAvailable.New(w.Currency, err)
			}
			return err
		}
		addr = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

// RefillAddressesQueue walks every configured currency and tops its
// unassigned address pool up to Currency.AddressQueueTarget, minting fresh
// addresses from that currency's node as needed. Insert collisions on
// (address, currency) are swallowed by the store, making this idempotent
// against overlapping invocations.
func (e *Engine) RefillAddressesQueue(ctx context.Context) er.R {
	currencies, err := e.Store.ListCurrencies(ctx)
	if err != nil {
		return err
	}
	for _, c := range currencies {
		if err := e.refillOne(ctx, c); err != nil {
			log.Warnf("ledger: refill addresses for %s: %s", c.Ticker, err.String())
		}
	}
	return nil
}

func (e *Engine) refillOne(ctx context.Context, c models.Currency) er.R {
	client, err := e.NodeClient(c.Ticker)
	if err != nil {
		return err
	}
	for {
		n, err := e.Store.CountUnassignedAddresses(ctx, c.Ticker)
		if err != nil {
			return err
		}
		if int32(n) >= c.AddressQueueTarget {
			return nil
		}
		addr, err := client.GetNewAddress(ctx, e.Settings.AccountLabel)
		if err != nil {
			return err
		}
		if err := e.Store.InsertUnassignedAddress(ctx, c.Ticker, addr); err != nil {
			return err
		}
	}
}
