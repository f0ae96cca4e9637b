package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/infra/database/models"
)

var (
	payer     = testKey(0x21)
	reviewKey = testKey(0x31)
)

func testSlot(address, authority filmpulse.Pubkey, lamports uint64) domain.Slot {
	return domain.Slot{
		Address:   address,
		Kind:      domain.AccountKindReview,
		Authority: authority,
		Lamports:  lamports,
		Data:      []byte{1, 2, 3, 4},
	}
}

func TestAccountAllocate(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, nil)
	ctx := context.Background()
	seedWallet(t, db, payer, 1000)

	slot := testSlot(reviewKey, payer, 300)
	require.NoError(t, repo.Allocate(ctx, slot, payer))
	assert.Equal(t, uint64(700), walletBalance(t, db, payer))

	got, err := repo.Get(ctx, reviewKey)
	require.NoError(t, err)
	assert.Equal(t, slot, got)

	t.Run("address in use", func(t *testing.T) {
		err := repo.Allocate(ctx, testSlot(reviewKey, payer, 100), payer)
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyInUse)
		assert.Equal(t, uint64(700), walletBalance(t, db, payer))

		got, err := repo.Get(ctx, reviewKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(300), got.Lamports)
	})

	t.Run("payer cannot cover the deposit", func(t *testing.T) {
		address := testKey(0x32)
		err := repo.Allocate(ctx, testSlot(address, payer, 701), payer)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, uint64(700), walletBalance(t, db, payer))

		_, err = repo.Get(ctx, address)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unfunded payer", func(t *testing.T) {
		address := testKey(0x33)
		err := repo.Allocate(ctx, testSlot(address, testKey(0x22), 1), testKey(0x22))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		_, err = repo.Get(ctx, address)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAccountClose(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, nil)
	ctx := context.Background()
	authority := testKey(0x23)
	seedWallet(t, db, payer, 1000)
	seedWallet(t, db, authority, 50)

	slot := testSlot(reviewKey, authority, 300)
	require.NoError(t, repo.Allocate(ctx, slot, payer))

	t.Run("guard rejects", func(t *testing.T) {
		rejected := errors.New("not the author")
		_, err := repo.Close(ctx, reviewKey, func(domain.Slot) error { return rejected })
		assert.ErrorIs(t, err, rejected)
		assert.Equal(t, uint64(50), walletBalance(t, db, authority))

		got, err := repo.Get(ctx, reviewKey)
		require.NoError(t, err)
		assert.Equal(t, slot, got)
	})

	var seen domain.Slot
	closed, err := repo.Close(ctx, reviewKey, func(s domain.Slot) error {
		seen = s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, slot, seen)
	assert.Equal(t, slot, closed)
	assert.Equal(t, uint64(350), walletBalance(t, db, authority))
	assert.Equal(t, uint64(700), walletBalance(t, db, payer))

	_, err = repo.Get(ctx, reviewKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Close(ctx, reviewKey, func(domain.Slot) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, uint64(350), walletBalance(t, db, authority))
}

func TestAccountCloseRefundsNewWallet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, nil)
	ctx := context.Background()
	authority := testKey(0x24)
	seedWallet(t, db, payer, 1000)

	require.NoError(t, repo.Allocate(ctx, testSlot(reviewKey, authority, 300), payer))
	_, err := repo.Close(ctx, reviewKey, func(domain.Slot) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(300), walletBalance(t, db, authority))
}

// A read that loaded the row before Close and fills the cache afterwards
// must not bring the slot back.
func TestAccountCloseKeepsStaleReadOut(t *testing.T) {
	db := newTestDB(t)
	cache := newMemCache()
	repo := &AccountRepository{db: db, mc: cache}
	ctx := context.Background()
	seedWallet(t, db, payer, 1000)

	slot := testSlot(reviewKey, payer, 300)
	require.NoError(t, repo.Allocate(ctx, slot, payer))
	_, err := repo.Get(ctx, reviewKey)
	require.NoError(t, err)

	key := accountCacheKey(reviewKey)
	item, err := cache.Get(key)
	require.NoError(t, err)
	assert.NotEqual(t, accountTombstone, item.Flags)

	var stale models.Account
	require.NoError(t, db.Where("address = ?", reviewKey.String()).Take(&stale).Error)

	_, err = repo.Close(ctx, reviewKey, func(domain.Slot) error { return nil })
	require.NoError(t, err)

	repo.fillCache(ctx, key, stale)

	item, err = cache.Get(key)
	require.NoError(t, err)
	assert.Equal(t, accountTombstone, item.Flags)

	_, err = repo.Get(ctx, reviewKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t.Run("reallocated address is readable", func(t *testing.T) {
		reused := testSlot(reviewKey, payer, 200)
		require.NoError(t, repo.Allocate(ctx, reused, payer))

		got, err := repo.Get(ctx, reviewKey)
		require.NoError(t, err)
		assert.Equal(t, reused, got)

		item, err := cache.Get(key)
		require.NoError(t, err)
		assert.NotEqual(t, accountTombstone, item.Flags)
	})
}
