package repository

import (
	"context"
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/infra/database/models"
	"github.com/totegamma/filmpulse/internal/observability"
	"github.com/totegamma/filmpulse/internal/usecase"
)

var tracer = otel.Tracer("repository")

const (
	accountCacheTTL = 60 // seconds

	// accountTombstone marks a key whose slot was just closed. Fills never
	// overwrite it, so a read that raced the close cannot revive the slot.
	accountTombstone uint32 = 1
)

// accountCache is the subset of *memcache.Client the slot store uses.
type accountCache interface {
	Get(key string) (*memcache.Item, error)
	Add(item *memcache.Item) error
	Set(item *memcache.Item) error
	Delete(key string) error
}

type AccountRepository struct {
	db *gorm.DB
	mc accountCache
}

// NewAccountRepository builds the slot store. mc may be nil to disable the read cache.
func NewAccountRepository(db *gorm.DB, mc *memcache.Client) *AccountRepository {
	r := &AccountRepository{db: db}
	if mc != nil {
		r.mc = mc
	}
	return r
}

func accountCacheKey(address filmpulse.Pubkey) string {
	return "filmpulse:account:" + address.String()
}

func (r *AccountRepository) Allocate(ctx context.Context, slot domain.Slot, payer filmpulse.Pubkey) error {
	ctx, span := tracer.Start(ctx, "Account.Repository.Allocate")
	defer span.End()

	account := models.Account{
		Address:   slot.Address.String(),
		Kind:      string(slot.Kind),
		Authority: slot.Authority.String(),
		Lamports:  slot.Lamports,
		Data:      slot.Data,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&account)
		if result.Error != nil {
			return errors.Wrap(result.Error, "insert account")
		}
		if result.RowsAffected == 0 {
			return errors.Wrapf(domain.ErrAccountAlreadyInUse, "allocate: address %s", slot.Address)
		}
		return debitWallet(tx, payer, slot.Lamports)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	// a reused address may still carry the tombstone of its previous slot
	if r.mc != nil {
		if err := r.mc.Delete(accountCacheKey(slot.Address)); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("memcache delete failed")
		}
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, address filmpulse.Pubkey) (domain.Slot, error) {
	ctx, span := tracer.Start(ctx, "Account.Repository.Get")
	defer span.End()

	key := accountCacheKey(address)
	if r.mc != nil {
		item, err := r.mc.Get(key)
		if err == nil && item.Flags != accountTombstone {
			var cached models.Account
			if err := json.Unmarshal(item.Value, &cached); err == nil {
				return accountToDomain(cached)
			}
		} else if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("memcache get failed")
		}
	}

	var account models.Account
	err := r.db.WithContext(ctx).Where("address = ?", address.String()).Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Slot{}, domain.NotFoundError{Resource: "account"}
		}
		span.RecordError(err)
		return domain.Slot{}, errors.Wrap(err, "get account")
	}

	r.fillCache(ctx, key, account)

	return accountToDomain(account)
}

// fillCache stores a freshly read row unless the key is already present.
func (r *AccountRepository) fillCache(ctx context.Context, key string, account models.Account) {
	if r.mc == nil {
		return
	}
	b, err := json.Marshal(account)
	if err != nil {
		return
	}
	err = r.mc.Add(&memcache.Item{Key: key, Value: b, Expiration: accountCacheTTL})
	if err != nil && !errors.Is(err, memcache.ErrNotStored) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("memcache add failed")
	}
}

func (r *AccountRepository) Close(ctx context.Context, address filmpulse.Pubkey, guard func(domain.Slot) error) (domain.Slot, error) {
	ctx, span := tracer.Start(ctx, "Account.Repository.Close")
	defer span.End()

	var closed domain.Slot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", address.String()).
			Take(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "account"}
			}
			return errors.Wrap(err, "lock account")
		}

		slot, err := accountToDomain(account)
		if err != nil {
			return err
		}
		if err := guard(slot); err != nil {
			return err
		}

		if err := creditWallet(tx, slot.Authority, slot.Lamports); err != nil {
			return err
		}
		if err := tx.Delete(&models.Account{}, "address = ?", account.Address).Error; err != nil {
			return errors.Wrap(err, "delete account")
		}
		closed = slot
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.Slot{}, err
	}

	if r.mc != nil {
		err := r.mc.Set(&memcache.Item{
			Key:        accountCacheKey(address),
			Flags:      accountTombstone,
			Expiration: accountCacheTTL,
		})
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("memcache tombstone failed")
		}
	}

	return closed, nil
}

func accountToDomain(account models.Account) (domain.Slot, error) {
	address, err := filmpulse.ParsePubkey(account.Address)
	if err != nil {
		return domain.Slot{}, err
	}
	authority, err := filmpulse.ParsePubkey(account.Authority)
	if err != nil {
		return domain.Slot{}, err
	}
	return domain.Slot{
		Address:   address,
		Kind:      domain.AccountKind(account.Kind),
		Authority: authority,
		Lamports:  account.Lamports,
		Data:      account.Data,
	}, nil
}

var _ usecase.AccountRepository = (*AccountRepository)(nil)
