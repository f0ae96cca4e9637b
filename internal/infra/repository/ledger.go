package repository

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/infra/database/models"
	"github.com/totegamma/filmpulse/internal/usecase"
)

// maxBalance is the largest amount a bigint balance column holds.
const maxBalance = math.MaxInt64

// LedgerRepository keeps native wallet balances and token accounts.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) TokenAccount(ctx context.Context, address filmpulse.Pubkey) (domain.TokenAccount, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Repository.TokenAccount")
	defer span.End()

	var token models.TokenAccount
	err := r.db.WithContext(ctx).Where("address = ?", address.String()).Take(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TokenAccount{}, domain.NotFoundError{Resource: "token account"}
		}
		span.RecordError(err)
		return domain.TokenAccount{}, errors.Wrap(err, "get token account")
	}
	return tokenToDomain(token)
}

// Transfer moves req.Amount between two token accounts of the same mint.
// Checks run in the order frozen, balance, mint, owner.
func (r *LedgerRepository) Transfer(ctx context.Context, req usecase.TransferRequest) error {
	ctx, span := tracer.Start(ctx, "Ledger.Repository.Transfer")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.TokenAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address IN ?", []string{req.From.String(), req.To.String()}).
			Order("address").
			Find(&rows).Error
		if err != nil {
			return errors.Wrap(err, "lock token accounts")
		}

		var from, to *models.TokenAccount
		for i := range rows {
			if rows[i].Address == req.From.String() {
				from = &rows[i]
			}
			if rows[i].Address == req.To.String() {
				to = &rows[i]
			}
		}
		if from == nil || to == nil {
			return domain.NotFoundError{Resource: "token account"}
		}

		if from.Frozen || to.Frozen {
			return domain.ErrAccountFrozen
		}
		if from.Amount < req.Amount {
			return domain.ErrInsufficientFunds
		}
		if from.Mint != to.Mint {
			return domain.ErrMintMismatch
		}
		if !req.Mint.IsZero() && from.Mint != req.Mint.String() {
			return domain.ErrMintMismatch
		}
		if from.Owner != req.Authority.String() {
			return domain.ErrOwnerMismatch
		}

		if from.Address == to.Address {
			return nil
		}
		if req.Amount > maxBalance-to.Amount {
			return errors.Wrapf(domain.ErrAmountOverflow, "token account %s holds %d", to.Address, to.Amount)
		}

		if err := tx.Model(&models.TokenAccount{}).
			Where("address = ?", from.Address).
			Update("amount", from.Amount-req.Amount).Error; err != nil {
			return errors.Wrap(err, "debit token account")
		}
		if err := tx.Model(&models.TokenAccount{}).
			Where("address = ?", to.Address).
			Update("amount", to.Amount+req.Amount).Error; err != nil {
			return errors.Wrap(err, "credit token account")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *LedgerRepository) WalletBalance(ctx context.Context, wallet filmpulse.Pubkey) (uint64, error) {
	var w models.Wallet
	err := r.db.WithContext(ctx).Where("address = ?", wallet.String()).Take(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "get wallet")
	}
	return w.Lamports, nil
}

func (r *LedgerRepository) Airdrop(ctx context.Context, wallet filmpulse.Pubkey, lamports uint64) (uint64, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Repository.Airdrop")
	defer span.End()

	var balance uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := creditWallet(tx, wallet, lamports); err != nil {
			return err
		}
		var w models.Wallet
		if err := tx.Where("address = ?", wallet.String()).Take(&w).Error; err != nil {
			return errors.Wrap(err, "reload wallet")
		}
		balance = w.Lamports
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	return balance, nil
}

// MintTo opens the token account on first use and credits it.
func (r *LedgerRepository) MintTo(ctx context.Context, account domain.TokenAccount, amount uint64) (domain.TokenAccount, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Repository.MintTo")
	defer span.End()

	var minted models.TokenAccount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", account.Address.String()).
			Take(&minted).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if amount > maxBalance {
				return errors.Wrapf(domain.ErrAmountOverflow, "mint %d", amount)
			}
			minted = models.TokenAccount{
				Address: account.Address.String(),
				Mint:    account.Mint.String(),
				Owner:   account.Owner.String(),
				Amount:  amount,
			}
			return errors.Wrap(tx.Create(&minted).Error, "open token account")
		}
		if err != nil {
			return errors.Wrap(err, "lock token account")
		}

		if minted.Mint != account.Mint.String() {
			return domain.ErrMintMismatch
		}
		if minted.Frozen {
			return domain.ErrAccountFrozen
		}
		if amount > maxBalance-minted.Amount {
			return errors.Wrapf(domain.ErrAmountOverflow, "token account %s holds %d", minted.Address, minted.Amount)
		}
		minted.Amount += amount
		return errors.Wrap(
			tx.Model(&models.TokenAccount{}).Where("address = ?", minted.Address).Update("amount", minted.Amount).Error,
			"credit token account",
		)
	})
	if err != nil {
		span.RecordError(err)
		return domain.TokenAccount{}, err
	}
	return tokenToDomain(minted)
}

func debitWallet(tx *gorm.DB, wallet filmpulse.Pubkey, lamports uint64) error {
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", wallet.String()).
		Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(domain.ErrInsufficientFunds, "wallet %s has no balance", wallet)
	}
	if err != nil {
		return errors.Wrap(err, "lock wallet")
	}
	if w.Lamports < lamports {
		return errors.Wrapf(domain.ErrInsufficientFunds, "wallet %s holds %d, needs %d", wallet, w.Lamports, lamports)
	}
	return errors.Wrap(
		tx.Model(&models.Wallet{}).Where("address = ?", w.Address).Update("lamports", w.Lamports-lamports).Error,
		"debit wallet",
	)
}

func creditWallet(tx *gorm.DB, wallet filmpulse.Pubkey, lamports uint64) error {
	if lamports > maxBalance {
		return errors.Wrapf(domain.ErrAmountOverflow, "credit %d", lamports)
	}
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", wallet.String()).
		Take(&w).Error
	if err == nil {
		if lamports > maxBalance-w.Lamports {
			return errors.Wrapf(domain.ErrAmountOverflow, "wallet %s holds %d", wallet, w.Lamports)
		}
		return errors.Wrap(
			tx.Model(&models.Wallet{}).Where("address = ?", w.Address).Update("lamports", w.Lamports+lamports).Error,
			"credit wallet",
		)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "lock wallet")
	}
	// a concurrent first credit lands in the conflict branch
	return errors.Wrap(
		tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.Assignments(map[string]any{"lamports": gorm.Expr("wallets.lamports + excluded.lamports")}),
		}).Create(&models.Wallet{Address: wallet.String(), Lamports: lamports}).Error,
		"credit wallet",
	)
}

func tokenToDomain(token models.TokenAccount) (domain.TokenAccount, error) {
	address, err := filmpulse.ParsePubkey(token.Address)
	if err != nil {
		return domain.TokenAccount{}, err
	}
	mint, err := filmpulse.ParsePubkey(token.Mint)
	if err != nil {
		return domain.TokenAccount{}, err
	}
	owner, err := filmpulse.ParsePubkey(token.Owner)
	if err != nil {
		return domain.TokenAccount{}, err
	}
	return domain.TokenAccount{
		Address: address,
		Mint:    mint,
		Owner:   owner,
		Amount:  token.Amount,
		Frozen:  token.Frozen,
	}, nil
}

var _ usecase.Ledger = (*LedgerRepository)(nil)
