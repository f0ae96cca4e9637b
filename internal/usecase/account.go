package usecase

import (
	"context"
	"errors"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
)

// AccountView is a decoded account together with the deposit it holds.
type AccountView struct {
	Address  filmpulse.Pubkey   `json:"address"`
	Kind     domain.AccountKind `json:"kind"`
	Lamports uint64             `json:"lamports,omitempty"`
	Size     int                `json:"size,omitempty"`
	Value    any                `json:"value"`
}

type AccountUsecase struct {
	accounts AccountRepository
	ledger   Ledger
}

func NewAccountUsecase(accounts AccountRepository, ledger Ledger) *AccountUsecase {
	return &AccountUsecase{accounts: accounts, ledger: ledger}
}

// Get resolves a record slot first and falls back to a token account.
func (uc *AccountUsecase) Get(ctx context.Context, address filmpulse.Pubkey) (AccountView, error) {
	ctx, span := tracer.Start(ctx, "Account.Usecase.Get")
	defer span.End()

	slot, err := uc.accounts.Get(ctx, address)
	if err == nil {
		view := AccountView{
			Address:  address,
			Kind:     slot.Kind,
			Lamports: slot.Lamports,
			Size:     len(slot.Data),
		}
		switch slot.Kind {
		case domain.AccountKindReview:
			view.Value, err = domain.DecodeReview(address, slot.Data)
		case domain.AccountKindVerification:
			view.Value, err = domain.DecodeVerification(address, slot.Data)
		default:
			err = domain.ErrAccountKindMismatch
		}
		if err != nil {
			span.RecordError(err)
			return AccountView{}, err
		}
		return view, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return AccountView{}, err
	}

	token, err := uc.ledger.TokenAccount(ctx, address)
	if err != nil {
		span.RecordError(err)
		return AccountView{}, err
	}
	return AccountView{
		Address: address,
		Kind:    domain.AccountKindToken,
		Value:   token,
	}, nil
}

func (uc *AccountUsecase) WalletBalance(ctx context.Context, wallet filmpulse.Pubkey) (uint64, error) {
	return uc.ledger.WalletBalance(ctx, wallet)
}
