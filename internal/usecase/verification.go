package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
)

type VerifyReviewInput struct {
	Author        filmpulse.Pubkey
	Verify        filmpulse.Pubkey
	ReviewKey     filmpulse.Pubkey
	AuthorAddress filmpulse.Pubkey
	VerifierKeys  []string
}

type VerificationUsecase struct {
	accounts AccountRepository
	config   domain.Config
	now      func() time.Time
}

func NewVerificationUsecase(accounts AccountRepository, config domain.Config, now func() time.Time) *VerificationUsecase {
	if now == nil {
		now = time.Now
	}
	return &VerificationUsecase{accounts: accounts, config: config, now: now}
}

// Verify stores an attestation for ReviewKey. The review itself is not looked up.
func (uc *VerificationUsecase) Verify(ctx context.Context, input VerifyReviewInput) (domain.Verification, error) {
	ctx, span := tracer.Start(ctx, "Verification.Usecase.Verify")
	defer span.End()

	if input.Verify.IsZero() {
		err := fmt.Errorf("%w: verify slot is required", domain.ErrInvalidAddress)
		span.RecordError(err)
		return domain.Verification{}, err
	}

	verification := domain.Verification{
		Address:   input.Verify,
		Author:    input.Author,
		Timestamp: uc.now().Unix(),
		ReviewKey: input.ReviewKey,
	}

	layout := domain.VerificationLayout()
	data, err := domain.EncodeVerification(verification, layout)
	if err != nil {
		span.RecordError(err)
		return domain.Verification{}, err
	}

	slot := domain.Slot{
		Address:   input.Verify,
		Kind:      domain.AccountKindVerification,
		Authority: input.Author,
		Lamports:  uc.config.Rent().MinimumBalance(layout.Size()),
		Data:      data,
	}
	if err := uc.accounts.Allocate(ctx, slot, input.Author); err != nil {
		span.RecordError(err)
		return domain.Verification{}, err
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("verify", input.Verify.String()).
		Str("review", input.ReviewKey.String()).
		Int("verifierKeys", len(input.VerifierKeys)).
		Msg("review verified")

	return verification, nil
}
