package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
)

var tracer = otel.Tracer("usecase")

type PostReviewInput struct {
	Author     filmpulse.Pubkey
	Review     filmpulse.Pubkey
	Title      string
	Essay      string
	Rating     int32
	AuthorKeys []filmpulse.Pubkey
}

type DeleteReviewInput struct {
	Author filmpulse.Pubkey
	Review filmpulse.Pubkey
}

type ReviewUsecase struct {
	accounts AccountRepository
	config   domain.Config
	now      func() time.Time
}

func NewReviewUsecase(accounts AccountRepository, config domain.Config, now func() time.Time) *ReviewUsecase {
	if now == nil {
		now = time.Now
	}
	return &ReviewUsecase{accounts: accounts, config: config, now: now}
}

func (uc *ReviewUsecase) Layout() domain.Layout {
	return domain.ReviewLayout(uc.config.ReviewReserved)
}

// Post validates the fields and writes a new review into a fresh slot paid for by the author.
func (uc *ReviewUsecase) Post(ctx context.Context, input PostReviewInput) (domain.Review, error) {
	ctx, span := tracer.Start(ctx, "Review.Usecase.Post")
	defer span.End()

	if err := domain.ValidateReview(input.Title, input.Essay); err != nil {
		span.RecordError(err)
		return domain.Review{}, err
	}
	if input.Review.IsZero() {
		err := fmt.Errorf("%w: review slot is required", domain.ErrInvalidAddress)
		span.RecordError(err)
		return domain.Review{}, err
	}

	review := domain.Review{
		Address:   input.Review,
		Author:    input.Author,
		Timestamp: uc.now().Unix(),
		Title:     input.Title,
		Essay:     input.Essay,
		Rating:    input.Rating,
	}

	layout := uc.Layout()
	data, err := domain.EncodeReview(review, layout)
	if err != nil {
		span.RecordError(err)
		return domain.Review{}, err
	}

	slot := domain.Slot{
		Address:   input.Review,
		Kind:      domain.AccountKindReview,
		Authority: input.Author,
		Lamports:  uc.config.Rent().MinimumBalance(layout.Size()),
		Data:      data,
	}
	if err := uc.accounts.Allocate(ctx, slot, input.Author); err != nil {
		span.RecordError(err)
		return domain.Review{}, err
	}

	// co-author rewards were never enabled
	observability.LoggerFromContext(ctx).Debug().
		Str("review", input.Review.String()).
		Int("authorKeys", len(input.AuthorKeys)).
		Msg("review posted")

	return review, nil
}

// Delete closes a review owned by the signer and refunds its deposit to the author.
func (uc *ReviewUsecase) Delete(ctx context.Context, input DeleteReviewInput) (domain.Review, error) {
	ctx, span := tracer.Start(ctx, "Review.Usecase.Delete")
	defer span.End()

	var review domain.Review
	_, err := uc.accounts.Close(ctx, input.Review, func(slot domain.Slot) error {
		if slot.Kind != domain.AccountKindReview {
			return fmt.Errorf("%w: %s is a %s", domain.ErrAccountKindMismatch, slot.Address, slot.Kind)
		}
		decoded, err := domain.DecodeReview(slot.Address, slot.Data)
		if err != nil {
			return err
		}
		if err := domain.Authorize(decoded, input.Author, domain.RelationAuthor); err != nil {
			return err
		}
		review = decoded
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.Review{}, err
	}

	return review, nil
}
