package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
	"github.com/totegamma/filmpulse/schemas"
)

// CommitInput is a signed document whose proof has already been checked.
type CommitInput struct {
	Document filmpulse.Document[json.RawMessage]
	Raw      filmpulse.SignedDocument
}

type CommitUsecase struct {
	commits      CommitRepository
	publisher    EventPublisher
	review       *ReviewUsecase
	verification *VerificationUsecase
	transfer     *TransferUsecase
	config       domain.Config
	now          func() time.Time
}

func NewCommitUsecase(
	commits CommitRepository,
	publisher EventPublisher,
	review *ReviewUsecase,
	verification *VerificationUsecase,
	transfer *TransferUsecase,
	config domain.Config,
	now func() time.Time,
) *CommitUsecase {
	if now == nil {
		now = time.Now
	}
	return &CommitUsecase{
		commits:      commits,
		publisher:    publisher,
		review:       review,
		verification: verification,
		transfer:     transfer,
		config:       config,
		now:          now,
	}
}

type outcome struct {
	event   string
	address filmpulse.Pubkey
	logs    []string
}

// Commit applies one instruction. A document is applied at most once; when the
// instruction fails its reservation is dropped so the same document may be resent.
func (uc *CommitUsecase) Commit(ctx context.Context, input CommitInput) (filmpulse.CommitResult, error) {
	ctx, span := tracer.Start(ctx, "Commit.Usecase.Commit")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	doc := input.Document

	if uc.config.CommitMaxAge > 0 {
		age := uc.now().Sub(doc.CreateAt)
		if age < 0 {
			age = -age
		}
		if age > uc.config.CommitMaxAge {
			span.RecordError(domain.ErrCommitExpired)
			return filmpulse.CommitResult{}, domain.ErrCommitExpired
		}
	}

	id := filmpulse.CommitID(input.Raw.Document)
	err := uc.commits.Reserve(ctx, domain.Commit{
		ID:       id,
		Signer:   doc.Signer,
		Schema:   doc.Schema,
		Document: input.Raw.Document,
		Proof:    input.Raw.Proof.Signature,
		CreateAt: doc.CreateAt,
	})
	if err != nil {
		span.RecordError(err)
		return filmpulse.CommitResult{}, err
	}

	out, err := uc.dispatch(ctx, doc)
	if err != nil {
		span.RecordError(err)
		if rerr := uc.commits.Release(ctx, id); rerr != nil {
			logger.Error().Err(rerr).Str("commit", id).Msg("failed to release commit")
			return filmpulse.CommitResult{}, fmt.Errorf("%w (commit %s is still reserved: %w)", err, id, rerr)
		}
		return filmpulse.CommitResult{}, err
	}

	programID := uc.config.ProgramID.String()
	logs := make([]string, 0, len(out.logs)+3)
	logs = append(logs, fmt.Sprintf("Program %s invoke [1]", programID))
	logs = append(logs, "Program log: Instruction: "+instructionName(doc.Schema))
	for _, line := range out.logs {
		logs = append(logs, "Program log: "+line)
	}
	logs = append(logs, fmt.Sprintf("Program %s success", programID))

	if uc.publisher != nil {
		event := filmpulse.Event{
			Type:      out.event,
			Signer:    doc.Signer.String(),
			Commit:    id,
			Logs:      logs,
			Timestamp: uc.now().UTC(),
		}
		if !out.address.IsZero() {
			event.Address = out.address.String()
		}
		if err := uc.publisher.Publish(ctx, domain.EventChannel, event); err != nil {
			logger.Warn().Err(err).Str("commit", id).Msg("failed to publish event")
		}
	}

	logger.Info().Str("commit", id).Str("instruction", instructionName(doc.Schema)).Msg("commit applied")

	return filmpulse.CommitResult{ID: id, Logs: logs}, nil
}

func (uc *CommitUsecase) dispatch(ctx context.Context, doc filmpulse.Document[json.RawMessage]) (outcome, error) {
	switch doc.Schema {
	case schemas.PostReviewURL:
		var value schemas.PostReview
		if err := json.Unmarshal(doc.Value, &value); err != nil {
			return outcome{}, errors.Wrap(err, "invalid post-review payload")
		}
		review, err := uc.review.Post(ctx, PostReviewInput{
			Author:     doc.Signer,
			Review:     value.Review,
			Title:      value.Title,
			Essay:      value.Essay,
			Rating:     value.Rating,
			AuthorKeys: value.AuthorKeys,
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{event: domain.EventReviewPosted, address: review.Address}, nil

	case schemas.VerifyReviewURL:
		var value schemas.VerifyReview
		if err := json.Unmarshal(doc.Value, &value); err != nil {
			return outcome{}, errors.Wrap(err, "invalid verify-review payload")
		}
		verification, err := uc.verification.Verify(ctx, VerifyReviewInput{
			Author:        doc.Signer,
			Verify:        value.Verify,
			ReviewKey:     value.ReviewKey,
			AuthorAddress: value.AuthorAddress,
			VerifierKeys:  value.VerifierKeys,
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{event: domain.EventReviewVerified, address: verification.Address}, nil

	case schemas.TransferURL:
		var value schemas.Transfer
		if err := json.Unmarshal(doc.Value, &value); err != nil {
			return outcome{}, errors.Wrap(err, "invalid transfer payload")
		}
		logs, err := uc.transfer.Transfer(ctx, TransferInput{
			Sender:        doc.Signer,
			SenderToken:   value.SenderToken,
			ReceiverToken: value.ReceiverToken,
			Mint:          value.Mint,
			Amount:        value.Amount,
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{event: domain.EventTransfer, address: value.SenderToken, logs: logs}, nil

	case schemas.DeleteReviewURL:
		var value schemas.DeleteReview
		if err := json.Unmarshal(doc.Value, &value); err != nil {
			return outcome{}, errors.Wrap(err, "invalid delete-review payload")
		}
		review, err := uc.review.Delete(ctx, DeleteReviewInput{
			Author: doc.Signer,
			Review: value.Review,
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{event: domain.EventReviewDeleted, address: review.Address}, nil

	default:
		return outcome{}, fmt.Errorf("%w: %s", domain.ErrUnknownInstruction, doc.Schema)
	}
}

func instructionName(schema string) string {
	switch schema {
	case schemas.PostReviewURL:
		return "PostReview"
	case schemas.VerifyReviewURL:
		return "VerifyReview"
	case schemas.TransferURL:
		return "TransferWrapper"
	case schemas.DeleteReviewURL:
		return "DeleteReview"
	default:
		return "Unknown"
	}
}
