package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/usecase"
)

var tracer = otel.Tracer("auth")

type AuthService struct {
	config domain.Config
}

func NewAuthService(config domain.Config) *AuthService {
	return &AuthService{
		config: config,
	}
}

// VerifyDocument checks the proof of a signed document against the signer it names.
func (s *AuthService) VerifyDocument(ctx context.Context, sd filmpulse.SignedDocument) (usecase.CommitInput, error) {
	_, span := tracer.Start(ctx, "Auth.Service.VerifyDocument")
	defer span.End()

	var doc filmpulse.Document[json.RawMessage]
	if err := json.Unmarshal([]byte(sd.Document), &doc); err != nil {
		err = errors.Wrap(err, "malformed document")
		span.RecordError(err)
		return usecase.CommitInput{}, err
	}
	span.SetAttributes(
		attribute.String("Signer", doc.Signer.String()),
		attribute.String("Schema", doc.Schema),
	)

	if sd.Proof.Type != filmpulse.ProofTypeEd25519 {
		err := fmt.Errorf("%w: unsupported proof type %q", domain.ErrInvalidSignature, sd.Proof.Type)
		span.RecordError(err)
		return usecase.CommitInput{}, err
	}

	if doc.Signer.IsZero() {
		err := fmt.Errorf("%w: document has no signer", domain.ErrInvalidSignature)
		span.RecordError(err)
		return usecase.CommitInput{}, err
	}

	signature, err := base58.Decode(sd.Proof.Signature)
	if err != nil {
		err = fmt.Errorf("%w: signature is not base58", domain.ErrInvalidSignature)
		span.RecordError(err)
		return usecase.CommitInput{}, err
	}

	if err := filmpulse.VerifySignature([]byte(sd.Document), signature, doc.Signer); err != nil {
		err = fmt.Errorf("%w: %s", domain.ErrInvalidSignature, err.Error())
		span.RecordError(err)
		return usecase.CommitInput{}, err
	}

	return usecase.CommitInput{Document: doc, Raw: sd}, nil
}
