package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/present/rest/presenter"
	"github.com/totegamma/filmpulse/internal/service"
	"github.com/totegamma/filmpulse/internal/usecase"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// VerifyCommit binds the signed document in the request body and rejects it
// unless its proof matches the signer. Handlers read the result with CommitFrom.
func (s *AuthMiddleware) VerifyCommit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.VerifyCommit")
		defer span.End()

		var sd filmpulse.SignedDocument
		if err := c.Bind(&sd); err != nil {
			span.RecordError(err)
			return presenter.BadRequest(c, err)
		}

		input, err := s.auth.VerifyDocument(ctx, sd)
		if err != nil {
			span.RecordError(err)
			return presenter.Error(c, err)
		}

		span.SetAttributes(attribute.String("Signer", input.Document.Signer.String()))
		ctx = context.WithValue(ctx, domain.SignerCtxKey, input.Document.Signer)
		ctx = context.WithValue(ctx, domain.CommitCtxKey, input)

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func CommitFrom(ctx context.Context) (usecase.CommitInput, bool) {
	input, ok := ctx.Value(domain.CommitCtxKey).(usecase.CommitInput)
	return input, ok
}
