package presenter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Name  string `json:"name,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Cached writes payload with an ETag and answers 304 when the client already holds it.
func Cached(c echo.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return InternalError(c, err)
	}
	etag := `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func BadRequest(c echo.Context, err error) error {
	logger(c).Debug().Err(err).Msg("bad request")
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	logger(c).Debug().Str("reason", msg).Msg("bad request")
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	logger(c).Error().Err(err).Msg("internal error")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error chooses the status for err and writes it.
func Error(c echo.Context, err error) error {
	var code domain.ErrorCode
	if errors.As(err, &code) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: code.Error(),
			Code:  int(code),
			Name:  code.Name(),
		})
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		return InternalError(c, err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

func Status(err error) int {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, filmpulse.ErrInvalidPubkey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConstraintHasOne),
		errors.Is(err, domain.ErrOwnerMismatch),
		errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountAlreadyInUse),
		errors.Is(err, domain.ErrDuplicateCommit):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountFrozen),
		errors.Is(err, domain.ErrMintMismatch),
		errors.Is(err, domain.ErrAmountOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCommitExpired),
		errors.Is(err, domain.ErrUnknownInstruction),
		errors.Is(err, domain.ErrAccountKindMismatch),
		errors.Is(err, domain.ErrAccountOverflow),
		errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func logger(c echo.Context) *zerolog.Logger {
	return observability.LoggerFromContext(c.Request().Context())
}
