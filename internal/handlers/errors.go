package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

var defaultNewError = huma.NewError

// NewError replaces huma.NewError so request validation failures are
// reported as 400 instead of 422.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	return defaultNewError(status, msg, errs...)
}

// httpError translates a service error into an HTTP error. Anything outside
// the client error kinds is logged and reported as a 500 carrying failMsg.
func httpError(ctx context.Context, logger *zap.Logger, err error, failMsg string) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	default:
		logger.Error(failMsg,
			zap.String("request_id", requestID(ctx)),
			zap.Error(err),
		)

		return huma.Error500InternalServerError(failMsg)
	}
}
