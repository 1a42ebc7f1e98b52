package services

import (
	"errors"

	"ecopoints/internal/pkg/limiter"
	"ecopoints/internal/points"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
)

// toErrorx classifies domain errors for the HTTP layer.
func toErrorx(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, points.ErrNotFound):
		return errorx.Wrap(err, errorx.NotExist)
	case errors.Is(err, points.ErrInsufficientPoints):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, ErrActionInProgress):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, limiter.ErrRateLimited):
		return errorx.Wrap(err, errorx.RateLimiting)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenRevoked):
		return errorx.Wrap(err, errorx.Authn)
	case errors.Is(err, ErrEmailTaken):
		return errorx.Wrap(err, errorx.Validation)
	default:
		return errorx.Wrap(err, errorx.Service)
	}
}
