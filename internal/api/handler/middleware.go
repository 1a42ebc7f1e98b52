package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"ecopoints/internal/models"
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthClaims ctxKey = "AUTH_CLAIMS"

func Authn(verifier interface {
	Validate(ctx context.Context, token string) (*services.AuthClaims, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			claims, err := verifier.Validate(c.Request().Context(), token)
			if err != nil {
				// although it's a client error, we don't want to detailed information
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthClaims, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveAuthClaims(ctx context.Context) (*services.AuthClaims, error) {
	claims, ok := ctx.Value(ctxKeyAuthClaims).(*services.AuthClaims)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}
	return claims, nil
}

// ResolveValidStudent loads the profile behind the token. A token whose
// profile is gone is treated as signed out; store failures stay service errors.
func ResolveValidStudent(ctx context.Context, container *do.Injector) (*models.Student, error) {
	claims, err := ResolveAuthClaims(ctx)
	if err != nil {
		return nil, err
	}

	serviceStudent, err := do.Invoke[*services.ServiceStudent](container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	student, err := serviceStudent.FindStudent(ctx, claims.StudentID)
	if err != nil {
		return nil, profileLookupError(err)
	}

	return student, nil
}

func profileLookupError(err error) error {
	var target *errorx.Error
	if errors.As(err, &target) && target.Of(errorx.NotExist) {
		return errorx.Wrap(errors.New("missing profile"), errorx.Authn)
	}
	if target != nil {
		return err
	}
	return errorx.Wrap(err, errorx.Service)
}

func paramInt64(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, errorx.Wrap(errors.New("invalid "+name), errorx.Validation)
	}
	return v, nil
}
