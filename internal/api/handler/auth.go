package handler

import (
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

func (gr *groupAuth) SignUp(c echo.Context) error {
	var payload services.SignUpInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAuth, err := do.Invoke[*services.ServiceAuth](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceAuth.SignUp(c.Request().Context(), payload, c.RealIP())
	return httpx.RestAbort(c, result, err)
}

func (gr *groupAuth) SignIn(c echo.Context) error {
	var payload services.SignInInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAuth, err := do.Invoke[*services.ServiceAuth](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceAuth.SignIn(c.Request().Context(), payload)
	return httpx.RestAbort(c, result, err)
}

func (gr *groupAuth) SignOut(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := ResolveAuthClaims(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAuth, err := do.Invoke[*services.ServiceAuth](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceAuth.SignOut(ctx, claims); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "success", nil)
}
