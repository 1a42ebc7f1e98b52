package handler

import (
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPoints struct {
	container *do.Injector
}

func (gr *groupPoints) CheckIn(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	servicePoints, err := do.Invoke[*services.ServicePoints](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := servicePoints.CheckIn(ctx, student)
	return httpx.RestAbort(c, result, err)
}

func (gr *groupPoints) CompleteChallenge(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	challengeID, err := paramInt64(c, "id")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	servicePoints, err := do.Invoke[*services.ServicePoints](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := servicePoints.CompleteChallenge(ctx, student, challengeID)
	return httpx.RestAbort(c, result, err)
}

func (gr *groupPoints) Preview(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	productID, err := paramInt64(c, "id")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	servicePoints, err := do.Invoke[*services.ServicePoints](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	preview, err := servicePoints.Preview(ctx, student, productID)
	return httpx.RestAbort(c, preview, err)
}

func (gr *groupPoints) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	productID, err := paramInt64(c, "id")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	servicePoints, err := do.Invoke[*services.ServicePoints](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := servicePoints.Redeem(ctx, student, productID)
	return httpx.RestAbort(c, result, err)
}

func (gr *groupPoints) MarkUsed(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	servicePoints, err := do.Invoke[*services.ServicePoints](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := servicePoints.MarkUsed(ctx, student, services.ResolveRewardID(c.Param("id")))
	return httpx.RestAbort(c, result, err)
}
