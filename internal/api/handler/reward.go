package handler

import (
	"net/http"

	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupReward struct {
	container *do.Injector
}

func (gr *groupReward) GetRewards(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rewards, err := serviceReward.ListRewards(ctx, student)
	return httpx.RestAbort(c, rewards, err)
}

func (gr *groupReward) GetReward(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	details, err := serviceReward.GetRewardDetails(ctx, student, c.Param("id"))
	return httpx.RestAbort(c, details, err)
}

func (gr *groupReward) GetQRImage(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	image, contentType, err := serviceReward.GetQRImage(ctx, student, c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	c.Response().Header().Set("Cache-Control", "private, max-age=3600")
	return c.Blob(http.StatusOK, contentType, image)
}
