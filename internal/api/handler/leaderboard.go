package handler

import (
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLeaderboard struct {
	container *do.Injector
}

func (gr *groupLeaderboard) GetLeaderboard(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	leaderboard, err := serviceLeaderboard.GetLeaderboard(ctx, student)
	return httpx.RestAbort(c, leaderboard, err)
}
