package handler

import (
	"strconv"

	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

const maxHistoryLimit = 100

type groupStudent struct {
	container *do.Injector
}

func (gr *groupStudent) Me(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceStudent, err := do.Invoke[*services.ServiceStudent](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	dashboard, err := serviceStudent.GetDashboard(ctx, student.StudentID)
	return httpx.RestAbort(c, dashboard, err)
}

func (gr *groupStudent) History(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	serviceStudent, err := do.Invoke[*services.ServiceStudent](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	history, err := serviceStudent.GetHistory(ctx, student.StudentID, limit)
	return httpx.RestAbort(c, history, err)
}

func (gr *groupStudent) Levels(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceLevel, err := do.Invoke[*services.ServiceLevel](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	view, err := serviceLevel.GetLevelView(ctx, student)
	return httpx.RestAbort(c, view, err)
}
