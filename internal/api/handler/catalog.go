package handler

import (
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCatalog struct {
	container *do.Injector
}

func (gr *groupCatalog) GetChallenges(c echo.Context) error {
	ctx := c.Request().Context()

	student, err := ResolveValidStudent(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenges, err := serviceChallenge.ListChallenges(ctx, student)
	return httpx.RestAbort(c, challenges, err)
}

func (gr *groupCatalog) GetStores(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidStudent(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceStore, err := do.Invoke[*services.ServiceStore](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stores, err := serviceStore.ListStores(ctx)
	return httpx.RestAbort(c, stores, err)
}

func (gr *groupCatalog) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidStudent(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	storeID, err := paramInt64(c, "id")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceStore, err := do.Invoke[*services.ServiceStore](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	store, err := serviceStore.GetStore(ctx, storeID)
	return httpx.RestAbort(c, store, err)
}

func (gr *groupCatalog) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidStudent(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	productID, err := paramInt64(c, "id")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceStore, err := do.Invoke[*services.ServiceStore](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	product, err := serviceStore.GetProduct(ctx, productID)
	return httpx.RestAbort(c, product, err)
}

func (gr *groupCatalog) GetEvents(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidStudent(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceEvent, err := do.Invoke[*services.ServiceEvent](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	events, err := serviceEvent.ListEvents(ctx)
	return httpx.RestAbort(c, events, err)
}
