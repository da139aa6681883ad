package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core/school"
)

type resourceApi struct {
	svc *school.Service
}

func registerResourceAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *school.Service) {
	api := resourceApi{svc: svc}

	rg := g.Group("/resources", authed)
	rg.GET("", api.list)
	rg.POST("", api.create)
	rg.DELETE("/:id", api.delete)
}

// Handlers

func (api *resourceApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	resources, err := api.svc.ResourcesFor(usr, school.ResourceFilter{
		Type:    ctx.QueryParam("type"),
		Subject: ctx.QueryParam("subject"),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data school.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.CreateResource(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resourceApi) delete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.DeleteResource(usr, id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
