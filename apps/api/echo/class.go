package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core/school"
)

type classApi struct {
	svc *school.Service
}

func registerClassAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *school.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes")

	// un-authed endpoints
	cg.GET("/public", api.publicList)

	// authed endpoints
	cg.GET("", api.list, authed)
	cg.POST("", api.create, authed)
	cg.DELETE("/:id", api.delete, authed)
}

// Handlers

// publicList backs the login screen's class picker. Failures surface as an
// empty list.
func (api *classApi) publicList(ctx echo.Context) error {
	classes, err := api.svc.PublicClasses()
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing public classes"))
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.ClassesFor(usr)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) delete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.DeleteClass(usr, id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
