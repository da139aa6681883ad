package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/auth"
	"github.com/shuleapp/shule/core/user"
)

type userApi struct {
	svc *user.Service
	mgr *auth.Manager
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service, mgr *auth.Manager) {
	api := userApi{svc: svc, mgr: mgr}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.GET("/public", api.publicCandidates)

	// admin endpoints
	admin := roleMiddleware(user.RoleAdmin)
	ug.GET("", api.list, authed, admin)
	ug.POST("", api.create, authed, admin)
	ug.PUT("/:id", api.update, authed, admin)
	ug.DELETE("/:id", api.delete, authed, admin)
}

// Handlers

// publicCandidates backs the login screen's user picker. It never errors to
// the caller; lookup failures surface as an empty list.
func (api *userApi) publicCandidates(ctx echo.Context) error {
	role := user.Role(core.CleanString(ctx.QueryParam("role"), true /* lower */))
	if !role.Valid() {
		return ctx.JSON(http.StatusOK, []user.Candidate{})
	}

	candidates, err := api.svc.Candidates(role, ctx.QueryParam("class_name"))
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing candidates"))
		candidates = []user.Candidate{}
	}
	return ctx.JSON(http.StatusOK, candidates)
}

func (api *userApi) list(ctx echo.Context) error {
	users, err := api.svc.Filter(user.QueryFilter{
		Role:   user.Role(core.CleanString(ctx.QueryParam("role"), true /* lower */)),
		Search: ctx.QueryParam("search"),
	})
	if err != nil {
		return errors.Wrap(err, "listing users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	usr, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(usr, api.svc); err != nil {
		return err
	}

	usr, err = api.svc.Update(id, data)
	if err != nil {
		return err
	}

	// revoke sessions on PIN change or deactivation
	if data.PIN != "" || (data.IsActive != nil && !*data.IsActive) {
		if err := api.mgr.DestroyAll(ctx.Request().Context(), usr.ID); err != nil {
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "revoking user sessions"))
		}
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) delete(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	me, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if me.ID == id {
		return errSelfDelete
	}

	if _, err = api.svc.GetByID(id); err != nil {
		return err
	}
	if err = api.svc.Delete(id); err != nil {
		return err
	}
	if err = api.mgr.DestroyAll(ctx.Request().Context(), id); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "revoking user sessions"))
	}
	return ctx.NoContent(http.StatusNoContent)
}
