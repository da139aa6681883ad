package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
	aisvc "github.com/shuleapp/shule/services/ai"
)

type aiApi struct {
	svc aisvc.Service
}

func registerAIAPI(g *echo.Group, authed echo.MiddlewareFunc, svc aisvc.Service) {
	api := aiApi{svc: svc}

	ag := g.Group("/ai", authed)
	ag.POST("/chat", api.chat)
	ag.POST("/grade", api.grade, roleMiddleware(user.RoleTeacher))
}

// Handlers

func (api *aiApi) chat(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Chat(ctx.Request().Context(), usr.Role, data.Message)
	if err != nil {
		if errors.Cause(err) == aisvc.ErrNotConfigured {
			return errAIUnavailable
		}
		return errors.Wrap(err, "generating chat reply")
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Response: reply})
}

func (api *aiApi) grade(ctx echo.Context) error {
	var data aisvc.GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	result, err := api.svc.Grade(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == aisvc.ErrNotConfigured {
			return errAIUnavailable
		}
		return errors.Wrap(err, "generating grade suggestion")
	}
	return ctx.JSON(http.StatusOK, result)
}

type (
	ChatRequest struct {
		Message string `json:"message" validate:"required"`
	}

	ChatResponse struct {
		Response string `json:"response"`
	}
)

func (cr *ChatRequest) Validate() error {
	return core.Validate.Struct(cr)
}
