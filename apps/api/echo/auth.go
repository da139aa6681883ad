package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/auth"
	"github.com/shuleapp/shule/core/user"
)

const (
	contextUserKey    = "user"
	contextSessionKey = "session"
	contextTokenKey   = "sessionToken"
)

// sessionMiddleware resolves the session cookie to a user.User and rejects
// requests that carry no valid session.
func sessionMiddleware(mgr *auth.Manager, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(core.Conf.Server.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return errUnauthorized
			}

			session, err := mgr.Verify(ctx.Request().Context(), cookie.Value)
			if err != nil {
				if err == auth.ErrNoSession || err == auth.ErrSessionExpired {
					return errUnauthorized
				}
				return errors.Wrap(err, "verifying session")
			}

			usr, err := svc.GetByID(session.UserID)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding session user")
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}

			ctx.Set(contextUserKey, usr)
			ctx.Set(contextSessionKey, session)
			ctx.Set(contextTokenKey, cookie.Value)
			return next(ctx)
		}
	}
}

// roleMiddleware admits only the given roles; it must run after
// sessionMiddleware.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

type authApi struct {
	svc *user.Service
	mgr *auth.Manager
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service, mgr *auth.Manager) {
	api := authApi{svc: svc, mgr: mgr}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	ag.POST("/logout", api.logout, authed)
	ag.GET("/me", api.me, authed)
	ag.PUT("/profile", api.updateProfile, authed)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.authenticate(data.UserID, data.PIN)
	if err != nil {
		return err
	}

	_, token, err := api.mgr.Create(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	setSessionCookie(ctx, token, api.mgr.TTL())

	return ctx.JSON(http.StatusOK, LoginResponse{User: usr})
}

// authenticate verifies a candidate's PIN. Lookup misses and PIN mismatches
// are indistinguishable to the caller.
func (api *authApi) authenticate(userID int, pin string) (user.User, error) {
	usr, err := api.svc.GetByID(userID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "finding user by id")
	}
	if err = usr.CheckPIN(pin); err != nil {
		return user.User{}, errAuthenticationFailed
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	usr, err = api.svc.SetLastLogin(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func (api *authApi) logout(ctx echo.Context) error {
	if token, ok := ctx.Get(contextTokenKey).(string); ok {
		if err := api.mgr.Destroy(ctx.Request().Context(), token); err != nil {
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "destroying session"))
		}
	}
	clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Logged out successfully"})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err = api.svc.UpdateOwnProfile(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func setSessionCookie(ctx echo.Context, token string, ttl time.Duration) {
	ctx.SetCookie(&http.Cookie{
		Name:     core.Conf.Server.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   !core.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     core.Conf.Server.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

type (
	LoginRequest struct {
		UserID int    `json:"user_id" validate:"required"`
		PIN    string `json:"pin" validate:"required,len=4,digits"`
	}

	LoginResponse struct {
		User user.User `json:"user"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate() error {
	return core.Validate.Struct(lr)
}
