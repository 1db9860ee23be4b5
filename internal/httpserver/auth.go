package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/catalog-admin/internal/hash"
	"github.com/avkuzmin/catalog-admin/internal/logging"
	"github.com/avkuzmin/catalog-admin/internal/session"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

type AuthHandler struct {
	Store    storage.Store
	Sessions *session.Manager
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Store.UserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !hash.CheckPassword(user.Password, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, err := h.Sessions.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.Sessions.SetCookie(c, token)

	l.Info("login_success", "username", user.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "logged in",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Clear(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHandler) Status(c echo.Context) error {
	claims, err := h.Sessions.Claims(c)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": true,
		"username":      claims["username"],
	})
}
