package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// registerPages wires the static admin pages. The dashboard is gated on a
// valid session cookie; everything it shows comes from the /api routes.
func registerPages(e *echo.Echo, d *Deps) {
	e.File("/admin/login", filepath.Join(d.WebDir, "login.html"))
	e.GET("/admin", func(c echo.Context) error {
		if _, err := d.Sessions.Claims(c); err != nil {
			return c.Redirect(http.StatusFound, "/admin/login")
		}
		return c.File(filepath.Join(d.WebDir, "dashboard.html"))
	})
}
