package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/catalog-admin/internal/session"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CourseHandler  *CourseHandler
	Sessions       *session.Manager
	ES             *elasticsearch.Client

	// UploadDir is served under /uploads in local mode; empty in remote mode.
	UploadDir string
	// WebDir holds the admin login and dashboard pages.
	WebDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout)
	api.GET("/auth/status", d.AuthHandler.Status)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	if d.ES != nil {
		products.GET("/search", d.ProductHandler.SearchProducts)
	}
	products.POST("", d.ProductHandler.CreateProduct, d.Sessions.Require)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Sessions.Require)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Sessions.Require)

	courses := api.Group("/courses")
	courses.GET("", d.CourseHandler.GetCourses)
	courses.POST("", d.CourseHandler.CreateCourse, d.Sessions.Require)
	courses.DELETE("/:id", d.CourseHandler.DeleteCourse, d.Sessions.Require)

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}
	registerPages(e, d)
}
