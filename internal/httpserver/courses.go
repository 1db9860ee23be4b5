package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/catalog-admin/internal/events"
	"github.com/avkuzmin/catalog-admin/internal/logging"
	"github.com/avkuzmin/catalog-admin/internal/media"
	"github.com/avkuzmin/catalog-admin/internal/models"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

type CourseHandler struct {
	Store    storage.Store
	Media    media.Media
	Producer *events.Producer
}

type courseRequest struct {
	Title       string `json:"title"       form:"title"`
	Date        string `json:"date"        form:"date"`
	Comments    int    `json:"comments"    form:"comments"`
	Description string `json:"description" form:"description"`
	Content     string `json:"content"     form:"content"`
	Image       string `json:"image"       form:"image"`
}

func (h *CourseHandler) GetCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list")

	items, err := h.Store.Courses(ctx)
	if err != nil {
		l.Error("list_courses_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create")

	var req courseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_course_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	course := models.Course{
		ID:          models.NewID("course"),
		Title:       req.Title,
		Date:        req.Date,
		Comments:    req.Comments,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		CreatedAt:   time.Now(),
	}
	if course.Date == "" {
		course.Date = time.Now().Format("Jan 2, 2006")
	}

	if file := formImage(c); file != nil {
		ref, err := h.Media.Save(ctx, file)
		if err != nil {
			l.Error("create_course_failed", "status", 500, "reason", "image upload", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		course.Image = ref
	}

	if err := h.Store.CreateCourse(ctx, &course); err != nil {
		l.Error("create_course_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":  "course_created",
		"id":    course.ID,
		"title": course.Title,
	})

	l.Info("create_course_success", "id", course.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"course":  course,
	})
}

func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.delete")

	id := c.Param("id")
	course, err := h.Store.CourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("delete_course_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "course not found")
		}
		l.Error("delete_course_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if course.Image != "" {
		if err := h.Media.Delete(ctx, course.Image); err != nil {
			l.Error("delete_course_failed", "status", 500, "reason", "image delete", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.Store.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "course not found")
		}
		l.Error("delete_course_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type": "course_deleted",
		"id":   id,
	})

	l.Info("delete_course_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *CourseHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, event["id"].(string), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "error", err)
	}
}
