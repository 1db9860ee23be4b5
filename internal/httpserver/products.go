package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/catalog-admin/internal/events"
	"github.com/avkuzmin/catalog-admin/internal/logging"
	"github.com/avkuzmin/catalog-admin/internal/media"
	"github.com/avkuzmin/catalog-admin/internal/models"
	"github.com/avkuzmin/catalog-admin/internal/search"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

// contactPhone is the business WhatsApp number baked into generated contact
// links.
const contactPhone = "15551234567"

type ProductHandler struct {
	Store    storage.Store
	Media    media.Media
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type productRequest struct {
	Title        string `json:"title"        form:"title"`
	Price        string `json:"price"        form:"price"`
	Description  string `json:"description"  form:"description"`
	Image        string `json:"image"        form:"image"`
	WhatsappLink string `json:"whatsappLink" form:"whatsappLink"`
}

func whatsappLink(title string) string {
	text := strings.ReplaceAll(url.QueryEscape("Hello! I am interested in "+title), "+", "%20")
	return "https://wa.me/" + contactPhone + "?text=" + text
}

// formImage returns the uploaded image file, or nil when the request carries
// none (plain JSON bodies included).
func formImage(c echo.Context) *multipart.FileHeader {
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Store.Products(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	now := time.Now()
	prod := models.Product{
		ID:           models.NewID("prod"),
		Title:        req.Title,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		WhatsappLink: req.WhatsappLink,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if prod.WhatsappLink == "" {
		prod.WhatsappLink = whatsappLink(prod.Title)
	}

	if file := formImage(c); file != nil {
		ref, err := h.Media.Save(ctx, file)
		if err != nil {
			l.Error("create_product_failed", "status", 500, "reason", "image upload", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		prod.Image = ref
	}

	if err := h.Store.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":  "product_created",
		"id":    prod.ID,
		"title": prod.Title,
	})
	h.indexProduct(c, &prod)

	l.Info("create_product_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"product": prod,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id := c.Param("id")
	prod, err := h.Store.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("update_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("update_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod.Title = req.Title
	prod.Price = req.Price
	prod.Description = req.Description
	prod.WhatsappLink = req.WhatsappLink
	if prod.WhatsappLink == "" {
		prod.WhatsappLink = whatsappLink(prod.Title)
	}

	// A new image replaces the stored one; the previous object is cleaned up
	// best-effort, and refs outside our storage are left untouched.
	if file := formImage(c); file != nil {
		ref, err := h.Media.Save(ctx, file)
		if err != nil {
			l.Error("update_product_failed", "status", 500, "reason", "image upload", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if prod.Image != "" {
			if err := h.Media.Delete(ctx, prod.Image); err != nil {
				l.Warn("old_image_delete_failed", "ref", prod.Image, "error", err)
			}
		}
		prod.Image = ref
	}
	prod.UpdatedAt = time.Now()

	if err := h.Store.UpdateProduct(ctx, prod); err != nil {
		l.Error("update_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":  "product_updated",
		"id":    prod.ID,
		"title": prod.Title,
	})
	h.indexProduct(c, prod)

	l.Info("update_product_success", "id", prod.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"product": prod,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id := c.Param("id")
	prod, err := h.Store.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if prod.Image != "" {
		if err := h.Media.Delete(ctx, prod.Image); err != nil {
			l.Error("delete_product_failed", "status", 500, "reason", "image delete", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.Store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type": "product_deleted",
		"id":   id,
	})
	h.removeFromIndex(c, id)

	l.Info("delete_product_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	total, items, err := search.Products(ctx, h.ES, h.ESIndex, q, 0, 50)
	if err != nil {
		l.Error("search_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"data":  items,
	})
}

func (h *ProductHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, event["id"].(string), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "error", err)
	}
}

func (h *ProductHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, p); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "id", p.ID, "error", err)
	}
}

func (h *ProductHandler) removeFromIndex(c echo.Context, id string) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.RemoveProduct(ctx, h.ES, h.ESIndex, id); err != nil {
		logging.FromContext(ctx).Error("es_remove_failed", "id", id, "error", err)
	}
}
