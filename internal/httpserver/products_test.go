package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/catalog-admin/internal/models"
)

func TestCreateProductRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/products", map[string]string{"title": "Panel A"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	items, err := env.store.Products(t.Context())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCreateProductDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	rec := env.doJSON(t, http.MethodPost, "/api/products", map[string]string{"title": "Panel A"}, ck)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Regexp(t, `^prod-[0-9a-f]{8}$`, resp.Product.ID)
	require.Equal(t, "", resp.Product.Price)
	require.Contains(t, resp.Product.WhatsappLink, "Panel%20A")
	require.Contains(t, resp.Product.WhatsappLink, "https://wa.me/")
	require.False(t, resp.Product.CreatedAt.IsZero())
}

func TestProductEndToEndLocalMode(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)

	login := env.doJSON(t, http.MethodPost, "/api/login", map[string]string{
		"username": "admin",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, login.Code)
	ck := sessionFromResponse(t, login)

	created := env.doJSON(t, http.MethodPost, "/api/products", map[string]string{"title": "Panel A"}, ck)
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))
	id := createResp.Product.ID

	list := env.doJSON(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var items []models.Product
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ID)

	deleted := env.doJSON(t, http.MethodDelete, "/api/products/"+id, nil, ck)
	require.Equal(t, http.StatusOK, deleted.Code)

	list = env.doJSON(t, http.MethodGet, "/api/products", nil)
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &items))
	require.Empty(t, items)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	created := env.doJSON(t, http.MethodPost, "/api/products", map[string]string{
		"title": "Panel A",
		"price": "100",
	}, ck)
	require.Equal(t, http.StatusCreated, created.Code)
	var createResp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	updated := env.doJSON(t, http.MethodPut, "/api/products/"+createResp.Product.ID, map[string]string{
		"title": "Panel B",
		"price": "120",
	}, ck)
	require.Equal(t, http.StatusOK, updated.Code)

	var updateResp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(updated.Body.Bytes(), &updateResp))
	require.Equal(t, createResp.Product.ID, updateResp.Product.ID)
	require.Equal(t, "Panel B", updateResp.Product.Title)
	require.Equal(t, "120", updateResp.Product.Price)

	missing := env.doJSON(t, http.MethodPut, "/api/products/prod-00000000", map[string]string{"title": "X"}, ck)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCreateProductWithImageUpload(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	rec := env.doMultipart(t, http.MethodPost, "/api/products",
		map[string]string{"title": "Panel A"},
		"panel.png", "image/png", []byte("fake png bytes"), ck)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.Product.Image, "/uploads/"))

	saved := filepath.Join(env.uploads, filepath.Base(resp.Product.Image))
	_, err := os.Stat(saved)
	require.NoError(t, err)
}

func TestDeleteProductRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	rec := env.doMultipart(t, http.MethodPost, "/api/products",
		map[string]string{"title": "Panel A"},
		"panel.png", "image/png", []byte("fake png bytes"), ck)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	saved := filepath.Join(env.uploads, filepath.Base(resp.Product.Image))

	deleted := env.doJSON(t, http.MethodDelete, "/api/products/"+resp.Product.ID, nil, ck)
	require.Equal(t, http.StatusOK, deleted.Code)

	_, err := os.Stat(saved)
	require.True(t, os.IsNotExist(err))
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	rec := env.doMultipart(t, http.MethodPost, "/api/products",
		map[string]string{"title": "Panel A"},
		"notes.txt", "text/plain", []byte("not an image"), ck)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	items, err := env.store.Products(t.Context())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDeleteProductUnknownID(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	ck := env.sessionCookie(t)

	rec := env.doJSON(t, http.MethodDelete, "/api/products/prod-00000000", nil, ck)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
