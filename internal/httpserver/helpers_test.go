package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/catalog-admin/internal/media"
	"github.com/avkuzmin/catalog-admin/internal/models"
	"github.com/avkuzmin/catalog-admin/internal/session"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

type testEnv struct {
	e        *echo.Echo
	store    *storage.FileStore
	sessions *session.Manager
	uploads  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")

	store := storage.NewFileStore(filepath.Join(dir, "data"))
	med, err := media.NewLocalMedia(uploadDir)
	require.NoError(t, err)

	sessions := &session.Manager{Secret: []byte("test-secret")}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHandler{Store: store, Sessions: sessions},
		ProductHandler: &ProductHandler{Store: store, Media: med},
		CourseHandler:  &CourseHandler{Store: store, Media: med},
		Sessions:       sessions,
		UploadDir:      uploadDir,
		WebDir:         filepath.Join(dir, "web"),
	})

	return &testEnv{e: e, store: store, sessions: sessions, uploads: uploadDir}
}

func (env *testEnv) seedAdmin(t *testing.T) {
	t.Helper()
	require.NoError(t, env.store.SaveUsers([]models.User{{
		ID:        "user-f3a91c20",
		Username:  "admin",
		Password:  "secret",
		Role:      "admin",
		CreatedAt: time.Now().UTC(),
	}}))
}

func (env *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := env.sessions.Issue("user-f3a91c20", "admin")
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token, Path: "/"}
}

func (env *testEnv) doJSON(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doMultipart(t *testing.T, method, target string, fields map[string]string, filename, contentType string, content []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func sessionFromResponse(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
