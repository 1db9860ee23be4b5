package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "session"
	ttl        = 24 * time.Hour
)

// Manager signs and verifies the session cookie. The cookie carries an HS256
// token with the admin's id and username; there is no refresh flow, an expired
// cookie just means logging in again.
type Manager struct {
	Secret []byte
}

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

func (m *Manager) Issue(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m *Manager) SetCookie(c echo.Context, token string) {
	c.SetCookie(CreateCookie(CookieName, token, "/", time.Now().Add(ttl)))
}

func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(CreateCookie(CookieName, "", "/", time.Now().Add(-1*time.Hour)))
}

// Claims reads and verifies the session cookie of the current request.
func (m *Manager) Claims(c echo.Context) (jwt.MapClaims, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return m.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}
	return claims, nil
}

// Require guards mutating routes: without a valid session cookie the request
// is rejected with 401 before any storage access.
func (m *Manager) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.Claims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(string); ok {
		c.Set("userID", sub)
	}
	if username, ok := claims["username"].(string); ok {
		c.Set("username", username)
	}
}
