package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// stubPrincipals satisfies just enough of ports.PrincipalRepository for the
// middleware under test.
type stubPrincipals struct {
	byID map[string]*domain.Principal
}

func (s *stubPrincipals) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	return p, nil
}

func (s *stubPrincipals) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return p, nil
}

func (s *stubPrincipals) FindByEmail(_ context.Context, _ string) (*domain.Principal, error) {
	return nil, domain.ErrPrincipalNotFound
}

func (s *stubPrincipals) ListClientsWithSiteGrant(_ context.Context, _, _ string) ([]*domain.Principal, error) {
	return nil, nil
}

func (s *stubPrincipals) AddSiteGrant(_ context.Context, _, _ string) error {
	return nil
}

func signedToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      userID,
		"role":         "manager",
		"company_name": "acme",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_LoadsPrincipalFromStore(t *testing.T) {
	e := echo.New()
	stored := &domain.Principal{ID: "u1", CompanyName: "acme", Role: domain.RoleAdmin}
	principals := &stubPrincipals{byID: map[string]*domain.Principal{"u1": stored}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	// Token claims say manager; the stored role wins.
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "u1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", principals)(func(c echo.Context) error {
		called = true
		p, ok := c.Get("principal").(*domain.Principal)
		if !ok || p.ID != "u1" {
			t.Fatalf("principal not loaded: %v", c.Get("principal"))
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role must come from the store, got %v", c.Get("role"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", &stubPrincipals{})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", &stubPrincipals{})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", "u1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", &stubPrincipals{})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_UnknownPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	// Valid signature, but the subject was deleted since the token was issued.
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "gone"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", &stubPrincipals{byID: map[string]*domain.Principal{}})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
