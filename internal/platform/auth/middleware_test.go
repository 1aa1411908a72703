package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims Claims, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func identityEcho(t *testing.T) (echo.HandlerFunc, *string, *string) {
	var subject, role string
	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		subject = SubjectFromContext(ctx)
		role = RoleFromContext(ctx)
		return c.NoContent(http.StatusOK)
	}
	return handler, &subject, &role
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|farmer-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleFarmer,
	}
	token := signToken(t, claims, testKey)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler, gotSubject, gotRole := identityEcho(t)
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	if err := mw(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if *gotSubject != "auth0|farmer-1" {
		t.Errorf("subject %q", *gotSubject)
	}
	if *gotRole != RoleFarmer {
		t.Errorf("role %q", *gotRole)
	}
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler, _, _ := identityEcho(t)
	err := JWTMiddleware(JWTConfig{SigningKey: testKey})(handler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddlewareWrongKey(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleVet,
	}
	token := signToken(t, claims, []byte("other-key"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler, _, _ := identityEcho(t)
	err := JWTMiddleware(JWTConfig{SigningKey: testKey})(handler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Role: RoleVet,
	}
	token := signToken(t, claims, testKey)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler, _, _ := identityEcho(t)
	err := JWTMiddleware(JWTConfig{SigningKey: testKey})(handler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddlewareIssuerCheck(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			Issuer:    "https://other.example/",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleVet,
	}
	token := signToken(t, claims, testKey)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler, _, _ := identityEcho(t)
	err := JWTMiddleware(JWTConfig{SigningKey: testKey, Issuer: "https://herdsafe.example/"})(handler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong issuer, got %v", err)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()

	// No headers: stub identity.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	handler, gotSubject, gotRole := identityEcho(t)
	if err := DevAuthMiddleware()(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if *gotSubject != "dev-user" || *gotRole != RoleAuthority {
		t.Errorf("stub identity: subject %q role %q", *gotSubject, *gotRole)
	}

	// Debug headers override.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-Subject", "farmer-7")
	req.Header.Set("X-Debug-Role", RoleFarmer)
	c = e.NewContext(req, httptest.NewRecorder())
	if err := DevAuthMiddleware()(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if *gotSubject != "farmer-7" || *gotRole != RoleFarmer {
		t.Errorf("debug identity: subject %q role %q", *gotSubject, *gotRole)
	}
}
