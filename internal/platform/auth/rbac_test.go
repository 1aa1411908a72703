package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRole(e *echo.Echo, role string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), RoleKey, role)
	req = req.WithContext(ctx)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name     string
		role     string
		required []string
		allow    bool
	}{
		{"matching role", RoleFarmer, []string{RoleFarmer}, true},
		{"one of several", RoleVet, []string{RoleFarmer, RoleVet}, true},
		{"wrong role", RoleFarmer, []string{RoleVet}, false},
		{"authority passes everything", RoleAuthority, []string{RoleVet}, true},
		{"empty role", "", []string{RoleFarmer}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := contextWithRole(e, tc.role)
			err := RequireRole(tc.required...)(ok)(c)
			if tc.allow && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tc.allow {
				he, isHTTP := err.(*echo.HTTPError)
				if !isHTTP || he.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}
