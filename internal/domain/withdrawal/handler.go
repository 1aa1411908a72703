package withdrawal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/herdsafe/herdsafe/internal/domain/registry"
	"github.com/herdsafe/herdsafe/internal/platform/auth"
)

// IdentityResolver resolves an authenticated subject to a farmer profile for
// the ownership check on the per-farmer alerts listing.
type IdentityResolver interface {
	FarmerBySubject(ctx context.Context, subject string) (*registry.Farmer, error)
}

type Handler struct {
	svc      *Service
	resolver IdentityResolver
}

func NewHandler(svc *Service, resolver IdentityResolver) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/withdrawal")
	g.GET("/animals/:id/safety", h.AnimalSafety)
	g.GET("/farmers/:id/alerts", h.FarmerAlerts)
	g.POST("/consumer-check", h.ConsumerCheck)

	// Surface for the external reminder job.
	g.PUT("/alerts/:id/sent", h.MarkAlertSent, auth.RequireRole(auth.RoleAuthority))
}

// asOfParam parses an optional as_of query parameter, defaulting to now.
func asOfParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (h *Handler) AnimalSafety(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	asOf, err := asOfParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "as_of must be RFC 3339")
	}

	status, err := h.svc.AnimalSafety(c.Request().Context(), id, asOf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) FarmerAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	asOf, err := asOfParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "as_of must be RFC 3339")
	}

	// Farmers may only list their own alerts; vets and the authority may list any.
	if auth.RoleFromContext(ctx) == auth.RoleFarmer {
		farmer, err := h.resolver.FarmerBySubject(ctx, auth.SubjectFromContext(ctx))
		if err != nil || farmer.ID != id {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
	}

	alerts, err := h.svc.ActiveAlertsForFarmer(ctx, id, asOf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if alerts == nil {
		alerts = []*WithdrawalAlert{}
	}
	return c.JSON(http.StatusOK, alerts)
}

type consumerCheckRequest struct {
	AnimalID uuid.UUID `json:"animal_id"`
}

func (h *Handler) ConsumerCheck(c echo.Context) error {
	var req consumerCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.AnimalID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "animal_id is required")
	}

	check, err := h.svc.RecordConsumerCheck(c.Request().Context(), req.AnimalID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, registry.ErrAnimalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, check)
}

func (h *Handler) MarkAlertSent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	alert, err := h.svc.MarkAlertSent(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	return c.JSON(http.StatusOK, alert)
}
