package treatment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/herdsafe/herdsafe/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/treatments")
	g.POST("/request", h.CreateRequest, auth.RequireRole(auth.RoleFarmer))
	g.GET("/:id", h.GetTreatment, auth.RequireRole(auth.RoleFarmer, auth.RoleVet))
	g.PUT("/:id/diagnose", h.Diagnose, auth.RequireRole(auth.RoleVet))
	g.GET("/animal/:id", h.ListByAnimal, auth.RequireRole(auth.RoleFarmer, auth.RoleVet))
	g.GET("/farmer/:id", h.ListByFarmer, auth.RequireRole(auth.RoleVet))
}

// httpError maps domain errors onto response codes. ErrAlreadyDiagnosed stays
// a 400 with its own message so callers can tell a lost race from generic bad
// input; unrecognized errors are store failures and report 503.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFarmer),
		errors.Is(err, ErrNotVet),
		errors.Is(err, ErrNotAllowed),
		errors.Is(err, ErrAnimalNotOwned):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrTreatmentNotFound),
		errors.Is(err, ErrAnimalNotFound),
		errors.Is(err, ErrFarmerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSymptomsRequired),
		errors.Is(err, ErrMedicineListRequired),
		errors.Is(err, ErrMedicineIDRequired),
		errors.Is(err, ErrUnauthorizedMedicine),
		errors.Is(err, ErrAlreadyDiagnosed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
	}
}

func (h *Handler) CreateRequest(c echo.Context) error {
	ctx := c.Request().Context()

	var in CreateRequestInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.svc.CreateRequest(ctx, auth.SubjectFromContext(ctx), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTreatment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	t, err := h.svc.Get(ctx, auth.SubjectFromContext(ctx), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

type diagnoseResponse struct {
	Treatment           *Treatment `json:"treatment"`
	FinalWithdrawalDays int        `json:"final_withdrawal_days"`
}

func (h *Handler) Diagnose(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var in DiagnoseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Diagnose(ctx, auth.SubjectFromContext(ctx), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, diagnoseResponse{
		Treatment:           res.Treatment,
		FinalWithdrawalDays: res.FinalWithdrawalDays,
	})
}

func (h *Handler) ListByAnimal(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	treatments, err := h.svc.ListByAnimal(ctx, auth.SubjectFromContext(ctx), id)
	if err != nil {
		return httpError(err)
	}
	if treatments == nil {
		treatments = []*Treatment{}
	}
	return c.JSON(http.StatusOK, treatments)
}

func (h *Handler) ListByFarmer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	items, err := h.svc.ListByFarmer(ctx, auth.SubjectFromContext(ctx), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}
