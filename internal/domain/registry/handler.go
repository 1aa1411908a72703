package registry

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/herdsafe/herdsafe/internal/platform/auth"
	"github.com/herdsafe/herdsafe/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Profile registration is restricted to the supervising authority.
	adminGroup := api.Group("", auth.RequireRole(auth.RoleAuthority))
	adminGroup.POST("/farmers", h.RegisterFarmer)
	adminGroup.POST("/vets", h.RegisterVet)

	// Farmers manage their own herd.
	farmerGroup := api.Group("", auth.RequireRole(auth.RoleFarmer))
	farmerGroup.POST("/animals", h.RegisterAnimal)
	farmerGroup.GET("/animals", h.ListAnimals)
	farmerGroup.GET("/animals/:id", h.GetAnimal)
}

func (h *Handler) RegisterFarmer(c echo.Context) error {
	var f Farmer
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterFarmer(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) RegisterVet(c echo.Context) error {
	var v Vet
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterVet(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) RegisterAnimal(c echo.Context) error {
	ctx := c.Request().Context()
	farmer, err := h.svc.FarmerBySubject(ctx, auth.SubjectFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "only farmers can register animals")
	}

	var a Animal
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.FarmerID = farmer.ID
	if err := h.svc.RegisterAnimal(ctx, &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAnimals(c echo.Context) error {
	ctx := c.Request().Context()
	farmer, err := h.svc.FarmerBySubject(ctx, auth.SubjectFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "only farmers can list animals")
	}

	pg := pagination.FromContext(c)
	animals, total, err := h.svc.AnimalsByFarmer(ctx, farmer.ID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(animals, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAnimal(c echo.Context) error {
	ctx := c.Request().Context()
	farmer, err := h.svc.FarmerBySubject(ctx, auth.SubjectFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "only farmers can view animals")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := h.svc.OwnedAnimal(ctx, id, farmer.ID)
	if err != nil {
		if errors.Is(err, ErrAnimalNotOwned) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "animal not found")
	}
	return c.JSON(http.StatusOK, a)
}
