package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/config"
	"github.com/garagex/garagex/internal/model"
	"github.com/garagex/garagex/internal/repository"
	"github.com/garagex/garagex/internal/utils"
)

// defaultGarageListLimit bounds the directory listing when the client
// does not pass ?limit.
const defaultGarageListLimit = 50

// AdminGarageHandler implements the platform-admin garage directory.
type AdminGarageHandler struct {
	Cfg         config.Config
	Garages     *repository.GarageRepo
	GarageUsers *repository.GarageUserRepo
}

// NewAdminGarageHandler constructs an AdminGarageHandler and panics on
// nil repositories.
func NewAdminGarageHandler(cfg config.Config, garages *repository.GarageRepo, users *repository.GarageUserRepo) *AdminGarageHandler {
	if garages == nil || users == nil {
		panic("nil repository passed to NewAdminGarageHandler")
	}
	return &AdminGarageHandler{Cfg: cfg, Garages: garages, GarageUsers: users}
}

// List handles GET /api/admin/garages.  ?q= filters by a substring match
// over name and address, ?limit= caps the result set.
func (h *AdminGarageHandler) List(c echo.Context) error {
	var q *string
	if raw := strings.TrimSpace(c.QueryParam("q")); raw != "" {
		q = &raw
	}
	limit := int64(defaultGarageListLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	garages, err := h.Garages.List(c.Request().Context(), q, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, garages)
}

// Get handles GET /api/admin/garages/:id.
func (h *AdminGarageHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garage id"})
	}
	g, err := h.Garages.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGarageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, g)
}

type garageCreateReq struct {
	Name     string         `json:"name"`
	Address  *string        `json:"address"`
	Phone    *string        `json:"phone"`
	Email    *string        `json:"email"`
	Metadata map[string]any `json:"metadata"`
}

type garageCreatedResp struct {
	Garage      model.Garage `json:"garage"`
	AdminUserID string       `json:"admin_user_id"`
}

// Create handles POST /api/admin/garages.  The garage row and its
// placeholder garage-admin user are inserted in one transaction so a
// garage never exists without a way to log into it.  The placeholder
// password is random and bcrypt hashed; handing it to the garage owner
// is an out-of-band onboarding step.
func (h *AdminGarageHandler) Create(c echo.Context) error {
	var req garageCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Garages.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	g, err := h.Garages.CreateTx(ctx, tx, repository.NewGarage{
		Name:     strings.TrimSpace(req.Name),
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Metadata: req.Metadata,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	secret, err := utils.RandomHex(16)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate credentials"})
	}
	hash, err := utils.HashPassword(secret, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate credentials"})
	}
	username := "admin-" + g.ID[:8]
	adminID, err := h.GarageUsers.CreateTx(ctx, tx, g.ID, username, hash, model.RoleGarageAdmin)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "garage admin username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, garageCreatedResp{Garage: g, AdminUserID: adminID})
}

// Delete handles DELETE /api/admin/garages/:id.  Soft delete; the row
// as it stood before deletion is returned.  Deleting an already deleted
// garage is a 404, same as an unknown id.
func (h *AdminGarageHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garage id"})
	}
	g, err := h.Garages.SoftDelete(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGarageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, g)
}
