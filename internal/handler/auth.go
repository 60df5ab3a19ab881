package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/config"
	"github.com/garagex/garagex/internal/model"
	"github.com/garagex/garagex/internal/repository"
	"github.com/garagex/garagex/internal/utils"
)

// AuthHandler implements the two login surfaces: garage staff and
// platform admins.  Both verify a bcrypt password hash and issue a bearer
// access token signed with the configured secret.  Login responses never
// include the stored hash.
type AuthHandler struct {
	Cfg         config.Config
	GarageUsers *repository.GarageUserRepo
	AdminUsers  *repository.SystemUserRepo
}

func NewAuthHandler(cfg config.Config, gu *repository.GarageUserRepo, au *repository.SystemUserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, GarageUsers: gu, AdminUsers: au}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token       string  `json:"token"`
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	Role        string  `json:"role"`
}

// GarageLogin handles POST /api/garage/login.  Unknown usernames,
// inactive accounts, accounts with no stored hash and wrong passwords all
// produce the same 401 so the endpoint does not leak which part failed.
func (h *AuthHandler) GarageLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.GarageUsers.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrGarageUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, req.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:       access.Token,
		ID:          u.ID,
		Username:    req.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	})
}

// AdminLogin handles POST /api/admin/login for system_users accounts.
// Admin tokens always carry the ADMIN role.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.AdminUsers.FindByUsername(ctx, req.Username)
	if err != nil {
		// Unknown username and query failure are indistinguishable to the
		// client on purpose.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive || u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, model.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:       access.Token,
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        model.RoleAdmin,
	})
}
