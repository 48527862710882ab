package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
	"github.com/iliyamo/bus-booking-client/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.StubConfig
	Store *repository.Store
	Log   *zap.Logger
}

func NewAuthHandler(cfg config.StubConfig, s *repository.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: s, Log: log}
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// issue mints an access/refresh pair for u and records the refresh hash.
func (h *AuthHandler) issue(u model.User) (model.AuthTokens, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTL)
	if err != nil {
		return model.AuthTokens{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return model.AuthTokens{}, err
	}
	h.Store.StoreRefresh(u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp)
	return model.AuthTokens{AccessToken: access.Token, RefreshToken: refresh.Raw, TokenType: "bearer", User: u}, nil
}

// Register creates a user and signs them in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := h.Store.CreateUser(req.Email, req.Phone, req.FullName, req.Password, "")
	if err != nil {
		return storeError(err)
	}
	tokens, err := h.issue(u)
	if err != nil {
		return err
	}
	h.Log.Info("user registered", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusCreated, tokens)
}

// Login verifies credentials and returns a fresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := h.Store.UserByEmail(req.Email)
	if err != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return detail(http.StatusUnauthorized, "Invalid email or password")
	}
	if !u.IsActive {
		return detail(http.StatusForbidden, "Account is disabled")
	}
	tokens, err := h.issue(u.User)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req model.RefreshRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return detail(http.StatusBadRequest, "refresh_token required")
	}
	next, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return err
	}
	uid, err := h.Store.RotateRefresh(utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)), utils.HashRefreshRaw(next.Raw), next.Exp)
	if err != nil {
		return storeError(err)
	}
	u, err := h.Store.UserByID(uid)
	if err != nil {
		return detail(http.StatusUnauthorized, "Invalid refresh token")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, u.Role, h.Cfg.AccessTTL)
	if err != nil {
		return err
	}
	h.Log.Debug("token refreshed", zap.Uint64("user_id", uid), zap.Time("access_exp", access.Exp.Truncate(time.Second)))
	return c.JSON(http.StatusOK, model.AuthTokens{
		AccessToken:  access.Token,
		RefreshToken: next.Raw,
		TokenType:    "bearer",
		User:         u.User,
	})
}

// Logout revokes the refresh token in the body, or every token of the
// bearer when the body carries none.  It needs no valid access token so an
// expired session can still sign out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req model.RefreshRequest
	_ = c.Bind(&req)
	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		h.Store.RevokeByHash(utils.HashRefreshRaw(raw))
		return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
	}

	bearer, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok {
		return detail(http.StatusBadRequest, "Provide Authorization header or refresh_token")
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, bearer)
	if err != nil {
		return detail(http.StatusUnauthorized, "Token expired or invalid")
	}
	h.Store.RevokeAllForUser(claims.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Me returns the signed-in profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.Store.UserByID(currentUser(c))
	if err != nil {
		return detail(http.StatusUnauthorized, "User not found")
	}
	return c.JSON(http.StatusOK, u.User)
}
