package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/shared/auth"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterAuthRoutes attaches the public authentication routes.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/verify", h.verifyEmail)
}

// RegisterRoutes attaches the authenticated account routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me", h.updateProfile)
	rg.PATCH("/me/password", h.changePassword)
	rg.POST("/me/upgrade", h.upgrade)
	rg.DELETE("/me", h.deactivate)
}

func (h *Handler) register(c *gin.Context) {
	var req policy.RegistrationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	session, verifyToken, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "failed to register account")
		return
	}

	respond.Created(c, gin.H{
		"account":           session.Account,
		"token":             session.Token,
		"expiresAt":         session.ExpiresAt,
		"verificationToken": verifyToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req policy.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	session, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "failed to log in")
		return
	}

	respond.OK(c, gin.H{
		"account":   session.Account,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}

	account, err := h.Svc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, err, "failed to verify email")
		return
	}

	respond.OK(c, gin.H{"account": account})
}

func (h *Handler) me(c *gin.Context) {
	account, err := h.Svc.Get(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to fetch account")
		return
	}
	respond.OK(c, gin.H{"account": account})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req policy.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	account, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.AccountIDFromContext(c), req)
	if err != nil {
		h.fail(c, err, "failed to update profile")
		return
	}
	respond.OK(c, gin.H{"account": account})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	err := h.Svc.ChangePassword(c.Request.Context(), middleware.AccountIDFromContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.fail(c, err, "failed to change password")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) upgrade(c *gin.Context) {
	account, err := h.Svc.Upgrade(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to upgrade account")
		return
	}
	respond.OK(c, gin.H{"account": account})
}

func (h *Handler) deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), middleware.AccountIDFromContext(c)); err != nil {
		h.fail(c, err, "failed to deactivate account")
		return
	}
	respond.NoContent(c)
}

// fail maps service errors onto the error envelope. fallback is the
// endpoint-specific message for unexpected failures.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", vErr.Error(), vErr.Violations)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, ErrAccountInactive):
		respond.Error(c, http.StatusForbidden, "permission_denied", policy.ReasonAccountInactive, nil)
	case errors.Is(err, ErrUsernameTaken):
		respond.Error(c, http.StatusConflict, "conflict", ErrUsernameTaken.Error(), nil)
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "conflict", ErrEmailTaken.Error(), nil)
	case errors.Is(err, ErrNoLocalPassword):
		respond.Error(c, http.StatusConflict, "conflict", ErrNoLocalPassword.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "account not found", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
