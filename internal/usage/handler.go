package usage

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/accounts"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
)

// Handler exposes the usage summary endpoint.
type Handler struct {
	Svc      *Service
	Accounts *accounts.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, accountsSvc *accounts.Service) *Handler {
	return &Handler{Svc: svc, Accounts: accountsSvc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

func (h *Handler) getUsage(c *gin.Context) {
	accountID := middleware.AccountIDFromContext(c)

	// The role comes from the account row, not the token: an upgrade must
	// show up here before the bearer token is reissued.
	account, err := h.Accounts.Get(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "account not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch usage", nil)
		return
	}

	summary, err := h.Svc.Summary(c.Request.Context(), accountID, account.Role)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch usage", nil)
		return
	}

	respond.OK(c, summary)
}
