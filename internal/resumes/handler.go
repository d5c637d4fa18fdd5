package resumes

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/accounts"
	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
	"cvbuilder-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the authenticated résumé routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", tagResumeID, h.get)
	rg.PUT("/resumes/:id", tagResumeID, h.update)
	rg.DELETE("/resumes/:id", tagResumeID, h.remove)
	rg.POST("/resumes/:id/download", tagResumeID, h.download)
	rg.POST("/resumes/:id/share", tagResumeID, h.share)
	rg.POST("/resumes/:id/photo", tagResumeID, h.uploadPhoto)
	rg.GET("/resumes/:id/photo", tagResumeID, h.photo)
}

// RegisterPublicRoutes attaches the unauthenticated share-link route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/shared/:id", tagResumeID, h.publicView)
}

// tagResumeID stores the path's resume id so the request log carries it.
func tagResumeID(c *gin.Context) {
	if id := c.Param("id"); id != "" {
		c.Set("resumeId", id)
	}
	c.Next()
}

func (h *Handler) create(c *gin.Context) {
	var req policy.ResumeCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.Create(c.Request.Context(), middleware.AccountIDFromContext(c), req)
	if err != nil {
		h.fail(c, err, "failed to create resume")
		return
	}
	respond.Created(c, gin.H{"resume": res})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to list resumes")
		return
	}

	summaries := make([]gin.H, 0, len(items))
	for _, r := range items {
		summaries = append(summaries, gin.H{
			"id":            r.ID,
			"title":         r.Title,
			"layout":        r.Layout,
			"status":        r.Status,
			"public":        r.Public,
			"hasPhoto":      r.HasPhoto,
			"downloadCount": r.DownloadCount,
			"shareCount":    r.ShareCount,
			"createdAt":     r.CreatedAt,
			"updatedAt":     r.UpdatedAt,
		})
	}
	respond.OK(c, gin.H{"resumes": summaries})
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) update(c *gin.Context) {
	var req policy.ResumeUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.Update(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "failed to update resume")
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) download(c *gin.Context) {
	res, err := h.Svc.Download(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to download resume")
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) share(c *gin.Context) {
	res, link, err := h.Svc.Share(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to share resume")
		return
	}
	respond.OK(c, gin.H{"resume": res, "link": link})
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "photo file is required and must be at most 5MB", nil)
		return
	}
	defer file.Close()

	size, mimeType, err := h.Svc.AttachPhoto(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"), header.Filename, file)
	if err != nil {
		h.fail(c, err, "failed to store photo")
		return
	}
	respond.OK(c, gin.H{"sizeBytes": size, "mimeType": mimeType})
}

func (h *Handler) photo(c *gin.Context) {
	rc, mimeType, err := h.Svc.OpenPhoto(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch photo")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", mimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("resume.photo_stream_failed", map[string]any{"error": err.Error()})
	}
}

func (h *Handler) publicView(c *gin.Context) {
	res, err := h.Svc.PublicView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch shared resume")
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

// fail maps service errors onto the error envelope. fallback is the
// endpoint-specific message for unexpected failures.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var (
		vErr *ValidationError
		pErr *PermissionError
		qErr *QuotaError
	)
	switch {
	case errors.As(err, &vErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", vErr.Error(), vErr.Violations)
	case errors.As(err, &pErr):
		respond.Error(c, http.StatusForbidden, "permission_denied", pErr.Reason, nil)
	case errors.As(err, &qErr):
		respond.Error(c, http.StatusForbidden, "quota_exceeded", qErr.Reason, nil)
	case errors.Is(err, ErrUnsupportedPhoto):
		respond.Error(c, http.StatusBadRequest, "validation_error", ErrUnsupportedPhoto.Error(), nil)
	case errors.Is(err, ErrNoPhoto):
		respond.Error(c, http.StatusNotFound, "not_found", ErrNoPhoto.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", ErrNotFound.Error(), nil)
	case errors.Is(err, accounts.ErrNotFound):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "account no longer exists", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
