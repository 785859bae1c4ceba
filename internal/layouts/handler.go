package layouts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/shared/metrics"
	"hub-backend/internal/shared/server/middleware"
	"hub-backend/internal/shared/server/respond"
	"hub-backend/internal/shared/telemetry"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/dashboard/layout", h.get)
	rg.POST("/dashboard/layout", h.save)
}

// get never fails: a missing store handle, a missing row and a read error
// all fall back to the default layout so the dashboard can always render.
func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}
	if h.Repo == nil {
		respond.OK(c, gin.H{"layout": DefaultLayout()})
		return
	}

	stored, err := h.Repo.Get(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.IncStoreError("layouts.get")
			telemetry.Warn("layouts.get_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		respond.OK(c, gin.H{"layout": DefaultLayout()})
		return
	}
	respond.OK(c, gin.H{"layout": stored.Layout, "updated_at": stored.UpdatedAt})
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}

	var body struct {
		Layout []any `json:"layout"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object", nil)
		return
	}

	if h.Repo == nil {
		respond.OK(c, gin.H{"success": false, "message": "store not available"})
		return
	}
	if err := h.Repo.Save(c.Request.Context(), userID, body.Layout); err != nil {
		metrics.IncStoreError("layouts.save")
		telemetry.Warn("layouts.save_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respond.OK(c, gin.H{"success": false, "message": err.Error()})
		return
	}
	respond.OK(c, gin.H{"success": true})
}
