package sessiondata

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
	rg.GET("/session/data", h.get)
	rg.POST("/session/data", h.save)
}

// get returns the stored blob. A missing row and a read failure both come
// back as an empty object; only a missing store handle is an error.
func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}
	if h.Repo == nil {
		respond.Error(c, http.StatusInternalServerError, "store_unavailable", "store not available", nil)
		return
	}

	data, err := h.Repo.Get(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.IncStoreError("session.get")
			telemetry.Warn("session.get_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		respond.OK(c, gin.H{})
		return
	}
	respond.OK(c, data)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object", nil)
		return
	}

	if h.Repo == nil {
		respond.Error(c, http.StatusInternalServerError, "store_unavailable", "store not available", nil)
		return
	}
	if err := h.Repo.Save(c.Request.Context(), userID, data); err != nil {
		metrics.IncStoreError("session.save")
		telemetry.Error("session.save_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "store_unavailable", "failed to save data", nil)
		return
	}
	respond.OK(c, gin.H{"success": true})
}
