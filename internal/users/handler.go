package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/geoip"
	"hub-backend/internal/shared/metrics"
	"hub-backend/internal/shared/server/middleware"
	"hub-backend/internal/shared/server/respond"
	"hub-backend/internal/shared/telemetry"
)

// Handler serves the profile endpoints. Reads assemble the profile from the
// identity claims and overlay whatever the store has; writes merge arbitrary
// fields into the user document.
type Handler struct {
	Svc *Service
	Geo *geoip.Client
}

func NewHandler(svc *Service, geo *geoip.Client) *Handler {
	return &Handler{Svc: svc, Geo: geo}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/user/profile", h.get)
	rg.POST("/user/profile", h.update)
}

func (h *Handler) get(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}
	profile := claims.Profile()

	// Best effort. Reserved-range IPs and lookup failures leave the
	// location keys out entirely.
	if h.Geo != nil {
		if ip := c.ClientIP(); ip != "" {
			loc, err := h.Geo.Lookup(c.Request.Context(), ip)
			switch {
			case err != nil:
				telemetry.Warn("geoip.lookup_failed", map[string]any{"error": err.Error()})
			case loc.Resolved():
				profile["location"] = loc.Label()
				profile["locationDetails"] = map[string]any{
					"city":        loc.City,
					"region":      loc.RegionName,
					"country":     loc.Country,
					"countryCode": loc.CountryCode,
					"timezone":    loc.Timezone,
				}
			}
		}
	}

	if h.Svc.Available() {
		rec, err := h.Svc.GetByID(c.Request.Context(), claims.Sub)
		switch {
		case err == nil:
			for k, v := range rec.Doc {
				profile[k] = v
			}
			profile["created_at"] = rec.CreatedAt
			profile["updated_at"] = rec.UpdatedAt
			if !rec.LastLogin.IsZero() {
				profile["last_login"] = rec.LastLogin
			}
		case !errors.Is(err, ErrNotFound):
			metrics.IncStoreError("users.get")
			telemetry.Warn("users.get_failed", map[string]any{
				"user_id": claims.Sub,
				"error":   err.Error(),
			})
		}
	}

	respond.OK(c, profile)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}

	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object", nil)
		return
	}

	if !h.Svc.Available() {
		respond.OK(c, gin.H{"success": false, "message": "store not available"})
		return
	}
	if err := h.Svc.Merge(c.Request.Context(), userID, doc); err != nil {
		metrics.IncStoreError("users.merge")
		telemetry.Warn("users.merge_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respond.OK(c, gin.H{"success": false, "message": err.Error()})
		return
	}
	respond.OK(c, gin.H{"success": true})
}
