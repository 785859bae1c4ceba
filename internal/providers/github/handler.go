package github

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/shared/server/respond"
)

// Handler exposes the direct GitHub endpoints. The access token arrives as a
// query parameter so the frontend can probe individual services.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/github/profile", h.profile)
	r.GET("/github/email", h.email)
}

func (h *Handler) profile(c *gin.Context) {
	data, err := h.client.Profile(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch github profile", nil)
		return
	}
	respond.OK(c, data)
}

func (h *Handler) email(c *gin.Context) {
	data, err := h.client.Emails(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch github emails", nil)
		return
	}
	respond.OK(c, data)
}
