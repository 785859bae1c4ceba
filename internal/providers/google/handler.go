package google

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/shared/server/respond"
)

// Handler exposes the direct Google endpoints. The access token arrives as a
// query parameter so the frontend can probe individual services.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/google/gmail", h.gmail)
	r.GET("/google/calendar", h.calendar)
	r.GET("/google/meet", h.meet)
}

func (h *Handler) gmail(c *gin.Context) {
	data, err := h.client.Messages(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch gmail messages", nil)
		return
	}
	respond.OK(c, data)
}

func (h *Handler) calendar(c *gin.Context) {
	data, err := h.client.CalendarEvents(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch calendar events", nil)
		return
	}
	respond.OK(c, data)
}

func (h *Handler) meet(c *gin.Context) {
	data, err := h.client.MeetLinks(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch meet links", nil)
		return
	}
	respond.OK(c, data)
}
