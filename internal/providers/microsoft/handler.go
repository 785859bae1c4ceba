package microsoft

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/shared/server/respond"
)

// Handler exposes the direct Microsoft endpoints. The access token arrives as
// a query parameter so the frontend can probe individual services.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/microsoft/outlook", h.outlook)
	r.GET("/microsoft/calendar", h.calendar)
	r.GET("/microsoft/teams", h.teams)
}

func (h *Handler) outlook(c *gin.Context) {
	data, err := h.client.Messages(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch outlook messages", nil)
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

func (h *Handler) teams(c *gin.Context) {
	data, err := h.client.TeamsMeetings(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch teams meetings", nil)
		return
	}
	respond.OK(c, data)
}
