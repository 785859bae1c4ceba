// Package dashboard assembles the aggregate view the frontend renders on
// load: identity, Google calendar, Microsoft calendar and GitHub profile in
// one response. Provider failures degrade to per-provider error fields so a
// single dead upstream cannot blank the page.
package dashboard

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/providers/github"
	"hub-backend/internal/providers/google"
	"hub-backend/internal/providers/microsoft"
	sharedauth "hub-backend/internal/shared/auth"
	"hub-backend/internal/shared/metrics"
	"hub-backend/internal/shared/server/middleware"
	"hub-backend/internal/shared/server/respond"
	"hub-backend/internal/shared/telemetry"
	"hub-backend/internal/users"
)

type Handler struct {
	Google    *google.Client
	Microsoft *microsoft.Client
	GitHub    *github.Client
	Users     *users.Service
}

func NewHandler(g *google.Client, ms *microsoft.Client, gh *github.Client, usersSvc *users.Service) *Handler {
	return &Handler{Google: g, Microsoft: ms, GitHub: gh, Users: usersSvc}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/dashboard", h.aggregate)
}

func (h *Handler) aggregate(c *gin.Context) {
	accessToken, err := c.Cookie(middleware.AccessTokenCookie)
	if err != nil || accessToken == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return
	}

	user := h.resolveUser(c)

	ctx := c.Request.Context()
	var (
		wg         sync.WaitGroup
		googleData map[string]any
		msData     map[string]any
		githubData map[string]any
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		data, err := h.Google.CalendarEvents(ctx, accessToken)
		if err != nil {
			data = google.EmptyEvents()
			data["error"] = err.Error()
		}
		googleData = data
	}()
	go func() {
		defer wg.Done()
		data, err := h.Microsoft.CalendarEvents(ctx, accessToken)
		if err != nil {
			data = microsoft.EmptyEvents()
			data["error"] = err.Error()
		}
		msData = data
	}()
	go func() {
		defer wg.Done()
		data, err := h.GitHub.Profile(ctx, accessToken)
		if err != nil {
			data = github.UnknownProfile()
			data["error"] = err.Error()
		}
		githubData = data
	}()
	wg.Wait()

	respond.OK(c, gin.H{
		"user":      user,
		"google":    googleData,
		"microsoft": msData,
		"github":    githubData,
	})
}

// resolveUser builds the identity block from the id_token cookie plus
// whatever the store has. The aggregate tolerates a missing or undecodable
// identity and serves a null user instead.
func (h *Handler) resolveUser(c *gin.Context) map[string]any {
	idToken, err := c.Cookie(middleware.IdentityCookie)
	if err != nil || idToken == "" {
		return nil
	}
	claims, err := sharedauth.DecodeUnverified(idToken)
	if err != nil {
		telemetry.Warn("dashboard.id_token_undecodable", map[string]any{"error": err.Error()})
		return nil
	}

	user := claims.Profile()
	if h.Users.Available() {
		rec, err := h.Users.GetByID(c.Request.Context(), claims.Sub)
		switch {
		case err == nil:
			for k, v := range rec.Doc {
				user[k] = v
			}
		case !errors.Is(err, users.ErrNotFound):
			metrics.IncStoreError("users.get")
			telemetry.Warn("dashboard.user_overlay_failed", map[string]any{
				"user_id": claims.Sub,
				"error":   err.Error(),
			})
		}
	}
	return user
}
