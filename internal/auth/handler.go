package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	sharedauth "hub-backend/internal/shared/auth"
	"hub-backend/internal/shared/metrics"
	"hub-backend/internal/shared/server/middleware"
	"hub-backend/internal/shared/server/respond"
	"hub-backend/internal/shared/telemetry"
	"hub-backend/internal/users"
)

// Handler runs the login, callback and logout legs of the flow.
type Handler struct {
	Config Config
	Users  *users.Service
}

func NewHandler(cfg Config, usersSvc *users.Service) *Handler {
	return &Handler{Config: cfg, Users: usersSvc}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/auth/login", h.login)
	r.GET("/auth/callback", h.callback)
	r.GET("/auth/logout", h.logout)
}

// login redirects to the Auth0 authorize endpoint. An optional connection
// query parameter pins the identity provider (google-oauth2, windowslive,
// github) so the dashboard can offer per-provider buttons.
func (h *Handler) login(c *gin.Context) {
	if !h.Config.Complete() {
		respond.Error(c, http.StatusInternalServerError, "configuration_missing", "auth0 configuration missing", nil)
		return
	}

	var opts []oauth2.AuthCodeOption
	if connection := c.Query("connection"); connection != "" {
		opts = append(opts, oauth2.SetAuthURLParam("connection", connection))
	}
	if h.Config.Audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", h.Config.Audience))
	}

	c.Redirect(http.StatusFound, h.Config.oauthConfig().AuthCodeURL("", opts...))
}

func (h *Handler) callback(c *gin.Context) {
	// Upstream denials skip the exchange and bounce straight back to the
	// frontend error page.
	if errCode := c.Query("error"); errCode != "" {
		params := url.Values{}
		params.Set("error", errCode)
		params.Set("error_description", c.Query("error_description"))
		c.Redirect(http.StatusFound, h.Config.FrontendURL+"/auth?"+params.Encode())
		return
	}

	code := c.Query("code")
	if code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "authorization code not provided", nil)
		return
	}

	token, err := h.Config.oauthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "token exchange failed", nil)
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	accessToken := token.AccessToken

	h.recordLogin(c, idToken)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.IdentityCookie, idToken, 0, "/", "", false, true)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, h.Config.FrontendURL+"/dashboard")
}

// recordLogin merges the identity claims into the user store. Failures are
// logged and swallowed; a broken store must not block the login.
func (h *Handler) recordLogin(c *gin.Context, idToken string) {
	if idToken == "" {
		return
	}
	claims, err := sharedauth.DecodeUnverified(idToken)
	if err != nil {
		telemetry.Warn("auth.id_token_undecodable", map[string]any{"error": err.Error()})
		return
	}
	metrics.IncLogin()

	if !h.Users.Available() {
		return
	}
	if err := h.Users.UpsertFromLogin(c.Request.Context(), claims.Sub, claims.Profile()); err != nil {
		metrics.IncStoreError("users.upsert_login")
		telemetry.Warn("auth.upsert_login_failed", map[string]any{
			"user_id": claims.Sub,
			"error":   err.Error(),
		})
	}
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.IdentityCookie, "", -1, "/", "", false, true)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, h.Config.FrontendURL)
}
