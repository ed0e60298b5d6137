package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rpm-system/rpm-backend/internal/oauth"
	"github.com/rpm-system/rpm-backend/internal/service"
)

// OAuthHandler drives the provider redirect flows. Callback failures
// never render JSON; the browser is mid-redirect, so errors land back
// on the frontend login page as a query parameter.
type OAuthHandler struct {
	providers   oauth.Registry
	states      service.StateStore
	oauthSvc    service.OAuthService
	authSvc     service.AuthService
	frontendURL string
	logger      *zap.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	providers oauth.Registry,
	states service.StateStore,
	oauthSvc service.OAuthService,
	authSvc service.AuthService,
	frontendURL string,
	logger *zap.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		states:      states,
		oauthSvc:    oauthSvc,
		authSvc:     authSvc,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Redirect starts the authorization flow for a provider
func (h *OAuthHandler) Redirect(providerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, ok := h.providers.Get(providerName)
		if !ok {
			h.redirectError(c, "oauth_failed")
			return
		}

		state, err := oauth.StateToken()
		if err != nil {
			h.logger.Error("failed to generate oauth state", zap.Error(err))
			h.redirectError(c, "oauth_failed")
			return
		}

		if err := h.states.Put(c.Request.Context(), state); err != nil {
			h.logger.Error("failed to store oauth state", zap.Error(err))
			h.redirectError(c, "oauth_failed")
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
	}
}

// Callback finishes the authorization flow for a provider
func (h *OAuthHandler) Callback(providerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		failure := providerName + "_failed"

		provider, ok := h.providers.Get(providerName)
		if !ok {
			h.redirectError(c, "oauth_failed")
			return
		}

		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			h.redirectError(c, failure)
			return
		}

		valid, err := h.states.Consume(c.Request.Context(), state)
		if err != nil || !valid {
			if err != nil {
				h.logger.Error("failed to consume oauth state", zap.Error(err))
			}
			h.redirectError(c, failure)
			return
		}

		profile, err := provider.FetchProfile(c.Request.Context(), code)
		if err != nil {
			h.logger.Warn("oauth profile fetch failed",
				zap.String("provider", providerName),
				zap.Error(err))
			h.redirectError(c, failure)
			return
		}

		user, err := h.oauthSvc.Reconcile(c.Request.Context(), providerName, profile)
		if err != nil {
			h.logger.Error("oauth reconciliation failed",
				zap.String("provider", providerName),
				zap.Error(err))
			h.redirectError(c, failure)
			return
		}

		pair, err := h.authSvc.IssueTokens(c.Request.Context(), user)
		if err != nil {
			h.logger.Error("failed to issue tokens after oauth",
				zap.String("provider", providerName),
				zap.Error(err))
			h.redirectError(c, failure)
			return
		}

		callback := fmt.Sprintf("%s/auth/callback?accessToken=%s&refreshToken=%s",
			h.frontendURL,
			url.QueryEscape(pair.AccessToken),
			url.QueryEscape(pair.RefreshToken),
		)
		c.Redirect(http.StatusTemporaryRedirect, callback)
	}
}

func (h *OAuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect,
		fmt.Sprintf("%s/login?error=%s", h.frontendURL, url.QueryEscape(code)))
}
