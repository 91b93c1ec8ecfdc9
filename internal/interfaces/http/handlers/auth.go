// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/session"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	sessions *session.Manager
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Manager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   log,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Session unavailable")
		return
	}

	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result := sess.Auth.Login(c.Request.Context(), creds)
	if !result.Success {
		respondError(c, http.StatusUnauthorized, result.Message)
		return
	}

	respondOK(c, result, "Logged in")
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Session unavailable")
		return
	}

	sess.Logout(c.Request.Context())
	h.sessions.Drop(middleware.TokenFromContext(c))

	respondOK(c, nil, "Logged out")
}

// Profile handles GET /auth/me
func (h *AuthHandler) Profile(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Session unavailable")
		return
	}

	user, err := sess.Auth.CurrentUser(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, user, "")
}
