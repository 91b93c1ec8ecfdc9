// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// respondOK writes the standard success envelope
func respondOK(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

// respondError writes the standard failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondUpstreamError maps the upstream error taxonomy onto HTTP
// statuses, passing rejection messages through verbatim
func respondUpstreamError(c *gin.Context, err error) {
	var sre *backend.ServerRejectedError
	switch {
	case errors.Is(err, backend.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, backend.UserMessage(err))
	case errors.Is(err, backend.ErrNotFound):
		respondError(c, http.StatusNotFound, backend.UserMessage(err))
	case errors.As(err, &sre):
		respondError(c, http.StatusBadRequest, sre.Error())
	default:
		respondError(c, http.StatusBadGateway, backend.UserMessage(err))
	}
}
