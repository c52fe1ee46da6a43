package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"anaam-stocks/internal/types"
)

const (
	msgSessionExpired = "Session expired. Please log in again."
	msgInternal       = "An unexpected error occurred. Please try again."
)

// writeError maps engine and broker failures onto HTTP responses.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		badSymbol *types.UnknownSymbolError
		badRange  *types.UnknownDateRangeError
		broker    *types.UpstreamAuthError
		model     *types.UpstreamModelError
	)

	switch {
	case errors.As(err, &badSymbol), errors.As(err, &badRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrNotAuthenticated), errors.Is(err, types.ErrReauthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     msgSessionExpired,
			"login_url": s.brk.LoginURL("/"),
		})
	case errors.Is(err, types.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &broker):
		c.JSON(http.StatusBadGateway, gin.H{"error": broker.Error()})
	case errors.As(err, &model):
		c.JSON(http.StatusBadGateway, gin.H{"error": model.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
