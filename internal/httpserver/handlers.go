package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/session"
	"anaam-stocks/internal/types"
)

type historicalQuery struct {
	Symbol    string `form:"symbol" binding:"required"`
	DateRange string `form:"dateRange" binding:"required,oneof=7d 30d 1y"`
}

type ltpQuery struct {
	Symbol string `form:"symbol" binding:"required"`
}

type analysisBody struct {
	Symbol    string `json:"symbol" binding:"required"`
	DateRange string `json:"dateRange" binding:"required,oneof=7d 30d 1y"`
	UserQuery string `json:"userQuery" binding:"max=1000"`
}

type adviceBody struct {
	Symbol    string `json:"symbol" binding:"required"`
	DateRange string `json:"dateRange" binding:"required,oneof=7d 30d 1y"`
}

// Health
// GET /health
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Instruments lists the supported symbols and date ranges
// GET /api/instruments
func (s *Server) Instruments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"instruments": types.Instruments(),
		"dateRanges":  types.DateRanges(),
	})
}

// GET /api/me
func (s *Server) Me(c *gin.Context) {
	_, ok := session.FromGin(c).Token()
	c.JSON(http.StatusOK, gin.H{"authenticated": ok})
}

// Login redirects to the broker login page
// GET /auth/login
func (s *Server) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, s.brk.LoginURL(localPath(c.Query("redirect_to"))))
}

// Callback completes the broker login
// GET /auth/callback
func (s *Server) Callback(c *gin.Context) {
	requestToken := c.Query("request_token")
	if c.Query("status") != "success" || requestToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentication failed"})
		return
	}

	ctx := c.Request.Context()
	accessToken, err := s.brk.ExchangeToken(ctx, requestToken)
	if err != nil {
		// A rejected request token is not an expired session; surface the broker message.
		var ue *types.UpstreamAuthError
		if errors.As(err, &ue) {
			logger.Warn(ctx, "Token exchange rejected", "status", ue.Status, "error", ue.Message)
			c.JSON(http.StatusBadGateway, gin.H{"error": ue.Error()})
			return
		}
		s.writeError(c, err)
		return
	}

	session.FromGin(c).SetToken(accessToken)
	logger.Info(ctx, "User logged in", "request_id", c.GetString("request_id"))
	c.Redirect(http.StatusFound, localPath(c.Query("redirect_to")))
}

// POST /auth/logout
func (s *Server) Logout(c *gin.Context) {
	session.FromGin(c).Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

// GET /api/historical
func (s *Server) Historical(c *gin.Context) {
	var q historicalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.eng.Historical(c.Request.Context(), session.FromGin(c), normalize(q.Symbol), q.DateRange)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/ltp
func (s *Server) LastPrice(c *gin.Context) {
	var q ltpQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.eng.LastPrice(c.Request.Context(), session.FromGin(c), normalize(q.Symbol))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/analysis
func (s *Server) Analysis(c *gin.Context) {
	var body analysisBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.eng.Analyze(c.Request.Context(), session.FromGin(c), types.AnalysisRequest{
		Symbol:    normalize(body.Symbol),
		DateRange: body.DateRange,
		UserQuery: strings.TrimSpace(body.UserQuery),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/advice
func (s *Server) Advice(c *gin.Context) {
	var body adviceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.eng.Advise(c.Request.Context(), session.FromGin(c), types.AdviceRequest{
		Symbol:    normalize(body.Symbol),
		DateRange: body.DateRange,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// localPath returns p when it is a path on this host, otherwise "/".
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
