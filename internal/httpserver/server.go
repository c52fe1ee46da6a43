package httpserver

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/session"
)

// Server owns the HTTP surface; handlers hold no per-user state.
type Server struct {
	eng   interfaces.Engine
	brk   interfaces.Broker
	codec *session.Codec
	opts  session.Options
	log   *zap.Logger
}

func New(eng interfaces.Engine, brk interfaces.Broker, codec *session.Codec, opts session.Options, log *zap.Logger) *Server {
	return &Server{eng: eng, brk: brk, codec: codec, opts: opts, log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(s.log), session.Middleware(s.codec, s.opts))

	r.GET("/health", s.Health)

	auth := r.Group("/auth")
	{
		auth.GET("/login", s.Login)
		auth.GET("/callback", s.Callback)
		auth.POST("/logout", s.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/instruments", s.Instruments)
		api.GET("/me", s.Me)

		protected := api.Group("")
		protected.Use(s.requireSession)
		{
			protected.GET("/historical", s.Historical)
			protected.GET("/ltp", s.LastPrice)
			protected.POST("/analysis", s.Analysis)
			protected.POST("/advice", s.Advice)
		}
	}

	return r
}
