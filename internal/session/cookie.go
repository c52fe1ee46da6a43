package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"anaam-stocks/internal/interfaces"
)

const contextKey = "anaam-stocks/session"

// Options control the session cookie attributes.
type Options struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// CookieStore keeps the access token in a sealed cookie on one request.
type CookieStore struct {
	c     *gin.Context
	codec *Codec
	opts  Options

	loaded bool
	token  string
}

var _ interfaces.SessionStore = (*CookieStore)(nil)

func NewCookieStore(c *gin.Context, codec *Codec, opts Options) *CookieStore {
	return &CookieStore{c: c, codec: codec, opts: opts}
}

func (s *CookieStore) Token() (string, bool) {
	if !s.loaded {
		s.loaded = true
		if raw, err := s.c.Cookie(s.opts.Name); err == nil && raw != "" {
			if p, err := s.codec.Open(raw); err == nil {
				s.token = p.Token
			}
		}
	}
	return s.token, s.token != ""
}

func (s *CookieStore) SetToken(token string) {
	// A seal failure leaves the previous cookie in place.
	if value, err := s.codec.Seal(payload{Token: token}); err == nil {
		s.write(value, int(s.opts.MaxAge/time.Second))
	}
	s.loaded, s.token = true, token
}

func (s *CookieStore) Clear() {
	s.write("", -1)
	s.loaded, s.token = true, ""
}

func (s *CookieStore) write(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.opts.Name, value, maxAge, "/", "", s.opts.Secure, true)
}

// Middleware attaches a CookieStore to every request.
func Middleware(codec *Codec, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, NewCookieStore(c, codec, opts))
		c.Next()
	}
}

// FromGin returns the store installed by Middleware.
func FromGin(c *gin.Context) interfaces.SessionStore {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(interfaces.SessionStore); ok {
			return s
		}
	}
	return &Static{}
}
