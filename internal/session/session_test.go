package session

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("k", 32)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret)
	require.NoError(t, err)
	return c
}

func testOptions() Options {
	return Options{Name: "anaam_stocks_session", MaxAge: 24 * time.Hour}
}

func TestCodecRoundTrip(t *testing.T) {
	c := testCodec(t)

	sealed, err := c.Seal(payload{Token: "access-123"})
	require.NoError(t, err)
	assert.NotContains(t, sealed, "access-123")

	p, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "access-123", p.Token)
}

func TestCodecSealIsRandomized(t *testing.T) {
	c := testCodec(t)
	a, _ := c.Seal(payload{Token: "t"})
	b, _ := c.Seal(payload{Token: "t"})
	assert.NotEqual(t, a, b)
}

func TestCodecRejectsTamperedAndForeignValues(t *testing.T) {
	c := testCodec(t)
	sealed, err := c.Seal(payload{Token: "t"})
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	_, err = c.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformed)

	other, err := NewCodec(strings.Repeat("z", 32))
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Open("not base64!")
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = c.Open("")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	_, err := NewCodec("short")
	assert.Error(t, err)
}

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestCookieStoreSetTokenWritesSealedCookie(t *testing.T) {
	codec := testCodec(t)
	c, w := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	s := NewCookieStore(c, codec, Options{Name: "anaam_stocks_session", MaxAge: 24 * time.Hour, Secure: true})
	_, ok := s.Token()
	assert.False(t, ok)

	s.SetToken("access-123")
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "access-123", tok)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "anaam_stocks_session", ck.Name)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 86400, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	p, err := codec.Open(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "access-123", p.Token)
}

func TestCookieStoreReadsIncomingCookie(t *testing.T) {
	codec := testCodec(t)
	sealed, err := codec.Seal(payload{Token: "access-456"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "anaam_stocks_session", Value: sealed})
	c, _ := newContext(req)

	tok, ok := NewCookieStore(c, codec, testOptions()).Token()
	assert.True(t, ok)
	assert.Equal(t, "access-456", tok)
}

func TestCookieStoreTamperedCookieIsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "anaam_stocks_session", Value: "garbage"})
	c, _ := newContext(req)

	_, ok := NewCookieStore(c, testCodec(t), testOptions()).Token()
	assert.False(t, ok)
}

func TestCookieStoreClearExpiresCookie(t *testing.T) {
	codec := testCodec(t)
	sealed, _ := codec.Seal(payload{Token: "access-789"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "anaam_stocks_session", Value: sealed})
	c, w := newContext(req)

	s := NewCookieStore(c, codec, testOptions())
	s.Clear()

	_, ok := s.Token()
	assert.False(t, ok)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMiddlewareInstallsStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(testCodec(t), testOptions()))
	r.GET("/", func(c *gin.Context) {
		_, isCookie := FromGin(c).(*CookieStore)
		c.String(http.StatusOK, "%t", isCookie)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "true", w.Body.String())
}

func TestStatic(t *testing.T) {
	s := NewStatic("seed-token")

	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "seed-token", tok)

	_, ok = NewStatic("").Token()
	assert.False(t, ok)

	s.Clear()
	_, ok = s.Token()
	assert.False(t, ok)

	s.SetToken("new")
	tok, _ = s.Token()
	assert.Equal(t, "new", tok)
}
