package zerodha

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"anaam-stocks/internal/api"
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/types"
)

const (
	wireTimeLayout = "2006-01-02T15:04:05-0700"
	defaultBaseURI = "https://api.kite.trade"
	kiteVersion    = "3"
	uriLTP         = "/quote/ltp"

	opExchangeToken = "Failed to get access token"
	opHistorical    = "Failed to fetch historical data"
	opLastPrice     = "Failed to fetch last price"
)

// IST is the exchange wall clock; Kite reads from/to bounds in it.
var IST = time.FixedZone("IST", 19800)

type Params struct {
	APIKey       string
	APISecret    string
	PublicAPIKey string
	Exchange     string
	Interval     string
	// BaseURI overrides https://api.kite.trade, mostly for tests.
	BaseURI   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Zerodha talks to the Kite Connect REST API. It keeps no per-user state:
// every call builds its own kiteconnect client around the given access token.
type Zerodha struct {
	p Params
}

var _ interfaces.Broker = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	if p.Interval == "" {
		p.Interval = "day"
	}
	if p.PublicAPIKey == "" {
		p.PublicAPIKey = p.APIKey
	}
	if p.Transport == nil {
		p.Transport = http.DefaultTransport
	}
	return &Zerodha{p: p}
}

// Checksum is the session/token checksum: hex(SHA-256(apiKey + requestToken + apiSecret)).
func Checksum(apiKey, requestToken, apiSecret string) string {
	sum := sha256.Sum256([]byte(apiKey + requestToken + apiSecret))
	return hex.EncodeToString(sum[:])
}

func (z *Zerodha) ExchangeToken(ctx context.Context, requestToken string) (string, error) {
	kc, rec := z.client(ctx, "")

	// GenerateSession posts request_token, api_key and Checksum(...) as a form.
	sess, err := kc.GenerateSession(requestToken, z.p.APISecret)
	if err != nil {
		return "", classify(opExchangeToken, err, rec)
	}
	if sess.AccessToken == "" {
		return "", &types.UpstreamAuthError{Op: opExchangeToken, Status: rec.status(), Message: "empty access token in response"}
	}
	return sess.AccessToken, nil
}

func (z *Zerodha) HistoricalCandles(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time) ([]types.Candle, error) {
	kc, rec := z.client(ctx, accessToken)

	data, err := kc.GetHistoricalData(instrumentToken, z.p.Interval, from.In(IST), to.In(IST), false, false)
	if err != nil {
		return nil, classify(opHistorical, err, rec)
	}

	if !sort.SliceIsSorted(data, func(i, j int) bool { return data[i].Date.Time.Before(data[j].Date.Time) }) {
		logger.Warn(ctx, "Broker returned candles out of order, sorting", "instrument_token", instrumentToken, "count", len(data))
		sort.SliceStable(data, func(i, j int) bool { return data[i].Date.Time.Before(data[j].Date.Time) })
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Timestamp: d.Date.Time.Format(wireTimeLayout),
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    int64(d.Volume),
		})
	}
	return candles, nil
}

// LastPrice reads GET /quote/ltp. kiteconnect's GetLTP targets /quote, so the
// call goes through the api client on the same recording transport.
func (z *Zerodha) LastPrice(ctx context.Context, accessToken, symbol string) (float64, error) {
	rec := &statusRecorder{ctx: ctx, base: z.p.Transport}
	client := api.NewClient(
		api.WithHTTPClient(&http.Client{Timeout: z.p.Timeout, Transport: rec}),
		api.WithBaseURL(z.baseURI()),
		api.WithHeader("X-Kite-Version", kiteVersion),
		api.WithHeader("Authorization", "token "+z.p.APIKey+":"+accessToken),
	)

	key := z.p.Exchange + ":" + symbol
	resp, err := client.GET(ctx, uriLTP+"?"+url.Values{"i": {key}}.Encode())
	if err != nil {
		return 0, classify(opLastPrice, kiteErrorFromStatus(err), rec)
	}

	var envelope struct {
		Data kiteconnect.QuoteLTP `json:"data"`
	}
	if err := resp.ParseJSON(&envelope); err != nil {
		return 0, &types.UpstreamAuthError{Op: opLastPrice, Status: rec.status(), Message: err.Error()}
	}
	q, ok := envelope.Data[key]
	if !ok {
		return 0, &types.UpstreamAuthError{Op: opLastPrice, Status: rec.status(), Message: "no quote returned for " + key}
	}
	return q.LastPrice, nil
}

func (z *Zerodha) baseURI() string {
	if z.p.BaseURI != "" {
		return strings.TrimRight(z.p.BaseURI, "/")
	}
	return defaultBaseURI
}

// kiteErrorFromStatus decodes Kite's error envelope from a non-2xx answer so
// classify sees the same kiteconnect.Error the SDK returns elsewhere.
func kiteErrorFromStatus(err error) error {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return err
	}
	var body struct {
		Message   string `json:"message"`
		ErrorType string `json:"error_type"`
	}
	if json.Unmarshal(se.Body, &body) != nil || body.Message == "" {
		return kiteconnect.Error{Code: se.StatusCode, ErrorType: kiteconnect.GeneralError, Message: http.StatusText(se.StatusCode)}
	}
	return kiteconnect.Error{Code: se.StatusCode, ErrorType: body.ErrorType, Message: body.Message}
}

// LoginURL is the hosted Kite login page. Kite appends the decoded
// redirect_params to the callback URL, so redirectTo comes back as ?redirect_to=.
func (z *Zerodha) LoginURL(redirectTo string) string {
	login := kiteconnect.New(z.p.PublicAPIKey).GetLoginURL()
	if redirectTo == "" {
		return login
	}
	u, err := url.Parse(login)
	if err != nil {
		return login
	}
	q := u.Query()
	q.Set("redirect_params", "redirect_to="+url.QueryEscape(redirectTo))
	u.RawQuery = q.Encode()
	return u.String()
}

func (z *Zerodha) client(ctx context.Context, accessToken string) (*kiteconnect.Client, *statusRecorder) {
	rec := &statusRecorder{ctx: ctx, base: z.p.Transport}

	kc := kiteconnect.New(z.p.APIKey)
	if z.p.BaseURI != "" {
		kc.SetBaseURI(z.p.BaseURI)
	}
	kc.SetHTTPClient(&http.Client{Timeout: z.p.Timeout, Transport: rec})
	if accessToken != "" {
		kc.SetAccessToken(accessToken)
	}
	return kc, rec
}

// classify turns a kiteconnect failure into *types.UpstreamAuthError, keeping
// the broker's message and the HTTP status actually received.
func classify(op string, err error, rec *statusRecorder) error {
	status := rec.status()
	kerr, isKite := asKiteError(err)

	if status == 0 && !isKite {
		return fmt.Errorf("%s: %w", op, err)
	}

	ue := &types.UpstreamAuthError{Op: op, Status: status, Message: err.Error()}
	if isKite {
		if kerr.Message != "" {
			ue.Message = kerr.Message
		}
		ue.TokenFailure = kerr.ErrorType == kiteconnect.TokenError
		if ue.Status == 0 {
			ue.Status = kerr.Code
		}
	}
	return ue
}

func asKiteError(err error) (kiteconnect.Error, bool) {
	var val kiteconnect.Error
	if errors.As(err, &val) {
		return val, true
	}
	var ptr *kiteconnect.Error
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return kiteconnect.Error{}, false
}

// statusRecorder binds outgoing requests to ctx and remembers the last status.
// It serves exactly one broker call, so it needs no locking.
type statusRecorder struct {
	ctx  context.Context
	base http.RoundTripper
	last int
}

func (s *statusRecorder) RoundTrip(r *http.Request) (*http.Response, error) {
	if s.ctx != nil {
		r = r.WithContext(s.ctx)
	}
	resp, err := s.base.RoundTrip(r)
	if resp != nil {
		s.last = resp.StatusCode
	}
	return resp, err
}

func (s *statusRecorder) status() int {
	return s.last
}
