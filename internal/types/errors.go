package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated means the session carries no broker access token.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrReauthRequired means the broker rejected the access token.
	ErrReauthRequired = errors.New("session expired, please log in again")

	// ErrNoData means the broker returned no candles for the window.
	ErrNoData = errors.New("no historical data available for the selected period")
)

// UpstreamAuthError is a non-success answer from the broker.
type UpstreamAuthError struct {
	Op           string
	Status       int
	Message      string
	TokenFailure bool
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports a broker 401 or token rejection as ErrReauthRequired.
func (e *UpstreamAuthError) Is(target error) bool {
	return target == ErrReauthRequired && (e.Status == http.StatusUnauthorized || e.TokenFailure)
}

type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("invalid stock symbol: %s", e.Symbol)
}

type UnknownDateRangeError struct {
	Key string
}

func (e *UnknownDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s", e.Key)
}

// UpstreamModelError is a failed call to the language-model provider.
type UpstreamModelError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamModelError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s API error: %s (Status: %d)", e.Provider, e.Message, e.Status)
}
