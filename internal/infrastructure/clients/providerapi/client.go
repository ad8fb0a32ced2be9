package providerapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

// Client fetches the raw provider list from the upstream directory
type Client interface {
	FetchProviders(ctx context.Context) ([]interface{}, error)
}

// HTTPClient reads the directory from a fixed JSON endpoint
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// StatusError reports a non-success upstream response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider api returned status %d", e.StatusCode)
}

// DecodeError reports an upstream body that is not a provider list
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode provider list: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewClient creates a client for the given endpoint
func NewClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchProviders GETs the endpoint and returns its elements undecoded beyond
// generic JSON values. The body may be an array or an object with a "data" array.
func (c *HTTPClient) FetchProviders(ctx context.Context) ([]interface{}, error) {
	var payload interface{}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint, nil, &payload); err != nil {
		return nil, apperrors.NewExternalError("failed to load data", err)
	}

	switch body := payload.(type) {
	case []interface{}:
		return body, nil
	case map[string]interface{}:
		if data, ok := body["data"].([]interface{}); ok {
			return data, nil
		}
	}
	return nil, apperrors.NewExternalError("failed to load data",
		&DecodeError{Err: fmt.Errorf("expected a JSON array, got %T", payload)})
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}

	return nil
}

// Retryable reports whether a fetch error may succeed on another attempt.
// Client errors other than 408 and 429, and malformed bodies, are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	return true
}
