package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
)

const maxBodyBytes = 16 << 20

// Fetcher retrieves one URL as text. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	FetchText(ctx context.Context, target string) (string, error)
}

// FetchError describes a failed fetch. Status is zero when no response arrived.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("GET %s: http %d", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch failed because a deadline passed.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func (c *Client) FetchText(ctx context.Context, target string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, target); err != nil {
			return "", &FetchError{URL: target, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	applyHeaders(req, nil)

	resp, err := c.Do(req)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &FetchError{URL: target, Status: resp.StatusCode, Err: ErrRequestFailed}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	return string(body), nil
}

// FetchJSON fetches target and decodes the body into a generic value.
func FetchJSON(ctx context.Context, fetcher Fetcher, target string) (any, error) {
	body, err := fetcher.FetchText(ctx, target)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return value, nil
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["accept"]; !ok {
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8"
	}
	if _, ok := headers["accept-language"]; !ok {
		headers["accept-language"] = "de-DE,de;q=0.9,en;q=0.8"
	}
	for key, value := range headers {
		req.Header.Set(strings.ToLower(key), value)
	}
}
