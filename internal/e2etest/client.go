package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/justinas/nosurf"
	"github.com/myrjola/gaslight/internal/errors"
)

var ErrUnexpectedStatus = errors.NewSentinel("unexpected status code")

// Client talks to the game API the way a browser would: it keeps the session cookies and echoes the CSRF
// token on every request.
type Client struct {
	client    *http.Client
	url       string
	csrfToken string
}

func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

func (c *Client) URL() string {
	return c.url
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// FetchCSRF retrieves the CSRF token from the server. State-changing requests fail without it.
func (c *Client) FetchCSRF(ctx context.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if _, err := c.Do(ctx, http.MethodGet, "/api/csrf", nil, &body, http.StatusOK); err != nil {
		return errors.Wrap(err, "fetch csrf token")
	}
	c.csrfToken = body.Token
	return nil
}

// Do sends in as JSON and decodes the response into out when given. It returns the raw response body. A
// status other than wantStatus is reported as ErrUnexpectedStatus.
func (c *Client) Do(ctx context.Context, method, urlPath string, in any, out any, wantStatus int) ([]byte, error) {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		req.Header.Set(nosurf.HeaderName, c.csrfToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != wantStatus {
		return raw, errors.Wrap(ErrUnexpectedStatus, "do request", slog.String("method", method),
			slog.String("path", urlPath), slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
	}
	if out != nil {
		if err = json.Unmarshal(raw, out); err != nil {
			return raw, errors.Wrap(err, "decode response", slog.String("path", urlPath))
		}
	}
	return raw, nil
}
