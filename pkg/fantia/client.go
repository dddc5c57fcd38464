package fantia

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fanarchive/pkg/config"
	"fanarchive/pkg/logger"
	"fanarchive/pkg/ratelimit"
)

// loginPath is where Fantia redirects requests with an expired session.
const loginPath = "/auth/login"

// Fetcher is the request surface the paginator and extractor depend on.
type Fetcher interface {
	GetHTML(url string) ([]byte, error)
	GetJSON(url string, target interface{}) error
	BaseURL() string
}

// Client performs authenticated, rate-limited requests against Fantia.
// Every request carries the configured User-Agent and Cookie; JSON requests
// additionally carry the CSRF token. All requests share one pacer, so the
// minimum inter-request spacing holds across components for the whole run.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	csrfToken  string
	pacer      *ratelimit.Pacer
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a session client from the run configuration.
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Settings.RequestTimeout,
		},
		headers: map[string]string{
			"User-Agent": cfg.Auth.UserAgent,
			"Cookie":     cfg.Auth.Cookie,
		},
		csrfToken: cfg.Auth.CSRFToken,
		pacer:     ratelimit.NewPacer(cfg.Settings.Delay()),
		baseURL:   BaseURL,
		logger:    log,
	}
}

// SetBaseURL overrides the platform base URL. Used by tests to point the
// client at a local server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

// BaseURL returns the platform base URL in effect.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetPacer replaces the request pacer. Used by tests with a fake clock.
func (c *Client) SetPacer(p *ratelimit.Pacer) {
	c.pacer = p
}

// GetHTML fetches a page as raw HTML.
func (c *Client) GetHTML(rawurl string) ([]byte, error) {
	return c.get(rawurl, nil)
}

// GetJSON fetches an API endpoint and decodes the JSON response.
func (c *Client) GetJSON(rawurl string, target interface{}) error {
	body, err := c.get(rawurl, map[string]string{
		"Accept":           "application/json, text/plain, */*",
		"X-Csrf-Token":     c.csrfToken,
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawurl,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
		}
	}

	return nil
}

// get performs a paced GET with the session headers attached.
func (c *Client) get(rawurl string, extraHeaders map[string]string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range extraHeaders {
		req.Header.Set(key, value)
	}

	c.pacer.Wait()
	// The spacing reference point is the end of the whole call, body read
	// included, not the arrival of the response headers.
	defer c.pacer.Mark()

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": rawurl,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawurl,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawurl,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return body, nil
}

// checkResponse maps the HTTP status and redirect destination onto the
// error taxonomy.
func (c *Client) checkResponse(resp *http.Response) error {
	// Following redirects onto the login page means the session expired.
	if resp.Request != nil && strings.HasPrefix(resp.Request.URL.Path, loginPath) {
		c.logger.Warn("redirected to login page, session expired")
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "session expired: redirected to login page",
			Code:    resp.StatusCode,
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.WarnWithFields("authentication rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "authentication rejected",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logger.WarnWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeServer,
			Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}
