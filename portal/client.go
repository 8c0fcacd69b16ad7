// Package portal fetches certificate detail pages from the public DGB
// certificate portal. Certificates are published under sequential
// numbers, so callers address them by number alone.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sanjacob/kangaroo/cert"
	"github.com/sanjacob/kangaroo/errors"
	"github.com/sanjacob/kangaroo/internal/httpclient"
)

// DefaultBaseURL is the public endpoint for certificate detail pages;
// the certificate number is appended to it.
const DefaultBaseURL = "http://www.pace.sep.gob.mx/certificadosdgb/certificadoremesadetalles/"

// Config controls how the portal is addressed and how politely it is
// crawled.
type Config struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RetryAttempts     int // transport-level retries per certificate
	RequestsPerMinute int // 0 disables rate limiting

	// HTTPClient overrides the default client; used by tests to reach
	// an httptest server.
	HTTPClient *httpclient.Client
}

// Client fetches and parses certificate pages.
type Client struct {
	baseURL string
	http    *httpclient.Client
	limiter *rate.Limiter
	retries int
	log     *zap.SugaredLogger
}

// New creates a portal client. A nil logger disables logging.
func New(cfg Config, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 4
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(cfg.RequestTimeout)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: limiter,
		retries: cfg.RetryAttempts,
		log:     log,
	}
}

// Fetch retrieves and parses the certificate published under the given
// number. A number with no certificate behind it returns ErrNotFound.
// Transport failures are retried up to the configured attempt cap
// before giving up.
func (c *Client) Fetch(ctx context.Context, number int) (*cert.Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	url := fmt.Sprintf("%s%d", c.baseURL, number)

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := c.fetchOnce(ctx, url)
		if err == nil {
			record.Number = number
			c.log.Debugw("Fetched certificate page", "number", number, "certificado", record.Certificado)
			return record, nil
		}
		if errors.IsAny(err, errors.ErrNotFound, errors.ErrPageLayout) {
			return nil, err
		}

		lastErr = err
		c.log.Warnw("Failed to retrieve page, retrying",
			"number", number,
			"attempt", attempt+1,
			"error", err)
	}

	return nil, errors.Wrapf(lastErr, "giving up on certificate %d after %d attempts", number, c.retries)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*cert.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("portal returned status %d", resp.StatusCode)
	}

	return cert.Parse(resp.Body)
}
