// Package market fetches token data and the reference price from the remote APIs.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/logger"
	"github.com/edgard/odinbot/internal/telemetry"
)

const maxBodySize = 1 << 20

// Client is the remote market data dependency of the router.
type Client interface {
	// FetchToken returns the current snapshot of tokenID.
	// A non-200 answer yields a *StatusError.
	FetchToken(ctx context.Context, tokenID string) (*TokenSnapshot, error)

	// FetchReferencePrice returns the quote-currency price of the base asset.
	// It never fails: any problem yields the configured fallback.
	FetchReferencePrice(ctx context.Context) float64
}

// HTTPClient implements Client over HTTP. It does not retry or cache.
type HTTPClient struct {
	cfg      config.MarketConfig
	http     *http.Client
	now      func() time.Time
	validate *validator.Validate
	logger   *slog.Logger
}

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithClock replaces the clock used for the cache-busting timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// NewHTTPClient creates a client for the endpoints in cfg.
func NewHTTPClient(cfg config.MarketConfig, log *slog.Logger, opts ...Option) *HTTPClient {
	if log == nil {
		log = logger.Discard()
	}
	c := &HTTPClient{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		now:      time.Now,
		validate: validator.New(),
		logger:   log.With("component", "market_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchToken requests /v1/token/{id}?timestamp={unix millis}.
func (c *HTTPClient) FetchToken(ctx context.Context, tokenID string) (snap *TokenSnapshot, err error) {
	started := time.Now()
	outcome := telemetry.OutcomeError
	defer func() { telemetry.ObserveRemote(telemetry.EndpointToken, outcome, started) }()

	endpoint := fmt.Sprintf("%s/v1/token/%s?timestamp=%s",
		strings.TrimRight(c.cfg.TokenAPIURL, "/"),
		url.PathEscape(tokenID),
		strconv.FormatInt(c.now().UnixMilli(), 10),
	)
	log := c.logger.With("token_id", tokenID)
	log.DebugContext(ctx, "Requesting token data", "url", endpoint)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	log.DebugContext(ctx, "Token API responded", "status", status, "body_preview", preview(body, 200))

	if status != http.StatusOK {
		outcome = telemetry.OutcomeRemoteStatus
		return nil, &StatusError{Endpoint: telemetry.EndpointToken, StatusCode: status}
	}

	snap = &TokenSnapshot{}
	if err := json.Unmarshal(body, snap); err != nil {
		return nil, fmt.Errorf("%w: token %s: %v", ErrMalformedResponse, tokenID, err)
	}
	if err := c.validate.Struct(snap); err != nil {
		return nil, fmt.Errorf("%w: token %s: %v", ErrMalformedResponse, tokenID, err)
	}

	outcome = telemetry.OutcomeOK
	return snap, nil
}

// FetchReferencePrice requests /simple/price?ids={asset}&vs_currencies={quote}.
func (c *HTTPClient) FetchReferencePrice(ctx context.Context) float64 {
	started := time.Now()
	price, err := c.fetchReferencePrice(ctx)
	if err != nil {
		telemetry.ObserveRemote(telemetry.EndpointReferencePrice, telemetry.OutcomeFallback, started)
		c.logger.WarnContext(ctx, "Reference price unavailable, using fallback",
			"error", err, "fallback", c.cfg.FallbackReferencePrice)
		return c.cfg.FallbackReferencePrice
	}
	telemetry.ObserveRemote(telemetry.EndpointReferencePrice, telemetry.OutcomeOK, started)
	return price
}

func (c *HTTPClient) fetchReferencePrice(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("ids", c.cfg.ReferenceAsset)
	q.Set("vs_currencies", c.cfg.QuoteCurrency)
	endpoint := strings.TrimRight(c.cfg.ReferencePriceURL, "/") + "/simple/price?" + q.Encode()

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &StatusError{Endpoint: telemetry.EndpointReferencePrice, StatusCode: status}
	}

	var resp referencePriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	price, ok := resp[c.cfg.ReferenceAsset][c.cfg.QuoteCurrency]
	if !ok {
		return 0, fmt.Errorf("%w: no %s/%s price", ErrMalformedResponse, c.cfg.ReferenceAsset, c.cfg.QuoteCurrency)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %v", ErrMalformedResponse, price)
	}
	return price, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string) (body []byte, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func preview(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
