// Package meta implements the dispatch sink against the Meta Conversions
// API. One event per call, one batch-shaped body, no retries unless the
// operator raises retry_max; the normalization core upstream never retries.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/leshachaplin/convgate/internal/domain"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	PixelID     string `koanf:"pixel_id"`
	AccessToken string `koanf:"access_token"`
	APIVersion  string `koanf:"api_version"`
	BaseURL     string `koanf:"base_url"`
	Timeout     string `koanf:"timeout"`
	RetryMax    int    `koanf:"retry_max"`
}

type Client struct {
	cfg    Config
	http   *retryablehttp.Client
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := defaultTimeout
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}

	cli := retryablehttp.NewClient()
	cli.RetryMax = cfg.RetryMax
	cli.RetryWaitMin = 100 * time.Millisecond
	cli.RetryWaitMax = time.Second
	cli.HTTPClient.Timeout = timeout
	cli.Logger = nil

	return &Client{
		cfg:    cfg,
		http:   cli,
		logger: logger,
	}
}

// Send submits one canonical event. The credential check happens before any
// network traffic; every failure past that point is reported as an opaque
// sink error.
func (c *Client) Send(ctx context.Context, event domain.CanonicalEvent) error {
	if c.cfg.PixelID == "" || c.cfg.AccessToken == "" {
		return domain.ErrMissingCredentials
	}

	body, err := json.Marshal(requestFromDomain(event))
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.eventsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSink, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d: %s", domain.ErrSink, resp.StatusCode, raw)
	}

	c.logger.Debug().
		Str("event_id", event.EventID).
		RawJSON("sink_response", raw).
		Msg("sink accepted event")
	return nil
}

func (c *Client) eventsURL() string {
	return fmt.Sprintf(
		"%s/%s/%s/events?access_token=%s",
		c.cfg.BaseURL,
		c.cfg.APIVersion,
		c.cfg.PixelID,
		url.QueryEscape(c.cfg.AccessToken),
	)
}
