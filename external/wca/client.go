package wca

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/platform/resilience"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultAPIBaseURL   = "https://api.worldcubeassociation.org"
	defaultOriginURL    = "https://www.worldcubeassociation.org/api/v0"
	defaultMaxBodyBytes = 16 << 20
)

var (
	errNotFound     = crerr.New("wca resource not found")
	errBodyTooLarge = crerr.New("wca response body too large")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	APIBaseURL     string
	OriginURL      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxBodyBytes   int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the public WCA REST API. It implements competition.Source and wcif.Source.
type Client struct {
	httpClient     *http.Client
	apiBaseURL     string
	originURL      string
	retry          resilience.RetryPolicy
	maxBodyBytes   int64
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	return &Client{
		httpClient:     httpClient,
		apiBaseURL:     normalizeBaseURL(cfg.APIBaseURL, defaultAPIBaseURL),
		originURL:      normalizeBaseURL(cfg.OriginURL, defaultOriginURL),
		retry:          resilience.RetryPolicy{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff},
		maxBodyBytes:   cfg.MaxBodyBytes,
		logger:         logger.Named("wca"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) List(ctx context.Context, query competition.ListQuery) ([]competition.Competition, error) {
	values := url.Values{}
	values.Set("ongoing_and_future", query.OngoingAndFuture.Format(competition.DateLayout))
	if sortBy := strings.TrimSpace(query.Sort); sortBy != "" {
		values.Set("sort", sortBy)
	}
	if query.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(query.PerPage))
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}

	var items []competitionItem
	if err := c.getJSON(ctx, c.apiBaseURL+"/competitions", values, &items); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return c.toCompetitions(ctx, items), nil
}

func (c *Client) Search(ctx context.Context, query string) ([]competition.Competition, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []competition.Competition{}, nil
	}

	values := url.Values{}
	values.Set("q", query)

	var envelope searchEnvelope
	if err := c.getJSON(ctx, c.apiBaseURL+"/search/competitions", values, &envelope); err != nil {
		return nil, fmt.Errorf("search competitions: %w", err)
	}
	return c.toCompetitions(ctx, envelope.Result), nil
}

func (c *Client) GetPublic(ctx context.Context, competitionID string) (wcif.Wcif, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return wcif.Wcif{}, fmt.Errorf("%w: competition id is required", usecase.ErrInvalidInput)
	}

	var doc wcif.Wcif
	endpoint := c.originURL + "/competitions/" + url.PathEscape(competitionID) + "/wcif/public"
	if err := c.getJSON(ctx, endpoint, nil, &doc); err != nil {
		return wcif.Wcif{}, fmt.Errorf("fetch wcif competition=%s: %w", competitionID, err)
	}
	if err := doc.Validate(); err != nil {
		return wcif.Wcif{}, fmt.Errorf("%w: %v", usecase.ErrInvalidUpstream, err)
	}
	return doc, nil
}

func (c *Client) toCompetitions(ctx context.Context, items []competitionItem) []competition.Competition {
	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		parsed, err := item.toDomain()
		if err != nil {
			c.logger.WarnContext(ctx, "skip competition with malformed dates", "competition_id", item.ID, "error", err)
			continue
		}
		out = append(out, parsed)
	}
	return out
}

// getJSON fetches endpoint and decodes the body into target. Identical
// concurrent requests share one upstream call.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, target any) error {
	fullURL := endpoint
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The shared call outlives any single caller; the http client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fullURL, func() (any, error) {
		var raw []byte
		call := func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(shared, fullURL)
			return reqErr
		}
		var err error
		if c.circuitEnabled {
			err = c.breaker.Do(call, resilience.IsTransient)
		} else {
			err = call()
		}
		return raw, err
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return c.mapError(ctx, fullURL, res.Err)
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", res.Val)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrInvalidUpstream, endpoint, err)
	}
	return nil
}

func (c *Client) mapError(ctx context.Context, fullURL string, err error) error {
	switch {
	case crerr.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "wca circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: wca api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	case crerr.Is(err, errNotFound):
		return fmt.Errorf("%w: %s", usecase.ErrNotFound, fullURL)
	case crerr.Is(err, errBodyTooLarge):
		return fmt.Errorf("%w: %v", usecase.ErrInvalidUpstream, err)
	case resilience.IsTransient(err):
		c.logger.WarnContext(ctx, "wca request failed", "url", fullURL, "error", err)
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	default:
		return err
	}
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.retry, func(attempt int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return resilience.MarkTransient(crerr.Wrapf(err, "send request attempt=%d", attempt+1))
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
		_ = resp.Body.Close()
		if readErr != nil {
			return resilience.MarkTransient(crerr.Wrap(readErr, "read response body"))
		}
		if int64(len(raw)) > c.maxBodyBytes {
			return crerr.Mark(crerr.Newf("wca response body exceeds %d bytes", c.maxBodyBytes), errBodyTooLarge)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = raw
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return crerr.Mark(crerr.Newf("wca status=%d", resp.StatusCode), errNotFound)
		case isRetryableStatus(resp.StatusCode):
			return resilience.MarkTransient(crerr.Newf("wca status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
		default:
			return crerr.Newf("wca status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
		}
	})
	return body, err
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func normalizeBaseURL(raw, fallback string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return fallback
	}
	return raw
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
