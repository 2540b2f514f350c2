package wcalive

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/platform/resilience"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

const defaultEndpoint = "https://live.worldcubeassociation.org/api"

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	Endpoint       string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client queries the WCA Live GraphQL API. It implements live.Source.
type Client struct {
	httpClient     *fasthttp.Client
	endpoint       string
	timeout        time.Duration
	retry          resilience.RetryPolicy
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
		httpClient = &fasthttp.Client{
			Name:                "cubing-competition-api",
			MaxIdleConnDuration: time.Minute,
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	return &Client{
		httpClient:     httpClient,
		endpoint:       endpoint,
		timeout:        cfg.Timeout,
		retry:          resilience.RetryPolicy{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff},
		logger:         logger.Named("wca_live"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetPersonResults returns false when WCA Live does not know the person.
func (c *Client) GetPersonResults(ctx context.Context, personID string) (live.PersonResults, bool, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return live.PersonResults{}, false, fmt.Errorf("%w: person id is required", usecase.ErrInvalidInput)
	}

	// Detached from the caller so a disconnect does not fail the others
	// waiting on this person; c.timeout still bounds every attempt.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(personID, func() (any, error) {
		var raw []byte
		call := func() error {
			var reqErr error
			raw, reqErr = c.post(shared, personID)
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
		return live.PersonResults{}, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return live.PersonResults{}, false, c.mapError(ctx, personID, res.Err)
	}

	raw, _ := res.Val.([]byte)
	var resp competitorResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return live.PersonResults{}, false, fmt.Errorf("%w: decode live response: %v", usecase.ErrInvalidUpstream, err)
	}
	if len(resp.Errors) > 0 || resp.Data.Person == nil {
		if len(resp.Errors) > 0 {
			c.logger.DebugContext(ctx, "wca live returned graphql errors", "person_id", personID, "message", resp.Errors[0].Message)
		}
		return live.PersonResults{}, false, nil
	}

	person := *resp.Data.Person
	if err := person.Validate(); err != nil {
		return live.PersonResults{}, false, fmt.Errorf("%w: %v", usecase.ErrInvalidUpstream, err)
	}
	return person, true, nil
}

func (c *Client) post(ctx context.Context, personID string) ([]byte, error) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := appendCompetitorRequest(body, personID); err != nil {
		return nil, fmt.Errorf("encode live request: %w", err)
	}

	var payload []byte
	err := resilience.Retry(ctx, c.retry, func(attempt int) error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.endpoint)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.Header.Set("accept", "application/json")
		req.SetBodyRaw(body.B)

		if err := c.httpClient.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return resilience.MarkTransient(crerr.Wrapf(err, "send live request attempt=%d", attempt+1))
		}

		status := resp.StatusCode()
		switch {
		case status >= 200 && status < 300:
			payload = append([]byte(nil), resp.Body()...)
			return nil
		case status == fasthttp.StatusRequestTimeout || status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
			return resilience.MarkTransient(crerr.Newf("wca live status=%d", status))
		default:
			return crerr.Newf("wca live status=%d", status)
		}
	})
	return payload, err
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func (c *Client) mapError(ctx context.Context, personID string, err error) error {
	switch {
	case crerr.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "wca live circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: wca live is temporarily unavailable", usecase.ErrDependencyUnavailable)
	case resilience.IsTransient(err):
		c.logger.WarnContext(ctx, "wca live request failed", "person_id", personID, "error", err)
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("fetch live results person=%s: %w", personID, err)
	}
}
