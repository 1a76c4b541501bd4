// Package resultsfeed pulls normalized match records from the acquisition pipeline.
package resultsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/platform/resilience"
	"github.com/brunobenavent/api-futbol/internal/usecase"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

var errFeedTransient = crerr.New("results feed transient failure")

const maxBodySize = 4 << 20

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements usecase.MatchFeed over the pipeline's JSON endpoint
// GET {base}/seasons/{seasonID}/rounds/{round}/matches.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
	flight  resilience.SingleFlight
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid RESULTS_FEED_BASE_URL")
	}
	if err := cfg.CircuitBreaker.Validate(); err != nil {
		return nil, crerr.Wrap(err, "invalid results feed circuit breaker")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "api-futbol-resultsfeed",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodySize,
		},
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger,
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker, nil),
	}, nil
}

func (c *Client) FetchRound(ctx context.Context, seasonID string, round int) ([]match.Match, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" || round <= 0 {
		return nil, crerr.Newf("season id and a positive round are required, got season=%q round=%d", seasonID, round)
	}

	endpoint := c.roundURL(seasonID, round)
	out, err, _ := c.flight.Do(endpoint, func() (any, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "results feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		raw, reqErr := c.get(ctx, endpoint)
		c.breaker.Record(reqErr, isTransient)
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, usecase.ErrDependencyUnavailable) {
			return nil, err
		}
		c.logger.WarnContext(ctx, "results feed request failed", "season_id", seasonID, "round", round, "error", err)
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	raw, _ := out.([]byte)
	var envelope roundEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode results feed payload")
	}

	items := make([]match.Match, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		item, err := record.toMatch(seasonID, round)
		if err != nil {
			return nil, crerr.Wrapf(err, "results feed record %q", record.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Mark(crerr.Wrap(err, "send results feed request"), errFeedTransient)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return body, nil
	}
	callErr := crerr.Newf("results feed status=%d body=%s", status, abbreviateBody(body))
	if isRetryableStatus(status) {
		return nil, crerr.Mark(callErr, errFeedTransient)
	}
	return nil, callErr
}

func (c *Client) roundURL(seasonID string, round int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString("/seasons/")
	_, _ = buf.WriteString(url.PathEscape(seasonID))
	_, _ = buf.WriteString("/rounds/")
	_, _ = buf.WriteString(strconv.Itoa(round))
	_, _ = buf.WriteString("/matches")
	return buf.String()
}

func isTransient(err error) bool {
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusRequestTimeout ||
		code == fasthttp.StatusTooManyRequests ||
		code >= fasthttp.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
