// Package scoring talks to the remote fraud model and classifies every response into an Outcome.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"francoggm/antiscam-scoring/internal/models"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

// Client issues scoring calls for one dispatch. It is safe for concurrent use and must be
// closed when the dispatch ends.
type Client struct {
	cfg    Config
	client *fasthttp.Client
}

func NewClient(cfg Config) *Client {
	conns := cfg.MaxConcurrency
	if conns <= 0 {
		conns = 1
	}

	return &Client{
		cfg: cfg,
		client: &fasthttp.Client{
			MaxConnsPerHost:    conns,
			MaxConnWaitTimeout: cfg.ItemTimeout,
		},
	}
}

// Score sends a single record.
func (c *Client) Score(ctx context.Context, record models.TransactionRecord) Outcome {
	return c.do(ctx, []models.TransactionRecord{record}, c.cfg.ItemTimeout, false)
}

// ScoreBatch sends every record in one call. Success requires one prediction per record.
func (c *Client) ScoreBatch(ctx context.Context, records []models.TransactionRecord) Outcome {
	return c.do(ctx, records, c.cfg.BatchTimeout, true)
}

func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, records []models.TransactionRecord, timeout time.Duration, exact bool) (outcome Outcome) {
	if c.cfg.MockMode() {
		return failed(EndpointUnconfigured, nil)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = failed(TransportError, fmt.Errorf("scoring request panicked: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failed(classifyTransportError(err), err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	payload, err := sonic.Marshal(newScoringRequest(records))
	if err != nil {
		return failed(TransportError, fmt.Errorf("failed to marshal scoring request: %w", err))
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.cfg.Endpoint)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType("application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.SetBody(payload)

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return failed(classifyTransportError(err), fmt.Errorf("failed to make scoring request: %w", err))
	}

	return classifyResponse(resp.StatusCode(), string(resp.Header.ContentType()), resp.Body(), len(records), exact, c.cfg.ResponseKeys)
}

func classifyResponse(statusCode int, contentType string, body []byte, want int, exact bool, keys ResponseKeys) Outcome {
	if statusCode == http.StatusTooManyRequests {
		return failed(RateLimited, fmt.Errorf("scoring request rate limited: %w", ErrUnexpectedStatus))
	}

	if statusCode < 200 || statusCode > 299 {
		return failed(TransportError, fmt.Errorf("scoring request failed with status code %d: %w", statusCode, ErrUnexpectedStatus))
	}

	if !isJSONMediaType(contentType) {
		return failed(MalformedResponse, fmt.Errorf("non-JSON response (status %d, content type %q): %.200s", statusCode, contentType, body))
	}

	return decodePredictions(body, want, exact, keys)
}

func classifyTransportError(err error) OutcomeKind {
	var netErr net.Error
	switch {
	case errors.Is(err, fasthttp.ErrTimeout),
		errors.Is(err, fasthttp.ErrDialTimeout),
		errors.Is(err, fasthttp.ErrTLSHandshakeTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return Timeout
	default:
		return TransportError
	}
}
