package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recordshop-be/internal/logger"
	"recordshop-be/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second

	tracerName   = "recordshop-be/internal/cms"
	maxBodyBytes = 8 << 20
	maxErrorBody = 512
)

type Options struct {
	BaseURL string
	Timeout time.Duration

	// Token is sent as a bearer token when non-empty.
	Token string

	// HTTPClient is copied; its Timeout is only filled in when zero.
	HTTPClient *http.Client

	// Health is shared with readers such as readiness probes. A new one is
	// created when nil.
	Health *Health

	// Metrics counts calls by outcome. A new one is created when nil.
	Metrics *metrics.Gateway

	Tracer trace.Tracer
}

// Client is the gateway to the remote content service. Its catalog methods
// never return transport errors: failures degrade to documented fallbacks
// and are recorded on Health.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	health     *Health
	metrics    *metrics.Gateway
	tracer     trace.Tracer
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var hc http.Client
	if opts.HTTPClient != nil {
		hc = *opts.HTTPClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = timeout
	}

	health := opts.Health
	if health == nil {
		health = NewHealth()
	}

	m := opts.Metrics
	if m == nil {
		m = &metrics.Gateway{}
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	if opts.BaseURL == "" {
		logger.L().Warn("CMS base URL is empty")
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: &hc,
		health:     health,
		metrics:    m,
		tracer:     tracer,
	}
}

func (c *Client) Health() *Health {
	return c.health
}

func (c *Client) Metrics() *metrics.Gateway {
	return c.metrics
}

func (c *Client) IsAvailable() bool {
	return c.health.Available()
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// request is the single transport entry point. It returns the envelope's
// data member, nil when absent or null.
func (c *Client) request(ctx context.Context, v verb, path string, q Query) (json.RawMessage, error) {
	spec := v.spec()

	ctx, span := c.tracer.Start(ctx, "cms.request", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", spec.method),
		attribute.String("cms.path", path),
	)

	target := c.baseURL + path
	var body io.Reader
	if spec.withBody {
		b, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("marshal cms params: %w", err)
		}
		body = bytes.NewReader(b)
	} else if q.Len() > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("build cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.metrics.Requests.Inc()
	timer := metrics.StartTimer()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.TransportFailures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		// a caller giving up is not evidence that the CMS is down
		if !(errors.Is(err, context.Canceled) && ctx.Err() != nil) {
			c.health.markUnavailable(err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.health.recordStatus(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		c.metrics.TransportFailures.Inc()
		c.health.markUnavailable(err)
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.metrics.StatusErrors.Inc()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(raw, maxErrorBody)}
	}

	logger.Component(ctx, "cms").Debug("cms request completed",
		zap.String("method", spec.method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", timer.Duration()),
	)

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		c.metrics.DecodeErrors.Inc()
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if isNull(env.Data) {
		return nil, nil
	}
	return env.Data, nil
}

// get runs a GET and decodes the data member into target. A nil error with
// target untouched means the CMS had no data.
func (c *Client) get(ctx context.Context, op, path string, q Query, target any) error {
	data, err := c.request(ctx, verbGet, path, q)
	if err == nil && data != nil {
		if uerr := json.Unmarshal(data, target); uerr != nil {
			c.metrics.DecodeErrors.Inc()
			err = fmt.Errorf("%w: %s: %v", ErrDecode, op, uerr)
		}
	}
	if err != nil {
		logFailure(ctx, op, path, err)
	}
	return err
}

func logFailure(ctx context.Context, op, path string, err error) {
	log := logger.Component(ctx, "cms").With(
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrTransport):
		log.Warn("cms connection failed")
	case errors.As(err, &statusErr):
		log.Warn("cms returned non-success status", zap.Int("status", statusErr.StatusCode))
	default:
		log.Warn("cms response unusable")
	}
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
