// Package netx provides the instrumented HTTP transport used by the API
// client: request ids, per-route metrics and debug logging.
package netx

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/duemate/internal/logging"
	"github.com/dmitrijs2005/duemate/internal/metrics"
	"github.com/google/uuid"
)

// RequestIDHeader is stamped on every outgoing request that lacks one.
const RequestIDHeader = "X-Request-ID"

type routeKey struct{}

// WithRoute tags ctx with a low-cardinality route template such as
// "/api/payments/{id}". The transport uses it as the metrics label.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(routeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// Transport wraps Base. A nil Base means http.DefaultTransport; nil Metrics
// or Logger disable that concern.
type Transport struct {
	Base    http.RoundTripper
	Metrics *metrics.APIMetrics
	Logger  logging.Logger

	now func() time.Time
}

func NewTransport(base http.RoundTripper, m *metrics.APIMetrics, l logging.Logger) *Transport {
	return &Transport{Base: base, Metrics: m, Logger: l, now: time.Now}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	now := t.now
	if now == nil {
		now = time.Now
	}

	if req.Header.Get(RequestIDHeader) == "" {
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	route := routeFrom(req)
	reqID := req.Header.Get(RequestIDHeader)

	start := now()
	resp, err := base.RoundTrip(req)
	elapsed := now().Sub(start)

	if err != nil {
		t.Metrics.ObserveTransportError(route, req.Method)
		if t.Logger != nil {
			t.Logger.Warn(req.Context(), "api request failed",
				"request_id", reqID, "method", req.Method, "route", route, "error", err)
		}
		return nil, err
	}

	t.Metrics.Observe(route, req.Method, resp.StatusCode, elapsed)
	if t.Logger != nil {
		t.Logger.Debug(req.Context(), "api request",
			"request_id", reqID, "method", req.Method, "route", route,
			"status", resp.StatusCode, "elapsed", elapsed)
	}
	return resp, nil
}
