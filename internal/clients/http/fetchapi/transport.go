package fetchapi

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UnauthorizedHook runs whenever any call answers 401.
type UnauthorizedHook func(req *http.Request)

// NewTransport returns the shared outbound transport with tracing attached.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "fetchapi " + r.Method + " " + r.URL.Path
		}),
	)
}

// unauthorizedTransport intercepts 401 answers for every call made through the
// client so session expiry is handled in one place.
type unauthorizedTransport struct {
	next http.RoundTripper
	hook UnauthorizedHook
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.hook != nil {
		t.hook(req)
	}
	return resp, nil
}
