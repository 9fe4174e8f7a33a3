package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

const maxErrorBodyBytes = 64 << 10

type errorBodyKey struct{}

// ErrorBody holds the raw body of a non-2xx response seen by a client built
// with WrapClient.
type ErrorBody struct {
	body []byte
}

func (e *ErrorBody) String() string {
	if e == nil {
		return ""
	}
	return string(e.body)
}

// CaptureErrorBody returns a context whose requests record non-2xx bodies
// into the returned ErrorBody.
func CaptureErrorBody(ctx context.Context) (context.Context, *ErrorBody) {
	eb := &ErrorBody{}
	return context.WithValue(ctx, errorBodyKey{}, eb), eb
}

type errorBodyTransport struct {
	next http.RoundTripper
}

// WrapClient returns a copy of hc whose transport keeps a copy of non-2xx
// response bodies. The body seen by the caller is left intact.
func WrapClient(hc *http.Client) *http.Client {
	if hc == nil {
		hc = &http.Client{}
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	wrapped := *hc
	wrapped.Transport = &errorBodyTransport{next: next}
	return &wrapped
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode/100 == 2 {
		return resp, err
	}

	eb, ok := req.Context().Value(errorBodyKey{}).(*ErrorBody)
	if !ok {
		return resp, nil
	}

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if readErr != nil {
		return resp, nil
	}

	eb.body = data
	return resp, nil
}
