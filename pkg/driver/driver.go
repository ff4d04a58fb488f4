package driver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Driver adapts the auth request/response lifecycle contract to resty's
// middleware and hook API. The resty client is injected explicitly; the
// driver holds no other state.
type Driver struct {
	client *resty.Client
	log    Logger
}

// New creates a Driver bound to client. A nil client is accepted so that
// Init can report the misconfiguration to the caller.
func New(client *resty.Client, log Logger) *Driver {
	return &Driver{client: client, log: ensureLogger(log)}
}

// Init reports whether the driver has a client to work with.
func (d *Driver) Init() error {
	if d == nil || d.client == nil {
		return errClientMissing
	}
	return nil
}

// RegisterInterceptors installs onRequest and onResponse on the client for
// its whole lifetime. Hooks only observe: results and errors flow through
// unchanged. Calling it twice installs the hooks twice.
func (d *Driver) RegisterInterceptors(onRequest RequestHook, onResponse ResponseHook) error {
	if err := d.Init(); err != nil {
		return err
	}
	if onRequest == nil {
		onRequest = func(*Request) {}
	}
	if onResponse == nil {
		onResponse = func(*Response) {}
	}

	d.client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		req := requestFromResty(r)
		onRequest(req)
		applyHeaders(r, req)
		return nil
	})

	d.client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		onResponse(responseFromResty(resp, nil))
		return nil
	})

	d.client.OnError(func(r *resty.Request, err error) {
		var respErr *resty.ResponseError
		if errors.As(err, &respErr) {
			onResponse(responseFromResty(respErr.Response, respErr.Err))
			return
		}
		onRequest(requestFromResty(r))
	})

	d.log.DebugObj("interceptors registered", "driver", map[string]any{
		"request_hook":  true,
		"response_hook": true,
	})
	return nil
}

// IsAuthenticationExpired reports whether the server rejected the token.
func (d *Driver) IsAuthenticationExpired(res *Response) bool {
	return res != nil && res.Status == http.StatusUnauthorized
}

// ExtractBody returns the decoded response payload (object, array, scalar or
// raw text) or an empty map when there is none.
func (d *Driver) ExtractBody(res *Response) any {
	if res == nil || res.Body == nil {
		return map[string]any{}
	}
	return res.Body
}

// Send executes req through the client. Hooks registered on the client fire
// around the call and see req itself. Failures come back as *TransportError
// wrapping the client's original error, plus the partial response if any.
func (d *Driver) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := d.Init(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = resty.MethodGet
	}

	r := d.client.R().SetContext(withRequest(ctx, req))
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		terr := &TransportError{Phase: PhaseRequest, Request: req, Err: err}
		if resp != nil {
			terr.Phase = PhaseResponse
			terr.Response = responseFromResty(resp, err)
		}
		d.log.DebugObj("request failed", "driver_error", map[string]any{
			"method": method,
			"url":    req.URL,
			"phase":  string(terr.Phase),
			"error":  err.Error(),
		})
		return terr.Response, terr
	}
	return responseFromResty(resp, nil), nil
}

// ReadHeaders returns the response headers as received.
func (d *Driver) ReadHeaders(res *Response) map[string]string {
	if res == nil {
		return nil
	}
	return res.Headers
}

// WriteHeaders merges headers into req.Headers, overwriting existing keys.
// Keys compare case-insensitively, so an incoming key replaces any existing
// spelling of the same header. The merged map is a fresh value; the previous
// map is left untouched.
func (d *Driver) WriteHeaders(req *Request, headers map[string]string) {
	if req == nil {
		return
	}
	incoming := make(map[string]struct{}, len(headers))
	for k := range headers {
		incoming[http.CanonicalHeaderKey(k)] = struct{}{}
	}
	merged := make(map[string]string, len(req.Headers)+len(headers))
	for k, v := range req.Headers {
		if _, replaced := incoming[http.CanonicalHeaderKey(k)]; replaced {
			continue
		}
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	req.Headers = merged
}
