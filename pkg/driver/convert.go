package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// requestKey stores the caller's *Request on the resty request context so
// hooks mutate the same instance the caller passed to Send.
type requestKey struct{}

func withRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// requestFromResty returns the *Request a hook should see for r.
func requestFromResty(r *resty.Request) *Request {
	if r == nil {
		return &Request{Headers: map[string]string{}}
	}
	if orig, ok := r.Context().Value(requestKey{}).(*Request); ok && orig != nil {
		return orig
	}

	query := make(map[string]string, len(r.QueryParam))
	for k, vals := range r.QueryParam {
		if len(vals) > 0 {
			query[k] = vals[0]
		}
	}
	return &Request{
		Method:  r.Method,
		URL:     r.URL,
		Headers: flattenHeaders(r.Header),
		Query:   query,
		Body:    r.Body,
	}
}

// applyHeaders makes the resty request headers match the hook's view.
// Untouched multi-value headers keep all their values.
func applyHeaders(r *resty.Request, req *Request) {
	if r == nil || req == nil {
		return
	}
	want := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		want[http.CanonicalHeaderKey(k)] = v
	}
	if r.Header == nil {
		r.Header = http.Header{}
	}
	for k := range r.Header {
		if _, ok := want[http.CanonicalHeaderKey(k)]; !ok {
			r.Header.Del(k)
		}
	}
	for k, v := range want {
		if r.Header.Get(k) != v {
			r.Header.Set(k, v)
		}
	}
}

func responseFromResty(resp *resty.Response, err error) *Response {
	if resp == nil {
		return &Response{Headers: map[string]string{}, Err: err}
	}
	raw := resp.Body()
	return &Response{
		Status:  resp.StatusCode(),
		Body:    decodeBody(raw),
		Raw:     raw,
		Headers: flattenHeaders(resp.Header()),
		Err:     err,
	}
}

// decodeBody returns the decoded JSON payload of any shape, the raw text when
// the payload is not JSON, or nil when it is empty.
func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}
