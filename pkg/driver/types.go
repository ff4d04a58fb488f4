package driver

import (
	"fmt"
	"net/http"
)

// Request is the outgoing call as seen by interceptor hooks.
// Hooks may mutate Headers in place; routing fields are read-only to the driver.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    any
}

// Response is the result of a call as seen by interceptor hooks and callers.
type Response struct {
	Status  int
	Body    any
	Raw     []byte
	Headers map[string]string
	// Err is set when the response is delivered through the failure path.
	// Status is 0 when the failure happened before anything arrived.
	Err error
}

// RequestHook observes (and may mutate the headers of) every outgoing request.
type RequestHook func(req *Request)

// ResponseHook observes every incoming response, successful or failed.
type ResponseHook func(res *Response)

// Phase identifies where in the lifecycle a transport failure surfaced.
type Phase string

const (
	PhaseRequest  Phase = "request"
	PhaseResponse Phase = "response"
)

// ConfigurationError reports a driver that cannot operate because the
// HTTP client it adapts was never supplied.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "resty driver: " + e.Msg }

var errClientMissing = &ConfigurationError{Msg: "resty client must be set"}

// TransportError carries a failure surfaced by the HTTP client. The original
// error is kept intact and reachable through errors.Is / errors.As.
type TransportError struct {
	Phase    Phase
	Request  *Request
	Response *Response
	Err      error
}

func (e *TransportError) Error() string {
	target := ""
	if e.Request != nil {
		target = " " + e.Request.Method + " " + e.Request.URL
	}
	return fmt.Sprintf("%s phase%s: %v", e.Phase, target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// flattenHeaders keeps the first value of every header under its canonical key.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if len(vals) == 0 {
			continue
		}
		out[http.CanonicalHeaderKey(k)] = vals[0]
	}
	return out
}
