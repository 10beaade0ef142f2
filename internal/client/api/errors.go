package api

import "fmt"

// TransportError wraps failures to reach the backend or to read its reply
// (DNS, TCP, TLS, timeouts, malformed bodies). The pipeline never retries
// these automatically; retry is a user action.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BusinessError is a non-success envelope from the backend: the request
// arrived, the backend refused it. Code is the backend's machine-readable
// code (e.g. "INVALID_CREDENTIALS"); Message carries the backend-provided
// text when available.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (%s)", e.Code)
	}
	return fmt.Sprintf("backend error (%s): %s", e.Code, e.Message)
}
