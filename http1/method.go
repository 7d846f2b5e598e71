package http1

import "fmt"

// Method is an HTTP request method token per RFC 7231 Section 4
// and RFC 5789 (PATCH).
type Method string

// Supported request methods.
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// methods holds every recognized method token. Method tokens are
// case-sensitive per RFC 7231 Section 4.1.
var methods = map[Method]struct{}{
	MethodGet:     {},
	MethodHead:    {},
	MethodPost:    {},
	MethodPut:     {},
	MethodPatch:   {},
	MethodDelete:  {},
	MethodConnect: {},
	MethodOptions: {},
	MethodTrace:   {},
}

// ParseMethod validates a method token read off the wire. It returns
// ErrUnsupportedMethod (wrapped with the offending token) for anything
// outside the recognized set.
func ParseMethod(token string) (Method, error) {
	m := Method(token)
	if _, ok := methods[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, token)
	}
	return m, nil
}

// String returns the method token.
func (m Method) String() string {
	return string(m)
}
