package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitalvas/tiffin/http1"
)

// ErrNotFound is returned by Resolve when no registered pattern
// structurally matches the request path for any method. The dispatcher
// answers 404 Not Found per RFC 7231 Section 6.5.4.
var ErrNotFound = errors.New("router: no matching route was found")

// PatternError reports a route pattern that cannot be compiled. It is a
// configuration error, fatal at application startup.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("router: invalid pattern %q: %s", e.Pattern, e.Reason)
}

// DuplicateRouteError reports registration of a pattern that is
// structurally identical to an existing route for an overlapping
// method. It is a configuration error, fatal at application startup.
type DuplicateRouteError struct {
	Pattern string
	Method  http1.Method
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("router: duplicate route %s %s", e.Method, e.Pattern)
}

// MethodNotAllowedError is returned by Resolve when a pattern matches
// the request path but none does for the request method. Allowed lists
// every method permitted on the path, sorted, for the Allow header
// required by RFC 7231 Section 6.5.5 on 405 responses.
type MethodNotAllowedError struct {
	Allowed []http1.Method
}

func (e *MethodNotAllowedError) Error() string {
	return "router: method is not allowed, allowed: " + joinMethods(e.Allowed)
}

// AllowHeader renders the allowed method set as an Allow header value.
func (e *MethodNotAllowedError) AllowHeader() string {
	return joinMethods(e.Allowed)
}

func joinMethods(methods []http1.Method) string {
	tokens := make([]string, len(methods))
	for i, m := range methods {
		tokens[i] = m.String()
	}
	return strings.Join(tokens, ", ")
}
