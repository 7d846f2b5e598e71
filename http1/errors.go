package http1

import "errors"

// Parse failures surfaced while reading a request off the wire. The
// dispatcher maps each to a 4xx response: ErrMalformed and
// ErrUnsupportedMethod to 400 Bad Request, ErrHeaderTooLarge to
// 431 Request Header Fields Too Large (RFC 6585 Section 5) and
// ErrBodyTooLarge to 413 Payload Too Large (RFC 7231 Section 6.5.11).
var (
	// ErrMalformed is returned for an invalid request line or header
	// section per RFC 7230 Section 3.
	ErrMalformed = errors.New("http1: malformed request")

	// ErrUnsupportedMethod is returned when the request line carries a
	// method token outside the recognized set.
	ErrUnsupportedMethod = errors.New("http1: unsupported method")

	// ErrHeaderTooLarge is returned when the request line plus header
	// section exceeds the configured limit.
	ErrHeaderTooLarge = errors.New("http1: request header too large")

	// ErrBodyTooLarge is returned when the declared Content-Length
	// exceeds the configured limit. The body is never read in that case.
	ErrBodyTooLarge = errors.New("http1: request body too large")
)

// IsParseError reports whether err belongs to the request parse error
// taxonomy. Anything else seen during a read is a transport failure the
// connection cannot recover from.
func IsParseError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrHeaderTooLarge) ||
		errors.Is(err, ErrBodyTooLarge)
}
