package http1

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Default read limits applied when a Limits field is left zero.
const (
	DefaultMaxHeaderBytes = 8 << 10  // request line + header section
	DefaultMaxBodyBytes   = 10 << 20 // declared Content-Length ceiling
)

// Limits bounds how much of a request the parser is willing to buffer,
// protecting the server from unbounded memory growth.
type Limits struct {
	// MaxHeaderBytes caps the request line plus header section,
	// including line terminators. Zero means DefaultMaxHeaderBytes.
	MaxHeaderBytes int64

	// MaxBodyBytes caps the declared Content-Length. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxHeaderBytes <= 0 {
		l.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return l
}

// Request is one parsed HTTP request. It is created per request-response
// cycle, owned by a single connection, and never shared across cycles.
type Request struct {
	// Method is the validated request method token.
	Method Method

	// Path is the percent-decoded path component of the request target.
	// Decoding happens before routing, so an encoded slash (%2F)
	// separates segments exactly like a literal one.
	Path string

	// RawQuery is the query component as received, without the "?".
	RawQuery string

	// Proto is the protocol version from the request line,
	// "HTTP/1.0" or "HTTP/1.1".
	Proto string

	// Header holds the request header fields.
	Header Header

	// Body is the request body, sized exactly by Content-Length.
	// Empty when no Content-Length field was present.
	Body []byte

	// Params holds the route parameters extracted by the router after
	// resolution. Nil until the request has been resolved.
	Params map[string]string

	query map[string][]string
}

// Param returns the route parameter captured under the given name,
// or "" when the route declares no such parameter.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// ParamInt returns the route parameter converted to an int. Routes
// declaring the parameter as <name:int> guarantee the conversion
// succeeds for matched requests.
func (r *Request) ParamInt(name string) (int, error) {
	return strconv.Atoi(r.Params[name])
}

// Query returns the first value for the given query key, or "".
func (r *Request) Query(key string) string {
	if vals := r.query[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// QueryValues returns all values for the given query key in order of
// appearance. Repeated keys accumulate rather than overwrite.
func (r *Request) QueryValues(key string) []string {
	return r.query[key]
}

// KeepAlive reports whether the client requested persistent-connection
// semantics: the HTTP/1.1 default unless "Connection: close" is present,
// and opt-in via "Connection: keep-alive" for HTTP/1.0
// (RFC 7230 Section 6.3).
func (r *Request) KeepAlive() bool {
	if r.Header.hasToken("Connection", "close") {
		return false
	}
	if r.Proto == "HTTP/1.0" {
		return r.Header.hasToken("Connection", "keep-alive")
	}
	return true
}

// ReadRequest reads and parses a single request from br. It returns a
// parse error from the taxonomy in errors.go for protocol violations,
// or the underlying transport error when the connection failed mid-read
// (in which case no response can be produced).
func ReadRequest(br *bufio.Reader, limits Limits) (*Request, error) {
	limits = limits.withDefaults()
	remaining := limits.MaxHeaderBytes

	line, err := readHeaderLine(br, &remaining)
	if err != nil {
		return nil, err
	}

	method, target, proto, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method: method,
		Proto:  proto,
		Header: make(Header),
	}

	if err := req.parseTarget(target); err != nil {
		return nil, err
	}

	// Header section per RFC 7230 Section 3.2, terminated by an empty line.
	for {
		line, err := readHeaderLine(br, &remaining)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("%w: bad header field %q", ErrMalformed, line)
		}
		req.Header.Add(name, strings.Trim(value, " \t"))
	}

	if err := req.readBody(br, limits); err != nil {
		return nil, err
	}

	return req, nil
}

// readHeaderLine reads one CRLF-terminated line, charging the remaining
// header budget chunk by chunk so a line without a terminator can never
// buffer more than the budget plus one bufio fill. A bare LF terminator
// is accepted for robustness (RFC 7230 Section 3.5).
func readHeaderLine(br *bufio.Reader, remaining *int64) (string, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		*remaining -= int64(len(chunk))
		if *remaining < 0 {
			return "", ErrHeaderTooLarge
		}
		line = append(line, chunk...)

		if err == nil {
			break
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		// Transport failure before the line finished; not a parse error.
		return "", err
	}

	s := strings.TrimSuffix(string(line), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// parseRequestLine splits "METHOD SP request-target SP HTTP-version"
// per RFC 7230 Section 3.1.1.
func parseRequestLine(line string) (Method, string, string, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: request line %q", ErrMalformed, line)
	}

	method, err := ParseMethod(parts[0])
	if err != nil {
		return "", "", "", err
	}

	proto := parts[2]
	if proto != "HTTP/1.0" && proto != "HTTP/1.1" {
		return "", "", "", fmt.Errorf("%w: unsupported protocol %q", ErrMalformed, proto)
	}

	return method, parts[1], proto, nil
}

// parseTarget splits the request target into path and query and
// percent-decodes the path (RFC 3986 Sections 3.3 and 3.4).
func (r *Request) parseTarget(target string) error {
	if !strings.HasPrefix(target, "/") {
		return fmt.Errorf("%w: request target %q", ErrMalformed, target)
	}

	rawPath, rawQuery, _ := strings.Cut(target, "?")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	r.Path = path
	r.RawQuery = rawQuery
	r.query = parseQuery(rawQuery)
	return nil
}

// parseQuery decodes an application/x-www-form-urlencoded query string
// into a multi-value map. Pairs that fail percent-decoding are dropped
// rather than failing the whole request.
func parseQuery(raw string) map[string][]string {
	if raw == "" {
		return nil
	}

	query := make(map[string][]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		query[key] = append(query[key], value)
	}
	return query
}

// readBody reads exactly Content-Length bytes. A request without a
// Content-Length field yields an empty body regardless of method, so the
// parser never stalls waiting for bytes the client will not send.
// Transfer-Encoding is not supported (no chunked framing).
func (r *Request) readBody(br *bufio.Reader, limits Limits) error {
	if r.Header.Has("Transfer-Encoding") {
		return fmt.Errorf("%w: transfer codings not supported", ErrMalformed)
	}

	cl := r.Header.Get("Content-Length")
	if cl == "" {
		return nil
	}

	length, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || length < 0 {
		return fmt.Errorf("%w: content-length %q", ErrMalformed, cl)
	}
	if length > limits.MaxBodyBytes {
		return fmt.Errorf("%w: declared %d bytes, limit %d", ErrBodyTooLarge, length, limits.MaxBodyBytes)
	}
	if length == 0 {
		return nil
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		// The declared body never arrived in full; transport failure.
		return err
	}

	r.Body = body
	return nil
}
