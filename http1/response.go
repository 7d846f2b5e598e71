package http1

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

// Response accumulates a status code, header fields and a body, and
// serializes them into HTTP/1.1 wire form. A handler builds and returns
// one Response per request; once returned to the dispatcher it is
// treated as immutable.
type Response struct {
	status int
	header Header
	body   bytes.Buffer
}

// NewResponse returns an empty response with status 200 OK.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(Header),
	}
}

// SetStatus sets the response status code.
func (r *Response) SetStatus(code int) {
	r.status = code
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// SetHeader sets a header field, replacing any existing values.
func (r *Response) SetHeader(name, value string) {
	r.header.Set(name, value)
}

// AddHeader appends a header field value, keeping existing ones.
func (r *Response) AddHeader(name, value string) {
	r.header.Add(name, value)
}

// Header returns the response header fields for inspection.
func (r *Response) Header() Header {
	return r.header
}

// SetContentType sets the Content-Type header field.
func (r *Response) SetContentType(mime string) {
	r.header.Set("Content-Type", mime)
}

// Append extends the response body.
func (r *Response) Append(p []byte) {
	r.body.Write(p)
}

// AppendString extends the response body with a string.
func (r *Response) AppendString(s string) {
	r.body.WriteString(s)
}

// BodyLen returns the current body length in bytes.
func (r *Response) BodyLen() int {
	return r.body.Len()
}

// Bytes serializes the response: status line, header fields, empty line,
// body (RFC 7230 Section 3). A Content-Length field is computed from the
// body unless the application set Content-Length or Transfer-Encoding
// itself. Header fields are emitted in sorted order, so serialization is
// deterministic, idempotent and free of side effects.
func (r *Response) Bytes() []byte {
	return r.serialize(true)
}

// HeadBytes serializes the response without the body, for answering
// HEAD requests (RFC 7231 Section 4.3.2). The computed Content-Length
// still reflects the full body.
func (r *Response) HeadBytes() []byte {
	return r.serialize(false)
}

func (r *Response) serialize(withBody bool) []byte {
	var out bytes.Buffer

	reason := http.StatusText(r.status)
	if reason == "" {
		reason = "Unknown"
	}
	fmt.Fprintf(&out, "HTTP/1.1 %d %s\r\n", r.status, reason)

	names := make([]string, 0, len(r.header)+1)
	for name := range r.header {
		names = append(names, name)
	}
	if !r.header.Has("Content-Length") && !r.header.Has("Transfer-Encoding") {
		names = append(names, "Content-Length")
	}
	sort.Strings(names)

	for _, name := range names {
		values := r.header[name]
		if len(values) == 0 && name == "Content-Length" {
			values = []string{strconv.Itoa(r.body.Len())}
		}
		for _, value := range values {
			fmt.Fprintf(&out, "%s: %s\r\n", name, value)
		}
	}

	out.WriteString("\r\n")
	if withBody {
		out.Write(r.body.Bytes())
	}
	return out.Bytes()
}
