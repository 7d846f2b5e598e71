package http1

import (
	"net/textproto"
	"strings"
)

// Header maps canonicalized field names to value lists. Field names are
// case-insensitive per RFC 7230 Section 3.2; keys are normalized with
// textproto.CanonicalMIMEHeaderKey on every access.
type Header map[string][]string

// Get returns the first value associated with the given field name,
// or "" if the field is absent.
func (h Header) Get(name string) string {
	if vals := h[textproto.CanonicalMIMEHeaderKey(name)]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Values returns all values associated with the given field name in the
// order they appeared. The returned slice is not a copy.
func (h Header) Values(name string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(name)]
}

// Set replaces any existing values for the given field name.
func (h Header) Set(name, value string) {
	h[textproto.CanonicalMIMEHeaderKey(name)] = []string{value}
}

// Add appends a value to the given field name.
func (h Header) Add(name, value string) {
	key := textproto.CanonicalMIMEHeaderKey(name)
	h[key] = append(h[key], value)
}

// Del removes all values for the given field name.
func (h Header) Del(name string) {
	delete(h, textproto.CanonicalMIMEHeaderKey(name))
}

// Has reports whether the field name is present.
func (h Header) Has(name string) bool {
	_, ok := h[textproto.CanonicalMIMEHeaderKey(name)]
	return ok
}

// hasToken reports whether any value of the field contains the given
// token in its comma-separated list, compared case-insensitively.
// Used for Connection header option matching per RFC 7230 Section 6.1.
func (h Header) hasToken(name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
