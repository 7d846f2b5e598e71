package http1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseDefaults(t *testing.T) {
	res := NewResponse()

	assert.Equal(t, 200, res.Status())
	assert.Zero(t, res.BodyLen())
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", string(res.Bytes()))
}

func TestResponseSerialize(t *testing.T) {
	t.Run("status line, headers, blank line, body in order", func(t *testing.T) {
		res := NewResponse()
		res.SetStatus(404)
		res.SetContentType("text/plain")
		res.AppendString("not found")

		wire := string(res.Bytes())
		assert.True(t, strings.HasPrefix(wire, "HTTP/1.1 404 Not Found\r\n"))
		assert.Contains(t, wire, "Content-Length: 9\r\n")
		assert.Contains(t, wire, "Content-Type: text/plain\r\n")
		assert.True(t, strings.HasSuffix(wire, "\r\n\r\nnot found"))
	})

	t.Run("is deterministic and idempotent", func(t *testing.T) {
		res := NewResponse()
		res.SetHeader("B-Header", "2")
		res.SetHeader("A-Header", "1")
		res.SetHeader("C-Header", "3")
		res.AppendString("body")

		first := res.Bytes()
		second := res.Bytes()
		assert.Equal(t, first, second)

		// Sorted header order keeps the bytes stable across map iteration.
		wire := string(first)
		assert.Less(t, strings.Index(wire, "A-Header"), strings.Index(wire, "B-Header"))
		assert.Less(t, strings.Index(wire, "B-Header"), strings.Index(wire, "C-Header"))
	})

	t.Run("computed content-length tracks the body", func(t *testing.T) {
		res := NewResponse()
		res.Append([]byte("one"))
		res.AppendString(" two")

		assert.Contains(t, string(res.Bytes()), "Content-Length: 7\r\n")
	})

	t.Run("explicit content-length wins", func(t *testing.T) {
		res := NewResponse()
		res.SetHeader("Content-Length", "99")
		res.AppendString("short")

		wire := string(res.Bytes())
		assert.Contains(t, wire, "Content-Length: 99\r\n")
		assert.Equal(t, 1, strings.Count(wire, "Content-Length"))
	})

	t.Run("repeated header values are all emitted", func(t *testing.T) {
		res := NewResponse()
		res.AddHeader("Set-Cookie", "a=1")
		res.AddHeader("Set-Cookie", "b=2")

		wire := string(res.Bytes())
		assert.Contains(t, wire, "Set-Cookie: a=1\r\n")
		assert.Contains(t, wire, "Set-Cookie: b=2\r\n")
	})

	t.Run("unknown status code still serializes", func(t *testing.T) {
		res := NewResponse()
		res.SetStatus(599)

		assert.True(t, strings.HasPrefix(string(res.Bytes()), "HTTP/1.1 599 Unknown\r\n"))
	})

	t.Run("head serialization keeps content-length, drops body", func(t *testing.T) {
		res := NewResponse()
		res.AppendString("payload")

		wire := string(res.HeadBytes())
		assert.Contains(t, wire, "Content-Length: 7\r\n")
		assert.True(t, strings.HasSuffix(wire, "\r\n\r\n"))
	})
}

func TestResponseHelpers(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		res := Text(201, "created")

		assert.Equal(t, 201, res.Status())
		assert.Equal(t, "text/plain; charset=utf-8", res.Header().Get("Content-Type"))
		assert.True(t, strings.HasSuffix(string(res.Bytes()), "created"))
	})

	t.Run("JSON", func(t *testing.T) {
		res := JSON(200, map[string]int{"n": 5})

		assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
		assert.True(t, strings.HasSuffix(string(res.Bytes()), `{"n":5}`))
	})

	t.Run("JSON encoding failure becomes 500", func(t *testing.T) {
		res := JSON(200, func() {})

		assert.Equal(t, 500, res.Status())
	})

	t.Run("Error", func(t *testing.T) {
		res := Error(404, "/missing")

		require.Equal(t, 404, res.Status())
		body := string(res.Bytes())
		assert.Contains(t, body, "404 Not Found")
		assert.Contains(t, body, "/missing")
	})
}
