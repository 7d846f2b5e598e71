package http1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	t.Run("lookup is case-insensitive", func(t *testing.T) {
		h := make(Header)
		h.Set("content-type", "text/plain")

		assert.Equal(t, "text/plain", h.Get("Content-Type"))
		assert.Equal(t, "text/plain", h.Get("CONTENT-TYPE"))
		assert.True(t, h.Has("Content-type"))
	})

	t.Run("add accumulates values in order", func(t *testing.T) {
		h := make(Header)
		h.Add("X-Tag", "one")
		h.Add("x-tag", "two")

		assert.Equal(t, []string{"one", "two"}, h.Values("X-Tag"))
		assert.Equal(t, "one", h.Get("X-Tag"))
	})

	t.Run("set replaces values", func(t *testing.T) {
		h := make(Header)
		h.Add("X-Tag", "one")
		h.Set("X-Tag", "two")

		assert.Equal(t, []string{"two"}, h.Values("X-Tag"))
	})

	t.Run("del removes the field", func(t *testing.T) {
		h := make(Header)
		h.Set("X-Tag", "one")
		h.Del("x-tag")

		assert.False(t, h.Has("X-Tag"))
		assert.Equal(t, "", h.Get("X-Tag"))
	})

	t.Run("hasToken splits comma lists case-insensitively", func(t *testing.T) {
		h := make(Header)
		h.Set("Connection", "Keep-Alive, Upgrade")

		assert.True(t, h.hasToken("Connection", "keep-alive"))
		assert.True(t, h.hasToken("Connection", "upgrade"))
		assert.False(t, h.hasToken("Connection", "close"))
	})
}
