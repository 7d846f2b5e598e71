package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/tiffin/http1"
)

func named(name string) Handler {
	return func(*http1.Request) *http1.Response {
		res := http1.NewResponse()
		res.SetHeader("X-Handler", name)
		return res
	}
}

func handlerName(t *testing.T, m *Match) string {
	t.Helper()
	require.NotNil(t, m.Handler)
	return m.Handler(&http1.Request{}).Header().Get("X-Handler")
}

func TestTableRegister(t *testing.T) {
	t.Run("propagates pattern errors", func(t *testing.T) {
		tbl := NewTable()
		err := tbl.Register("/x/<f:path>/y", []http1.Method{http1.MethodGet}, named("a"))

		var perr *PatternError
		assert.ErrorAs(t, err, &perr)
		assert.Zero(t, tbl.Len())
	})

	t.Run("rejects a repeated (shape, method) pair", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/<id:int>", []http1.Method{http1.MethodGet}, named("a")))

		err := tbl.Register("/users/<uid:int>", []http1.Method{http1.MethodGet, http1.MethodPost}, named("b"))
		var derr *DuplicateRouteError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, http1.MethodGet, derr.Method)
	})

	t.Run("same shape for disjoint methods is additive", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/<id>", []http1.Method{http1.MethodGet}, named("get")))
		require.NoError(t, tbl.Register("/users/<id>", []http1.Method{http1.MethodPost}, named("post")))

		m, err := tbl.Resolve(http1.MethodPost, "/users/5")
		require.NoError(t, err)
		assert.Equal(t, "post", handlerName(t, m))
	})

	t.Run("deduplicates methods within one call", func(t *testing.T) {
		tbl := NewTable()
		err := tbl.Register("/x", []http1.Method{http1.MethodGet, http1.MethodGet}, named("a"))
		require.NoError(t, err)
		assert.Equal(t, []http1.Method{http1.MethodGet}, mustRoute(t, tbl, "/x").Methods())
	})

	t.Run("rejects an empty method set", func(t *testing.T) {
		tbl := NewTable()
		err := tbl.Register("/x", nil, named("a"))
		var perr *PatternError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("panics after seal", func(t *testing.T) {
		tbl := NewTable()
		tbl.Seal()

		assert.Panics(t, func() {
			tbl.Register("/x", []http1.Method{http1.MethodGet}, named("a")) //nolint:errcheck
		})
	})

	t.Run("panics on nil handler", func(t *testing.T) {
		tbl := NewTable()
		assert.Panics(t, func() {
			tbl.Register("/x", []http1.Method{http1.MethodGet}, nil) //nolint:errcheck
		})
	})
}

func mustRoute(t *testing.T, tbl *Table, path string) *Route {
	t.Helper()
	m, err := tbl.Resolve(http1.MethodGet, path)
	require.NoError(t, err)
	return m.Route
}

func TestTableResolve(t *testing.T) {
	t.Run("returns handler and extracted params for every allowed method", func(t *testing.T) {
		tbl := NewTable()
		methods := []http1.Method{http1.MethodGet, http1.MethodPut}
		require.NoError(t, tbl.Register("/users/<id:int>", methods, named("users")))

		for _, method := range methods {
			m, err := tbl.Resolve(method, "/users/42")
			require.NoError(t, err, method)
			assert.Equal(t, "users", handlerName(t, m))
			assert.Equal(t, map[string]string{"id": "42"}, m.Params)
		}
	})

	t.Run("not found when nothing matches structurally", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users", []http1.Method{http1.MethodGet}, named("a")))

		_, err := tbl.Resolve(http1.MethodGet, "/posts")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("method not allowed lists the allowed set", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users", []http1.Method{http1.MethodGet, http1.MethodPost}, named("a")))

		_, err := tbl.Resolve(http1.MethodDelete, "/users")
		var mna *MethodNotAllowedError
		require.ErrorAs(t, err, &mna)
		assert.Equal(t, []http1.Method{http1.MethodGet, http1.MethodPost}, mna.Allowed)
		assert.Equal(t, "GET, POST", mna.AllowHeader())
	})

	t.Run("method not allowed aggregates across shapes", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/<id>", []http1.Method{http1.MethodGet}, named("a")))
		require.NoError(t, tbl.Register("/users/<id:int>", []http1.Method{http1.MethodPut}, named("b")))

		_, err := tbl.Resolve(http1.MethodDelete, "/users/5")
		var mna *MethodNotAllowedError
		require.ErrorAs(t, err, &mna)
		assert.Equal(t, []http1.Method{http1.MethodGet, http1.MethodPut}, mna.Allowed)
	})

	t.Run("another matching pattern rescues the method", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/active", []http1.Method{http1.MethodGet}, named("lit")))
		require.NoError(t, tbl.Register("/users/<id>", []http1.Method{http1.MethodPost}, named("param")))

		m, err := tbl.Resolve(http1.MethodPost, "/users/active")
		require.NoError(t, err)
		assert.Equal(t, "param", handlerName(t, m))
	})

	t.Run("literal wins over parameter regardless of registration order", func(t *testing.T) {
		get := []http1.Method{http1.MethodGet}

		paramFirst := NewTable()
		require.NoError(t, paramFirst.Register("/users/<id>", get, named("param")))
		require.NoError(t, paramFirst.Register("/users/active", get, named("lit")))

		litFirst := NewTable()
		require.NoError(t, litFirst.Register("/users/active", get, named("lit")))
		require.NoError(t, litFirst.Register("/users/<id>", get, named("param")))

		for _, tbl := range []*Table{paramFirst, litFirst} {
			m, err := tbl.Resolve(http1.MethodGet, "/users/active")
			require.NoError(t, err)
			assert.Equal(t, "lit", handlerName(t, m))

			m, err = tbl.Resolve(http1.MethodGet, "/users/5")
			require.NoError(t, err)
			assert.Equal(t, "param", handlerName(t, m))
		}
	})

	t.Run("fixed-length route wins over greedy route", func(t *testing.T) {
		get := []http1.Method{http1.MethodGet}
		tbl := NewTable()
		require.NoError(t, tbl.Register("/files/<rest:path>", get, named("greedy")))
		require.NoError(t, tbl.Register("/files/<name>", get, named("fixed")))

		m, err := tbl.Resolve(http1.MethodGet, "/files/report.txt")
		require.NoError(t, err)
		assert.Equal(t, "fixed", handlerName(t, m))

		m, err = tbl.Resolve(http1.MethodGet, "/files/a/b/c")
		require.NoError(t, err)
		assert.Equal(t, "greedy", handlerName(t, m))
	})

	t.Run("ties resolve to the first registered route", func(t *testing.T) {
		get := []http1.Method{http1.MethodGet}
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/<id:int>", get, named("first")))
		require.NoError(t, tbl.Register("/users/<name>", get, named("second")))

		// "5" satisfies both int and str; registration order decides.
		m, err := tbl.Resolve(http1.MethodGet, "/users/5")
		require.NoError(t, err)
		assert.Equal(t, "first", handlerName(t, m))
	})

	t.Run("trailing slash resolves like the bare path", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/users/<id>", []http1.Method{http1.MethodGet}, named("a")))

		m, err := tbl.Resolve(http1.MethodGet, "/users/5/")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"id": "5"}, m.Params)
	})

	t.Run("root route", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Register("/", []http1.Method{http1.MethodGet}, named("root")))

		m, err := tbl.Resolve(http1.MethodGet, "/")
		require.NoError(t, err)
		assert.Equal(t, "root", handlerName(t, m))
	})
}
