// Package tiffin is a minimal web-serving framework: handler functions
// take a Request and return a Response, routes bind URL patterns and
// HTTP methods to handlers, and the built-in server parses HTTP/1.x
// requests off TCP connections and dispatches them.
//
// Wire framing follows:
//   - RFC 9112 (HTTP/1.1 message syntax, successor to RFC 7230)
//   - RFC 9110 (HTTP semantics, successor to RFC 7231)
//   - RFC 3986 (URIs)
//
// # Quick start
//
//	app := tiffin.New(server.Config{Addr: "127.0.0.1:8080"})
//
//	app.MustAddRoute("/hello", []tiffin.Method{tiffin.GET}, func(_ *tiffin.Request) *tiffin.Response {
//	    return http1.Text(200, "Hello, world!")
//	})
//
//	if err := app.Run(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Route patterns
//
// Patterns are "/"-separated sequences of literal segments and named
// parameters:
//
//	/users
//	/users/<id:int>
//	/users/<id:int>/posts/<slug>
//	/static/<file:path>
//
// Parameter types:
//
//	str   - any non-empty segment (default when no type is given)
//	int   - optionally signed decimal integer
//	uint  - unsigned decimal integer
//	float - decimal number with optional sign and fraction
//	path  - the remaining "/"-joined tail; must be the final segment
//
// Captured values are available on the request:
//
//	id, err := req.ParamInt("id")
//	file := req.Param("file")
//
// # Resolution
//
// When several patterns match one path, literal segments take
// precedence over parameter segments position by position, so
// /users/active wins over /users/<id> for a request to /users/active
// regardless of registration order. Remaining ties go to the first
// registered route. A path that matches registered patterns only for
// other methods produces 405 Method Not Allowed with an Allow header;
// a path matching nothing produces 404 Not Found (or the handler
// installed with SetDefault).
//
// # Serving
//
// Run seals the route table and blocks serving connections, one
// goroutine per connection, with keep-alive per HTTP/1.1 defaults.
// Handler panics are answered with 500 and never take down the server.
// Shutdown stops accepting and drains in-flight connections.
package tiffin
