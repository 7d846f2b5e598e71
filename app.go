package tiffin

import (
	"context"
	"log/slog"

	"github.com/vitalvas/tiffin/http1"
	"github.com/vitalvas/tiffin/router"
	"github.com/vitalvas/tiffin/server"
)

// Handler converts one request into one response. It is the sole
// extension point exposed to application code.
type Handler = router.Handler

// Request and Response are re-exported so typical applications only
// import the root package.
type (
	Request  = http1.Request
	Response = http1.Response
	Method   = http1.Method
)

// Request methods, re-exported for route registration.
const (
	GET     = http1.MethodGet
	HEAD    = http1.MethodHead
	POST    = http1.MethodPost
	PUT     = http1.MethodPut
	PATCH   = http1.MethodPatch
	DELETE  = http1.MethodDelete
	OPTIONS = http1.MethodOptions
)

// App accumulates routes during a startup phase and then serves them.
// Construct it once, register every route, and call Run; registration
// after Run has started is a programming error.
type App struct {
	table *router.Table
	srv   *server.Server
}

// New returns an App with the given server configuration. The zero
// Config is usable; unset fields get defaults at startup.
func New(cfg server.Config) *App {
	table := router.NewTable()
	return &App{
		table: table,
		srv:   server.New(cfg, table),
	}
}

// AddRoute binds a pattern and method set to a handler. Pattern syntax:
//
//	/literal/<param>/<param:type>/<param:path>
//
// with parameter types str (default), int, uint, float and path. Errors
// (*router.PatternError, *router.DuplicateRouteError) are configuration
// mistakes and should abort application boot.
func (a *App) AddRoute(pattern string, methods []Method, handler Handler) error {
	return a.table.Register(pattern, methods, handler)
}

// MustAddRoute is AddRoute panicking on error, for declarative setup
// chains.
func (a *App) MustAddRoute(pattern string, methods []Method, handler Handler) *App {
	if err := a.AddRoute(pattern, methods, handler); err != nil {
		panic(err)
	}
	return a
}

// SetDefault installs a fallback handler invoked for requests matching
// no route, replacing the built-in 404 response.
func (a *App) SetDefault(handler Handler) {
	a.srv.Fallback = handler
}

// SetLogger installs a structured logger for connection and request
// logs. slog.Default() is used otherwise.
func (a *App) SetLogger(logger *slog.Logger) {
	a.srv.Logger = logger
}

// Run binds addr (Config.Addr when empty) and serves until Shutdown.
// Registration is closed off permanently when Run starts.
func (a *App) Run(addr string) error {
	return a.srv.ListenAndServe(addr)
}

// Shutdown stops accepting connections and drains in-flight ones until
// ctx expires; Run then returns.
func (a *App) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

// Addr returns the bound listen address once Run has started, or "".
// Useful when binding port 0.
func (a *App) Addr() string {
	return a.srv.Addr()
}
