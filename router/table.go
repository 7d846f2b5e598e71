// Package router compiles route patterns and resolves incoming
// (method, path) pairs to registered handlers.
//
// Patterns are "/"-separated sequences of literal and parameter
// segments:
//
//	/users
//	/users/<id:int>
//	/files/<name:path>
//
// Resolution distinguishes 404 (no pattern matches the path) from 405
// (a pattern matches the path but not the method). When several
// patterns match the same path, literal segments take precedence over
// parameter segments position by position, and remaining ties go to
// registration order.
package router

import (
	"sort"
	"sync/atomic"

	"github.com/vitalvas/tiffin/http1"
)

// Handler is the application extension point: a function converting one
// request into one response. Handlers receive no other capability.
type Handler func(*http1.Request) *http1.Response

// Route is one immutable (pattern, method set, handler) binding, owned
// by the Table that registered it.
type Route struct {
	pattern *Pattern
	methods map[http1.Method]struct{}
	handler Handler
	index   int // registration order, breaks precedence ties
}

// Pattern returns the route's original pattern text.
func (r *Route) Pattern() string {
	return r.pattern.String()
}

// Methods returns the route's allowed methods, sorted.
func (r *Route) Methods() []http1.Method {
	out := make([]http1.Method, 0, len(r.methods))
	for m := range r.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// allows reports whether the route accepts the given method.
func (r *Route) allows(m http1.Method) bool {
	_, ok := r.methods[m]
	return ok
}

// Match is the outcome of a successful resolution.
type Match struct {
	Route   *Route
	Handler Handler
	Params  map[string]string
}

// Table stores registered routes and resolves requests against them.
// Registration happens during application startup; the server seals the
// table before accepting connections, after which it is read-only and
// safe for concurrent use without locking.
type Table struct {
	sealed atomic.Bool

	// byCount groups fixed-length routes by segment count so a lookup
	// only scans candidates of the right shape. Greedy routes (trailing
	// path parameter) match variable lengths and live separately.
	byCount map[int][]*Route
	greedy  []*Route

	// byShape indexes routes by structural signature for duplicate
	// detection and 405 method aggregation.
	byShape map[string][]*Route

	count int
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{
		byCount: make(map[int][]*Route),
		byShape: make(map[string][]*Route),
	}
}

// Register binds a pattern and method set to a handler. Methods are
// deduplicated. It returns a *PatternError when the pattern does not
// compile and a *DuplicateRouteError when a structurally identical
// pattern is already registered for one of the methods; registering the
// same shape for disjoint methods is additive. Register panics when
// called after the table has been sealed.
func (t *Table) Register(pattern string, methods []http1.Method, handler Handler) error {
	if t.sealed.Load() {
		panic("router: Register called after the table was sealed")
	}
	if handler == nil {
		panic("router: nil handler")
	}

	p, err := Compile(pattern)
	if err != nil {
		return err
	}

	shape := p.shape()
	set := make(map[http1.Method]struct{}, len(methods))
	for _, m := range methods {
		for _, existing := range t.byShape[shape] {
			if existing.allows(m) {
				return &DuplicateRouteError{Pattern: pattern, Method: m}
			}
		}
		set[m] = struct{}{}
	}
	if len(set) == 0 {
		return &PatternError{Pattern: pattern, Reason: "no methods given"}
	}

	route := &Route{
		pattern: p,
		methods: set,
		handler: handler,
		index:   t.count,
	}
	t.count++

	t.byShape[shape] = append(t.byShape[shape], route)
	if p.greedy {
		t.greedy = append(t.greedy, route)
	} else {
		n := len(p.segments)
		t.byCount[n] = append(t.byCount[n], route)
	}

	return nil
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return t.count
}

// Seal marks the end of the registration phase. The dispatcher calls it
// before accepting connections; the transition is one-way.
func (t *Table) Seal() {
	t.sealed.Store(true)
}

// Resolve maps a (method, path) pair to a registered handler. It
// returns ErrNotFound when no pattern structurally matches the path and
// a *MethodNotAllowedError when patterns match the path but none allows
// the method.
func (t *Table) Resolve(method http1.Method, path string) (*Match, error) {
	var (
		best       *Route
		bestParams map[string]string
		allowed    map[http1.Method]struct{}
		structural bool
	)

	consider := func(route *Route) {
		params, ok := route.pattern.Match(path)
		if !ok {
			return
		}
		structural = true

		if !route.allows(method) {
			if allowed == nil {
				allowed = make(map[http1.Method]struct{})
			}
			for m := range route.methods {
				allowed[m] = struct{}{}
			}
			return
		}

		if best == nil || route.pattern.moreSpecific(best.pattern) ||
			(!best.pattern.moreSpecific(route.pattern) && route.index < best.index) {
			best = route
			bestParams = params
		}
	}

	for _, route := range t.byCount[len(splitPath(path))] {
		consider(route)
	}
	for _, route := range t.greedy {
		consider(route)
	}

	switch {
	case best != nil:
		return &Match{Route: best, Handler: best.handler, Params: bestParams}, nil
	case structural:
		return nil, &MethodNotAllowedError{Allowed: sortedMethods(allowed)}
	default:
		return nil, ErrNotFound
	}
}

func sortedMethods(set map[http1.Method]struct{}) []http1.Method {
	out := make([]http1.Method, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
