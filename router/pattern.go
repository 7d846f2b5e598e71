package router

import (
	"fmt"
	"regexp"
	"strings"
)

// paramType is the value constraint a parameter segment places on the
// path segment it captures.
type paramType int

const (
	typeStr   paramType = iota // any non-empty segment (default)
	typeInt                    // optionally signed decimal integer
	typeUint                   // unsigned decimal integer
	typeFloat                  // decimal number, optional sign and fraction
	typePath                   // greedy remainder, only valid as final segment
)

var paramTypeNames = map[string]paramType{
	"str":   typeStr,
	"int":   typeInt,
	"uint":  typeUint,
	"float": typeFloat,
	"path":  typePath,
}

// typeTokens is the reverse of paramTypeNames, used for shape signatures
// and error text.
var typeTokens = map[paramType]string{
	typeStr:   "str",
	typeInt:   "int",
	typeUint:  "uint",
	typeFloat: "float",
	typePath:  "path",
}

// Per-type value validators. Compiled once; matching is segment-wise, so
// each regexp only ever sees a single segment.
var (
	paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	intValueRe  = regexp.MustCompile(`^-?[0-9]+$`)
	uintValueRe = regexp.MustCompile(`^[0-9]+$`)
	// Accepts "3", "3.14", "-.5"; rejects a bare "." or "-".
	floatValueRe = regexp.MustCompile(`^-?[0-9]*\.?[0-9]+$`)
)

// segment is one "/"-delimited unit of a compiled pattern: either a
// literal or a named parameter.
type segment struct {
	literal string // set for literal segments
	name    string // set for parameter segments
	ptype   paramType
	param   bool
}

// matches reports whether the segment accepts the given path segment.
// Literals compare exactly and case-sensitively; parameters require a
// non-empty segment that satisfies their type constraint.
func (s segment) matches(part string) bool {
	if !s.param {
		return s.literal == part
	}
	if part == "" {
		return false
	}
	switch s.ptype {
	case typeInt:
		return intValueRe.MatchString(part)
	case typeUint:
		return uintValueRe.MatchString(part)
	case typeFloat:
		return floatValueRe.MatchString(part)
	default:
		return true
	}
}

// Pattern is a compiled route pattern: an ordered sequence of literal
// and parameter segments. Patterns are immutable once compiled.
type Pattern struct {
	raw      string
	segments []segment
	greedy   bool // final segment is a path-typed parameter
}

// Compile parses a route pattern of the form
// "/literal/<param>/<param:type>/<param:path>". Parameter types are
// str (default), int, uint, float and path; a path-typed parameter
// greedily captures the remaining tail and must be the final segment.
// Compile returns a *PatternError when the pattern is malformed, reuses
// a parameter name, or places a path parameter before the end.
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, &PatternError{Pattern: pattern, Reason: "must begin with /"}
	}

	p := &Pattern{raw: pattern}
	seen := make(map[string]bool)

	for _, part := range strings.Split(pattern, "/") {
		if part == "" {
			continue
		}
		if p.greedy {
			return nil, &PatternError{Pattern: pattern, Reason: "path parameter must be the final segment"}
		}

		if !strings.HasPrefix(part, "<") {
			if strings.ContainsAny(part, "<>") {
				return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("malformed segment %q", part)}
			}
			p.segments = append(p.segments, segment{literal: part})
			continue
		}

		if !strings.HasSuffix(part, ">") {
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("malformed segment %q", part)}
		}

		name, typeName, hasType := strings.Cut(part[1:len(part)-1], ":")
		ptype := typeStr
		if hasType {
			t, ok := paramTypeNames[typeName]
			if !ok {
				return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("unknown parameter type %q", typeName)}
			}
			ptype = t
		}

		if !paramNameRe.MatchString(name) {
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("invalid parameter name %q", name)}
		}
		if seen[name] {
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("duplicate parameter name %q", name)}
		}
		seen[name] = true

		p.segments = append(p.segments, segment{name: name, ptype: ptype, param: true})
		if ptype == typePath {
			p.greedy = true
		}
	}

	return p, nil
}

// String returns the original pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// Match tests a request path against the pattern segment-wise and
// returns the captured parameters on success. One trailing slash on the
// path is tolerated; otherwise the segment counts must agree, except
// that a trailing path parameter absorbs a longer (or empty) tail.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)

	fixed := len(p.segments)
	if p.greedy {
		fixed--
	}

	if len(parts) < fixed || (!p.greedy && len(parts) != fixed) {
		return nil, false
	}

	var params map[string]string
	for i := 0; i < fixed; i++ {
		seg := p.segments[i]
		if !seg.matches(parts[i]) {
			return nil, false
		}
		if seg.param {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.name] = parts[i]
		}
	}

	if p.greedy {
		if params == nil {
			params = make(map[string]string)
		}
		params[p.segments[fixed].name] = strings.Join(parts[fixed:], "/")
	}

	return params, true
}

// shape returns a signature identifying the structural form of the
// pattern: literal text verbatim, parameters reduced to their type.
// Patterns with equal shapes match exactly the same set of paths, so
// shape equality defines duplicate registration.
func (p *Pattern) shape() string {
	var b strings.Builder
	if len(p.segments) == 0 {
		return "/"
	}
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.param {
			b.WriteByte('<')
			b.WriteString(typeTokens[seg.ptype])
			b.WriteByte('>')
		} else {
			b.WriteString(seg.literal)
		}
	}
	return b.String()
}

// rank orders segment kinds for precedence: literal segments win over
// parameter segments at the same position, and a greedy path parameter
// yields to both.
func (s segment) rank() int {
	switch {
	case !s.param:
		return 0
	case s.ptype == typePath:
		return 2
	default:
		return 1
	}
}

// moreSpecific reports whether pattern p takes precedence over q for a
// path both match: walking positions left to right, the first position
// where the segment kinds differ decides (literal beats parameter beats
// path). Equal shapes report false, leaving the tie to registration
// order.
func (p *Pattern) moreSpecific(q *Pattern) bool {
	n := len(p.segments)
	if len(q.segments) < n {
		n = len(q.segments)
	}
	for i := 0; i < n; i++ {
		pr, qr := p.segments[i].rank(), q.segments[i].rank()
		if pr != qr {
			return pr < qr
		}
	}
	return false
}

// splitPath splits a request path into segments, tolerating one
// trailing slash. The root path has zero segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path != "" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
