package primitives

import (
	"fmt"
	"strings"
)

// Segment is one piece of a URL pattern: a literal or a named dynamic segment.
type Segment struct {
	Literal string
	Param   string
}

// IsParam reports whether the segment is dynamic.
func (s Segment) IsParam() bool { return s.Param != "" }

func (s Segment) String() string {
	if s.IsParam() {
		return ":" + s.Param
	}
	return s.Literal
}

// Pattern is a parsed route such as "/dashboard/:component_id".
// The zero value (and "/") matches zero segments.
type Pattern struct {
	Source   string
	Segments []Segment
}

// ParsePattern parses a route string. Leading, trailing and repeated slashes
// are ignored; ":name" marks a dynamic segment.
func ParsePattern(route string) (Pattern, error) {
	p := Pattern{Source: route}
	seen := map[string]bool{}
	for _, part := range SplitPath(route) {
		if !strings.HasPrefix(part, ":") {
			p.Segments = append(p.Segments, Segment{Literal: part})
			continue
		}
		name := part[1:]
		if !validName(name) {
			return Pattern{}, fmt.Errorf("route %q: invalid dynamic segment %q", route, part)
		}
		if seen[name] {
			return Pattern{}, fmt.Errorf("route %q: duplicate dynamic segment %q", route, name)
		}
		seen[name] = true
		p.Segments = append(p.Segments, Segment{Param: name})
	}
	return p, nil
}

// MustParsePattern is ParsePattern for static routes; it panics on error.
func MustParsePattern(route string) Pattern {
	p, err := ParsePattern(route)
	if err != nil {
		panic(err)
	}
	return p
}

// Empty reports whether the pattern consumes no segments.
func (p Pattern) Empty() bool { return len(p.Segments) == 0 }

// Params returns the dynamic segment names in declaration order.
func (p Pattern) Params() []string {
	var names []string
	for _, s := range p.Segments {
		if s.IsParam() {
			names = append(names, s.Param)
		}
	}
	return names
}

// Match matches the pattern against the head of segs. It returns the captured
// name/raw pairs (State left empty) and the unconsumed tail.
func (p Pattern) Match(segs []string) (Context, []string, bool) {
	if len(segs) < len(p.Segments) {
		return nil, nil, false
	}
	var captured Context
	for i, s := range p.Segments {
		if s.IsParam() {
			captured = append(captured, Param{Name: s.Param, Raw: segs[i]})
			continue
		}
		if segs[i] != s.Literal {
			return nil, nil, false
		}
	}
	return captured, segs[len(p.Segments):], true
}

func (p Pattern) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.String()
	}
	return "/" + strings.Join(parts, "/")
}

// SplitPath splits a URL path into its non-empty segments.
func SplitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// validName accepts alphanumeric names plus underscores and hyphens.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
