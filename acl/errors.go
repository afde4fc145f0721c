package acl

import (
	"fmt"
	"strings"
)

// ParseError reports a single malformed rule line. The parser keeps going
// after one, so a rule set with any error is reported in full through
// ParseErrors; compilation of the set still fails overall.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("acl: line %d: %s", e.Line, e.Msg)
}

// ParseErrors aggregates every ParseError found in one parse pass.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	parts := make([]string, len(e))
	for i, pe := range e {
		parts[i] = pe.Error()
	}
	return strings.Join(parts, "; ")
}

// CompileError reports a rule that parsed fine but failed to compile: an
// unknown outbound name or an unknown/unloadable geo reference. The parser
// also builds one, without a line, for a reversed port range and reports
// its text inside a ParseError. Line is the originating rule's line
// number, or 0 when the error is not rule-specific.
type CompileError struct {
	Line int
	Msg  string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		if e.Err != nil {
			return fmt.Sprintf("acl: line %d: %s: %v", e.Line, e.Msg, e.Err)
		}
		return fmt.Sprintf("acl: line %d: %s", e.Line, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("acl: %s: %v", e.Msg, e.Err)
	}
	return "acl: " + e.Msg
}

func (e *CompileError) Unwrap() error { return e.Err }

// GeoLoadError is returned by a GeoLoader when it cannot produce a
// matcher. The compiler wraps it in a CompileError with rule-line context.
type GeoLoadError struct {
	Kind string // "geoip" or "geosite"
	Name string
	Msg  string
	Err  error
}

func (e *GeoLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acl: failed to load %s %q: %s: %v", e.Kind, e.Name, e.Msg, e.Err)
	}
	return fmt.Sprintf("acl: failed to load %s %q: %s", e.Kind, e.Name, e.Msg)
}

func (e *GeoLoadError) Unwrap() error { return e.Err }

// InvalidConfigError reports bad Compile inputs: zero cache capacity or an
// empty outbound map. A reversed port range is reported by the parser as a
// ParseError instead.
type InvalidConfigError struct {
	Msg string
}

func (e *InvalidConfigError) Error() string { return "acl: invalid config: " + e.Msg }
