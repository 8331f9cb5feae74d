// Package pattern implements path pattern parsing, matching, parameter
// extraction, and inverse path construction for navlink routes.
//
// A pattern is a `/`-delimited template. Segments are either static text
// (matched case-insensitively), a required parameter (`:name`), an optional
// trailing parameter (`:name?`), or a terminal wildcard (`*`) that absorbs
// all remaining path segments. The bare patterns `*` and `/*` match any
// path and bind it whole to the parameter "path".
//
// Matching is pure and stateless; a Pattern value carries no mutable state
// and is safe for concurrent use.
package pattern

import (
	"strings"

	"github.com/vyrodovalexey/navlink/internal/util"
)

// Specificity weights per segment kind. Static segments dominate parameters,
// parameters dominate wildcards; the registry breaks remaining ties lexically.
const (
	specificityStatic   = 100
	specificityRequired = 10
	specificityOptional = 5
	specificityWildcard = 1
)

// WildcardParam is the parameter name bound by a terminal wildcard segment.
const WildcardParam = "*"

// PathParam is the parameter name bound by a bare wildcard pattern.
const PathParam = "path"

type segmentKind int

const (
	segStatic segmentKind = iota
	segRequired
	segOptional
	segWildcard
)

type segment struct {
	kind segmentKind
	// text holds the literal for static segments, the parameter name for
	// required/optional segments, and is empty for wildcards.
	text string
}

// Pattern is a parsed route template.
type Pattern struct {
	raw      string
	segments []segment
	bare     bool
}

// Parse parses and validates a raw pattern string.
func Parse(raw string) (Pattern, error) {
	if raw == "*" || raw == "/*" {
		return Pattern{raw: raw, bare: true}, nil
	}

	if !strings.HasPrefix(raw, "/") {
		return Pattern{}, util.NewPatternError(raw, "pattern must start with /")
	}

	parts := splitSegments(raw)
	segments := make([]segment, 0, len(parts))

	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return Pattern{}, util.NewPatternError(raw, "wildcard must be the last segment")
			}
			segments = append(segments, segment{kind: segWildcard})

		case strings.HasPrefix(part, ":"):
			name := part[1:]
			kind := segRequired
			if strings.HasSuffix(name, "?") {
				name = name[:len(name)-1]
				kind = segOptional
			}
			if !validIdentifier(name) {
				return Pattern{}, util.NewPatternError(raw, "invalid parameter name "+quote(name))
			}
			segments = append(segments, segment{kind: kind, text: name})

		default:
			segments = append(segments, segment{kind: segStatic, text: part})
		}
	}

	return Pattern{raw: raw, segments: segments}, nil
}

// MustParse parses a pattern and panics on syntax errors. Intended for
// compile-time-constant patterns in route tables.
func MustParse(raw string) Pattern {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether a raw pattern string is syntactically valid.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// Match reports whether the pattern matches the path. Malformed patterns
// never match; syntax checking is a separate, explicit concern (Valid).
func Match(rawPattern, path string) bool {
	p, err := Parse(rawPattern)
	if err != nil {
		return false
	}
	return p.Match(path)
}

// Extract matches a raw pattern against a path and returns the extracted
// parameters. Malformed patterns yield no match.
func Extract(rawPattern, path string) (Params, bool) {
	p, err := Parse(rawPattern)
	if err != nil {
		return nil, false
	}
	return p.Extract(path)
}

// Raw returns the original pattern string.
func (p Pattern) Raw() string {
	return p.raw
}

// SegmentCount returns the number of pattern segments. The bare wildcard
// counts as one.
func (p Pattern) SegmentCount() int {
	if p.bare {
		return 1
	}
	return len(p.segments)
}

// HasWildcard reports whether the pattern ends in a wildcard segment.
func (p Pattern) HasWildcard() bool {
	if p.bare {
		return true
	}
	return len(p.segments) > 0 && p.segments[len(p.segments)-1].kind == segWildcard
}

// Match reports whether Extract would succeed for the path.
func (p Pattern) Match(path string) bool {
	_, ok := p.Extract(path)
	return ok
}

// Extract matches the pattern against a concrete path and returns the bound
// parameters. Absent optional parameters produce no map entry. Returns false
// when the path does not match.
func (p Pattern) Extract(path string) (Params, bool) {
	if p.bare {
		return Params{PathParam: StringValue(path)}, true
	}

	parts := splitSegments(path)
	params := make(Params)
	pos := 0

	for _, seg := range p.segments {
		switch seg.kind {
		case segWildcard:
			params[WildcardParam] = StringValue(strings.Join(parts[pos:], "/"))
			return params, true

		case segOptional:
			if pos < len(parts) {
				params[seg.text] = Infer(parts[pos])
				pos++
			}

		case segRequired:
			if pos >= len(parts) {
				return nil, false
			}
			params[seg.text] = Infer(parts[pos])
			pos++

		case segStatic:
			if pos >= len(parts) || !strings.EqualFold(parts[pos], seg.text) {
				return nil, false
			}
			pos++
		}
	}

	// Leftover path segments with no wildcard to absorb them are a
	// non-match, not a partial match.
	if pos != len(parts) {
		return nil, false
	}

	return params, true
}

// Build constructs a concrete path from the pattern and a parameter map,
// the inverse of Extract. A missing required parameter fails with
// MissingParameterError; a missing optional parameter drops its segment.
func (p Pattern) Build(params Params) (string, error) {
	if p.bare {
		if v, ok := params[PathParam]; ok {
			return ensureLeadingSlash(v.String()), nil
		}
		return "", util.NewMissingParameterError(p.raw, PathParam)
	}

	out := make([]string, 0, len(p.segments))

	for _, seg := range p.segments {
		switch seg.kind {
		case segStatic:
			out = append(out, seg.text)

		case segRequired:
			v, ok := params[seg.text]
			if !ok {
				return "", util.NewMissingParameterError(p.raw, seg.text)
			}
			out = append(out, v.String())

		case segOptional:
			if v, ok := params[seg.text]; ok {
				out = append(out, v.String())
			}

		case segWildcard:
			if v, ok := params[WildcardParam]; ok && v.String() != "" {
				out = append(out, splitSegments(v.String())...)
			}
		}
	}

	return "/" + strings.Join(out, "/"), nil
}

// Specificity scores how static the pattern is. Used by the registry to
// break priority ties during resolution; it carries no other meaning.
func (p Pattern) Specificity() int {
	if p.bare {
		return specificityWildcard
	}

	score := 0
	for _, seg := range p.segments {
		switch seg.kind {
		case segStatic:
			score += specificityStatic
		case segRequired:
			score += specificityRequired
		case segOptional:
			score += specificityOptional
		case segWildcard:
			score += specificityWildcard
		}
	}
	return score
}

// ParamNames returns the declared parameter names in segment order,
// including "*" for a terminal wildcard.
func (p Pattern) ParamNames() []string {
	if p.bare {
		return []string{PathParam}
	}

	names := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		switch seg.kind {
		case segRequired, segOptional:
			names = append(names, seg.text)
		case segWildcard:
			names = append(names, WildcardParam)
		}
	}
	return names
}

// Overlaps reports whether two patterns could match an overlapping set of
// concrete paths: equal segment count with every position either the same
// static text or a parameter on at least one side. This is a conservative
// heuristic; wildcard patterns shadowing shorter patterns are not detected.
func (p Pattern) Overlaps(other Pattern) bool {
	if p.bare || other.bare {
		return p.bare && other.bare
	}
	if len(p.segments) != len(other.segments) {
		return false
	}

	for i := range p.segments {
		a, b := p.segments[i], other.segments[i]
		if a.kind == segStatic && b.kind == segStatic {
			if !strings.EqualFold(a.text, b.text) {
				return false
			}
		}
	}
	return true
}

// splitSegments splits on "/" and drops empty segments, so "/home", "home"
// and "/home/" all normalize to ["home"].
func splitSegments(s string) []string {
	parts := strings.Split(s, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func ensureLeadingSlash(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}

func quote(name string) string {
	return `"` + name + `"`
}
