package registry

import (
	"fmt"
	"sort"

	"github.com/vyrodovalexey/navlink/internal/pattern"
)

// IssueKind classifies a validation finding.
type IssueKind int

const (
	// IssueInvalidPattern flags a registered pattern that fails syntax
	// validation. A programmer error surfaced at validation time.
	IssueInvalidPattern IssueKind = iota

	// IssueAmbiguousPatterns flags a pair of patterns that could match an
	// overlapping set of paths. Advisory only; it does not block
	// registration or resolution.
	IssueAmbiguousPatterns
)

// Issue is a single validation finding.
type Issue struct {
	Kind     IssueKind
	Patterns []string
}

// String returns a human-readable description of the issue.
func (i Issue) String() string {
	switch i.Kind {
	case IssueAmbiguousPatterns:
		return fmt.Sprintf("ambiguous patterns: %q and %q could match the same paths",
			i.Patterns[0], i.Patterns[1])
	default:
		return fmt.Sprintf("invalid pattern: %q", i.Patterns[0])
	}
}

// Validate lints the registered pattern set. It reports syntactically
// invalid patterns and pairs of patterns with overlapping shapes (equal
// segment count, every position equal-static or a parameter on at least one
// side). The overlap check is a conservative heuristic: it can over-report
// pairs that never collide at runtime and does not detect wildcard patterns
// shadowing fixed-length ones.
func (r *Registry) Validate() []Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var issues []Issue

	raws := make([]string, 0, len(r.byPattern))
	for raw := range r.byPattern {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	parsed := make(map[string]pattern.Pattern, len(raws))
	for _, raw := range raws {
		c := r.byPattern[raw]
		if !c.valid {
			issues = append(issues, Issue{
				Kind:     IssueInvalidPattern,
				Patterns: []string{raw},
			})
			continue
		}
		parsed[raw] = c.parsed
	}

	for i := 0; i < len(raws); i++ {
		a, ok := parsed[raws[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(raws); j++ {
			b, ok := parsed[raws[j]]
			if !ok {
				continue
			}
			if a.Overlaps(b) {
				issues = append(issues, Issue{
					Kind:     IssueAmbiguousPatterns,
					Patterns: []string{raws[i], raws[j]},
				})
			}
		}
	}

	return issues
}
