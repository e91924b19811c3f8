package meta

import (
	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/prog"
	"github.com/coregx/regexkit/syntax"
)

// Strategy represents how an Engine looks for the leftmost match.
//
// The engine chooses between:
//   - UseScan: attempt the backtracker at every rune boundary
//   - UseAnchored: attempt only at the start of the haystack
//   - UsePrefilter: attempt only where the prefilter reports a candidate
//   - UseLiteral: the prefilter alone finds complete matches
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseScan tries every start position.
	// Selected when no useful prefix literals exist, e.g. `.*x` or `\w+`.
	UseScan Strategy = iota

	// UseAnchored tries position 0 only.
	// Selected when every alternative begins with \A, or ^ outside
	// multiline mode.
	UseAnchored

	// UsePrefilter skips to positions where a prefix literal occurs.
	// Selected for patterns such as `(foo|bar)\d+` or `(?i)error:`.
	UsePrefilter

	// UseLiteral reports prefilter hits as matches without running the
	// program.
	// Selected for plain case-sensitive literals without groups.
	UseLiteral
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseScan:
		return "UseScan"
	case UseAnchored:
		return "UseAnchored"
	case UsePrefilter:
		return "UsePrefilter"
	case UseLiteral:
		return "UseLiteral"
	default:
		return "Unknown"
	}
}

// SelectStrategy picks the search strategy for a compiled program and its
// prefilter (nil when none could be built).
//
// Decision order:
//  1. Start-anchored programs need a single attempt
//  2. A complete prefilter over a group-free program answers by itself
//  3. Any other prefilter narrows the start positions
//  4. Otherwise scan
func SelectStrategy(p *prog.Program, pf prefilter.Prefilter) Strategy {
	if p.AnchorStart() {
		return UseAnchored
	}
	if pf == nil {
		return UseScan
	}
	if pf.IsComplete() && p.NumCaptures() == 1 {
		return UseLiteral
	}
	return UsePrefilter
}

// isPlainLiteral reports whether every match of n is exactly its literal
// text, so a literal search needs no verification.
func isPlainLiteral(n *syntax.Node) bool {
	return n.Op == syntax.OpLiteral && n.Flags&syntax.FoldCase == 0 && len(n.Runes) > 0
}
