// Package regexkit provides a backtracking regular expression engine with
// the ICU option set.
//
// regexkit supports the constructs a backtracker is needed for:
//   - Backreferences (\1, \k<name>)
//   - Lookahead and lookbehind ((?=...), (?<!...))
//   - Atomic groups and possessive quantifiers ((?>...), a*+)
//   - Lazy quantifiers, named groups, \G, \R and ICU-style classes
//
// The failure memo keeps patterns without backreferences polynomial.
// Searches are otherwise unbounded by default; Config.StepLimit,
// Config.Timeout and the caller's context can bound each search.
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := regexkit.Compile(`(\w+)@(\w+)`, regexkit.CaseInsensitive)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find first match
//	m, err := re.FindString("mail: user@host")
//	if m != nil {
//	    fmt.Println(m.Group(1).String()) // "user"
//	}
//
//	// Iterate over all matches
//	for m, err := range re.FindAllString("a@b c@d") {
//	    ...
//	}
//
// Advanced usage:
//
//	// Bound the work of untrusted patterns
//	config := regexkit.DefaultConfig()
//	config.StepLimit = 1_000_000
//	re, err := regexkit.CompileWithConfig(pattern, 0, config)
//
// Offsets are byte offsets into UTF-8 text. Matching is rune-aware; invalid
// bytes match as U+FFFD one byte wide.
package regexkit

import (
	"context"
	"iter"

	"github.com/coregx/regexkit/meta"
	"github.com/coregx/regexkit/syntax"
)

// Match is a successful match with its capture groups.
type Match = meta.Match

// Group is one capture group of a Match.
type Group = meta.Group

// MatchError reports a search abandoned because its budget ran out.
type MatchError = meta.MatchError

// Error is a pattern syntax error.
type Error = syntax.Error

var (
	// ErrPattern is matched by every pattern syntax error via errors.Is.
	ErrPattern = syntax.ErrPattern

	// ErrTimeout is matched by every aborted search via errors.Is.
	ErrTimeout = meta.ErrTimeout
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines, except for
// ResetStats.
//
// Example:
//
//	re := regexkit.MustCompile(`hello`, 0)
//	if ok, _ := re.MatchString("hello world"); ok {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
	options Options
}

// Compile compiles a regular expression pattern with the given options.
//
// Syntax follows ICU: backreferences, lookaround, atomic groups, possessive
// quantifiers, inline flags (?imsxwd) and \Q...\E are supported. A
// malformed pattern returns a *Error; errors.Is(err, ErrPattern) holds.
//
// Example:
//
//	re, err := regexkit.Compile(`\d{3}-\d{4}`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, opts Options) (*Regex, error) {
	return CompileWithConfig(pattern, opts, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var emailRegex = regexkit.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`, regexkit.CaseInsensitive)
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic("regexkit: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := regexkit.DefaultConfig()
//	config.Timeout = 50 * time.Millisecond
//	re, err := regexkit.CompileWithConfig(`(a|aa)+$`, 0, config)
func CompileWithConfig(pattern string, opts Options, config meta.Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, opts.compileFlags(), config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
		options: opts,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a regular expression matching
// the literal text under any options, free-spacing mode included.
//
// Example:
//
//	escaped := regexkit.QuoteMeta("1+1 = 2")
//	// escaped = `1\+1\ =\ 2`
func QuoteMeta(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// isSpecial reports whether c must be escaped to stand for itself. '#'
// and whitespace only matter in free-spacing mode.
func isSpecial(c byte) bool {
	switch c {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$',
		'#', ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Match reports whether b contains any match of the pattern.
//
// The error is non-nil only when the search was aborted by its budget.
//
// Example:
//
//	re := regexkit.MustCompile(`\d+`, 0)
//	ok, err := re.Match([]byte("hello 123"))
func (r *Regex) Match(b []byte) (bool, error) {
	return r.engine.IsMatch(context.Background(), b)
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) (bool, error) {
	return r.engine.IsMatch(context.Background(), []byte(s))
}

// MatchContext is like Match, but the search is abandoned when ctx is done.
func (r *Regex) MatchContext(ctx context.Context, b []byte) (bool, error) {
	return r.engine.IsMatch(ctx, b)
}

// Find returns the leftmost match in b, or nil if there is none.
//
// Example:
//
//	re := regexkit.MustCompile(`foo.?`, 0)
//	m, _ := re.Find([]byte("seafood fool"))
//	println(m.String()) // "food"
func (r *Regex) Find(b []byte) (*Match, error) {
	return r.engine.FindAt(context.Background(), b, 0)
}

// FindString returns the leftmost match in s, or nil if there is none.
func (r *Regex) FindString(s string) (*Match, error) {
	return r.engine.FindAt(context.Background(), []byte(s), 0)
}

// FindAt returns the leftmost match starting at or after byte offset at.
// The text before at is still visible to lookbehind, \b and ^; \G
// matches at at. An offset outside [0, len(b)] gives no match.
func (r *Regex) FindAt(b []byte, at int) (*Match, error) {
	return r.engine.FindAt(context.Background(), b, at)
}

// FindContext is like FindAt, but the search is abandoned when ctx is done.
func (r *Regex) FindContext(ctx context.Context, b []byte, at int) (*Match, error) {
	return r.engine.FindAt(ctx, b, at)
}

// FindAll returns an iterator over successive non-overlapping matches in b.
//
// An empty match adjacent to the previous match is skipped, as in the
// standard library. Each range over the iterator scans b again from the
// start. An aborted search yields one (nil, err) pair and ends the
// iteration.
//
// Example:
//
//	re := regexkit.MustCompile(`\d+`, 0)
//	for m, err := range re.FindAll([]byte("1 22 333")) {
//	    if err != nil {
//	        return err
//	    }
//	    println(m.String())
//	}
func (r *Regex) FindAll(b []byte) iter.Seq2[*Match, error] {
	return r.engine.FindAll(context.Background(), b)
}

// FindAllString is FindAll over a string.
func (r *Regex) FindAllString(s string) iter.Seq2[*Match, error] {
	return r.engine.FindAll(context.Background(), []byte(s))
}

// FindAllContext is like FindAll, but each search is abandoned when ctx
// is done.
func (r *Regex) FindAllContext(ctx context.Context, b []byte) iter.Seq2[*Match, error] {
	return r.engine.FindAll(ctx, b)
}

// FindAllStrings returns the text of successive matches in s.
// If n >= 0, it returns at most n matches.
//
// Example:
//
//	re := regexkit.MustCompile(`a.`, 0)
//	all, _ := re.FindAllStrings("paranormal", -1)
//	// all = ["ar" "an" "al"]
func (r *Regex) FindAllStrings(s string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	var out []string
	for m, err := range r.engine.FindAll(context.Background(), []byte(s)) {
		if err != nil {
			return nil, err
		}
		out = append(out, s[m.Start():m.End()])
		if n > 0 && len(out) == n {
			break
		}
	}
	return out, nil
}

// Count returns the number of non-overlapping matches of the pattern in b.
//
// Example:
//
//	re := regexkit.MustCompile(`\d+`, 0)
//	count, _ := re.Count([]byte("1 2 3 4 5"))
//	// count == 5
func (r *Regex) Count(b []byte) (int, error) {
	return r.engine.Count(context.Background(), b, -1)
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Options returns the options the pattern was compiled with.
func (r *Regex) Options() Options {
	return r.options
}

// NumSubexp returns the number of parenthesized subexpressions in this Regex.
func (r *Regex) NumSubexp() int {
	return r.engine.NumCaptures() - 1
}

// SubexpNames returns the names of the parenthesized subexpressions
// in this Regex. The name for the first sub-expression is names[1],
// so that if m is a match slice, the name for m[i] is SubexpNames()[i].
// Since the Regex as a whole cannot be named, names[0] is always
// the empty string. The slice should not be modified.
//
// Example:
//
//	re := regexkit.MustCompile(`(?<year>\d+)-(?<month>\d+)`, 0)
//	names := re.SubexpNames()
//	// names = ["", "year", "month"]
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// SubexpIndex returns the index of the first subexpression with the given
// name, or -1 if there is no subexpression with that name.
func (r *Regex) SubexpIndex(name string) int {
	return r.engine.SubexpIndex(name)
}

// Stats returns execution statistics of this Regex.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets execution statistics to zero.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}

// MatchString reports whether s contains a match of pattern, compiled with
// DefaultOptions (case-insensitive).
//
// Example:
//
//	ok, err := regexkit.MatchString(`^hello`, "Hello, world")
//	// ok == true
func MatchString(pattern, s string) (bool, error) {
	re, err := Compile(pattern, DefaultOptions)
	if err != nil {
		return false, err
	}
	return re.MatchString(s)
}

// NotMatchString is the negation of MatchString. An invalid pattern or an
// aborted search reports false with the error.
func NotMatchString(pattern, s string) (bool, error) {
	ok, err := MatchString(pattern, s)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
