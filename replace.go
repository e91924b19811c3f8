package regexkit

import (
	"bytes"
	"context"
	"strconv"
)

// ReplaceAll returns a copy of src, replacing matches of the pattern
// with the template repl.
// Inside repl, $ signs are interpreted as in Expand:
// $0 is the entire match, $1 is the first capture group, etc.
//
// Example:
//
//	re := regexkit.MustCompile(`(\w+)@(\w+)\.(\w+)`, 0)
//	result, _ := re.ReplaceAll([]byte("user@example.com"), []byte("$1 at $2 dot $3"))
//	// result = []byte("user at example dot com")
func (r *Regex) ReplaceAll(src, repl []byte) ([]byte, error) {
	if bytes.IndexByte(repl, '$') < 0 && bytes.IndexByte(repl, '\\') < 0 {
		return r.replaceAll(src, func(dst []byte, _ *Match) []byte {
			return append(dst, repl...)
		})
	}
	return r.replaceAll(src, func(dst []byte, m *Match) []byte {
		return expand(dst, repl, m)
	})
}

// ReplaceAllString returns a copy of src, replacing matches of the pattern
// with the template repl, expanded as in Expand.
//
// Example:
//
//	re := regexkit.MustCompile(`(?<key>\w+)=(?<value>\w+)`, 0)
//	result, _ := re.ReplaceAllString("a=1 b=2", "${value}=${key}")
//	// result = "1=a 2=b"
func (r *Regex) ReplaceAllString(src, repl string) (string, error) {
	out, err := r.ReplaceAll([]byte(src), []byte(repl))
	return string(out), err
}

// ReplaceAllLiteralString returns a copy of src, replacing matches of the pattern
// with the replacement string repl.
// The replacement is substituted directly, without expanding $ variables.
//
// Example:
//
//	re := regexkit.MustCompile(`\d+`, 0)
//	result, _ := re.ReplaceAllLiteralString("age: 42", "$1")
//	// result = "age: $1"
func (r *Regex) ReplaceAllLiteralString(src, repl string) (string, error) {
	out, err := r.replaceAll([]byte(src), func(dst []byte, _ *Match) []byte {
		return append(dst, repl...)
	})
	return string(out), err
}

// ReplaceAllStringFunc returns a copy of src in which every match has been
// replaced by the return value of repl applied to it.
//
// Example:
//
//	re := regexkit.MustCompile(`\w+`, 0)
//	result, _ := re.ReplaceAllStringFunc("hello world", func(m *regexkit.Match) string {
//	    return strings.ToUpper(m.String())
//	})
//	// result = "HELLO WORLD"
func (r *Regex) ReplaceAllStringFunc(src string, repl func(*Match) string) (string, error) {
	out, err := r.replaceAll([]byte(src), func(dst []byte, m *Match) []byte {
		return append(dst, repl(m)...)
	})
	return string(out), err
}

// replaceAll copies src, letting repl append the replacement of every
// match. An aborted search discards the partial result.
func (r *Regex) replaceAll(src []byte, repl func(dst []byte, m *Match) []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	lastEnd := 0
	for m, err := range r.engine.FindAll(context.Background(), src) {
		if err != nil {
			return nil, err
		}
		dst = append(dst, src[lastEnd:m.Start()]...)
		dst = repl(dst, m)
		lastEnd = m.End()
	}
	return append(dst, src[lastEnd:]...), nil
}

// Expand appends template to dst and returns the result; during the
// append, Expand replaces variables in the template with the groups of m.
//
// In the template:
//   - $n is group n; further digits are taken while the number still
//     names a group, so $10 is group 10 only if the pattern has one
//   - $name is the named group spelled by the longest run of letters,
//     digits and underscores, so $first_x names "first_x"
//   - ${n} and ${name} name a group explicitly
//   - $$ and \$ insert a literal $; \ before any other character
//     inserts that character
//
// A reference to a group that does not exist or did not participate
// expands to the empty string. A $ not followed by a valid reference is
// copied as is.
func (r *Regex) Expand(dst []byte, template []byte, m *Match) []byte {
	return expand(dst, template, m)
}

func expand(dst, template []byte, m *Match) []byte {
	for len(template) > 0 {
		i := bytes.IndexAny(template, `$\`)
		if i < 0 {
			break
		}
		dst = append(dst, template[:i]...)
		template = template[i:]

		if template[0] == '\\' {
			if len(template) == 1 {
				dst = append(dst, '\\')
				template = template[1:]
				continue
			}
			dst = append(dst, template[1])
			template = template[2:]
			continue
		}

		if len(template) > 1 && template[1] == '$' {
			dst = append(dst, '$')
			template = template[2:]
			continue
		}
		g, rest, ok := extractGroup(template, m)
		if !ok {
			dst = append(dst, '$')
			template = template[1:]
			continue
		}
		template = rest
		dst = append(dst, g.Bytes()...)
	}
	return append(dst, template...)
}

// extractGroup parses the reference at the start of template, which
// begins with '$', and returns the group it names and the rest of the
// template.
func extractGroup(template []byte, m *Match) (g Group, rest []byte, ok bool) {
	if len(template) < 2 {
		return g, nil, false
	}
	switch c := template[1]; {
	case c >= '0' && c <= '9':
		n := int(c - '0')
		j := 2
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			next := n*10 + int(template[j]-'0')
			if next >= m.NumGroups() {
				break
			}
			n = next
			j++
		}
		return m.Group(n), template[j:], true

	case isNameByte(c):
		j := 2
		for j < len(template) && isNameByte(template[j]) {
			j++
		}
		g, _ = m.GroupByName(string(template[1:j]))
		return g, template[j:], true

	case c == '{':
		end := bytes.IndexByte(template, '}')
		if end < 3 {
			return g, nil, false
		}
		name := string(template[2:end])
		if n, err := strconv.Atoi(name); err == nil && n >= 0 && isDigits(name) {
			return m.Group(n), template[end+1:], true
		}
		if !isGroupName(name) {
			return g, nil, false
		}
		g, _ = m.GroupByName(name)
		return g, template[end+1:], true
	}
	return g, nil, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func isNameByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

// isGroupName reports whether s has the form [A-Za-z][A-Za-z0-9_]*.
func isGroupName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return s != ""
}
