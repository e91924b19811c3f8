package regexkit

import (
	"context"
)

// Split slices s into substrings separated by the expression and returns a slice of
// the substrings between those expression matches.
//
// The slice returned by this method consists of all the substrings of s
// not contained in the slice returned by FindAllStrings. When called on an
// expression that contains no metacharacters, it is equivalent to
// strings.SplitN.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
//
// Example:
//
//	re := regexkit.MustCompile(`,`, 0)
//	parts, _ := re.Split("a,b,,c", -1)
//	// parts = ["a" "b" "" "c"]
//
//	parts, _ = re.Split("a,b,c", 2)
//	// parts = ["a" "b,c"]
func (r *Regex) Split(s string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	if len(r.pattern) > 0 && len(s) == 0 {
		return []string{""}, nil
	}

	var parts []string
	beg, end := 0, 0
	for m, err := range r.engine.FindAll(context.Background(), []byte(s)) {
		if err != nil {
			return nil, err
		}
		if n > 0 && len(parts) == n-1 {
			break
		}
		end = m.Start()
		// An empty match at 0 does not split off an empty first field.
		if m.End() != 0 {
			parts = append(parts, s[beg:end])
		}
		beg = m.End()
	}
	if end != len(s) {
		parts = append(parts, s[beg:])
	}
	return parts, nil
}

// SplitBy splits s around the matches of re. A nil re returns s whole.
// An aborted search returns s whole together with the error.
//
// Example:
//
//	parts, _ := regexkit.SplitBy("a1b22c", regexkit.MustCompile(`\d+`, 0))
//	// parts = ["a" "b" "c"]
func SplitBy(s string, re *Regex) ([]string, error) {
	if re == nil {
		return []string{s}, nil
	}
	parts, err := re.Split(s, -1)
	if err != nil {
		return []string{s}, err
	}
	return parts, nil
}
