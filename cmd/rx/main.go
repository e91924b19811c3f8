// Command rx runs regexkit patterns from the command line.
//
// Usage:
//
//	rx test   [flags] PATTERN [TEXT...]
//	rx find   [flags] PATTERN [TEXT]
//	rx split  [flags] PATTERN [TEXT]
//	rx replace [flags] PATTERN TEMPLATE [TEXT]
//
// TEXT defaults to standard input. Exit status is 1 on a bad pattern, an
// aborted search, or when test finds no match.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/regexkit"
)

// errNoMatch makes rx test exit non-zero without printing an error.
var errNoMatch = errors.New("no match")

// flags are the pattern options and search limits shared by all commands.
type flags struct {
	caseInsensitive bool
	freeSpacing     bool
	literal         bool
	dotAll          bool
	multiLine       bool
	unixLines       bool
	unicodeWord     bool

	steps   int
	timeout time.Duration
}

func (f *flags) options() regexkit.Options {
	var o regexkit.Options
	for _, b := range []struct {
		set bool
		opt regexkit.Options
	}{
		{f.caseInsensitive, regexkit.CaseInsensitive},
		{f.freeSpacing, regexkit.AllowCommentsAndWhitespace},
		{f.literal, regexkit.IgnoreMetacharacters},
		{f.dotAll, regexkit.DotMatchesLineSeparators},
		{f.multiLine, regexkit.AnchorsMatchLines},
		{f.unixLines, regexkit.UseUnixLineSeparators},
		{f.unicodeWord, regexkit.UseUnicodeWordBoundaries},
	} {
		if b.set {
			o |= b.opt
		}
	}
	return o
}

func (f *flags) compile(pattern string) (*regexkit.Regex, error) {
	config := regexkit.DefaultConfig()
	config.StepLimit = f.steps
	config.Timeout = f.timeout
	return regexkit.CompileWithConfig(pattern, f.options(), config)
}

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs cmd and returns the process exit status. Errors other than
// errNoMatch are printed to the command's error stream.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errNoMatch) {
		fmt.Fprintf(cmd.ErrOrStderr(), "rx: %v\n", err)
	}
	return 1
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "rx",
		Short:         "Backtracking regular expressions with ICU options",
		Long:          "rx tests, searches, splits and rewrites text with regexkit patterns.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&f.caseInsensitive, "ignore-case", "i", false, "Match letters regardless of case.")
	pf.BoolVarP(&f.freeSpacing, "extended", "x", false, "Ignore whitespace and # comments in the pattern.")
	pf.BoolVarP(&f.literal, "literal", "l", false, "Treat the pattern as literal text.")
	pf.BoolVarP(&f.dotAll, "dotall", "s", false, "Let '.' match line terminators.")
	pf.BoolVarP(&f.multiLine, "multiline", "m", false, "Let '^' and '$' match at line boundaries.")
	pf.BoolVarP(&f.unixLines, "unix-lines", "u", false, "Recognize only '\\n' as a line terminator.")
	pf.BoolVarP(&f.unicodeWord, "unicode-word", "w", false, "Use Unicode word segmentation for \\b.")
	pf.IntVar(&f.steps, "steps", 0, "Abort a search after this many steps (0 = unlimited).")
	pf.DurationVar(&f.timeout, "timeout", 0, "Abort a search after this long (0 = no timeout).")

	rootCmd.AddCommand(
		newTestCmd(f),
		newFindCmd(f),
		newSplitCmd(f),
		newReplaceCmd(f),
	)
	return rootCmd
}

// inputs returns args, or standard input as a single text when args is
// empty.
func inputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return []string{string(b)}, nil
}

func newTestCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "test PATTERN [TEXT...]",
		Short: "Report whether each text contains a match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := f.compile(args[0])
			if err != nil {
				return err
			}
			texts, err := inputs(cmd, args[1:])
			if err != nil {
				return err
			}
			matched := false
			for _, text := range texts {
				ok, err := re.MatchString(text)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				matched = matched || ok
			}
			if !matched {
				return errNoMatch
			}
			return nil
		},
	}
}

func newFindCmd(f *flags) *cobra.Command {
	var limit int
	var groups bool
	cmd := &cobra.Command{
		Use:   "find PATTERN [TEXT]",
		Short: "Print every match with its byte offsets",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := f.compile(args[0])
			if err != nil {
				return err
			}
			texts, err := inputs(cmd, args[1:])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := 0
			for m, err := range re.FindAllString(texts[0]) {
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d-%d\t%q\n", m.Start(), m.End(), m.String())
				if groups {
					for _, g := range m.Groups()[1:] {
						name := g.Name
						if name == "" {
							name = fmt.Sprint(g.Index)
						}
						if g.Matched() {
							fmt.Fprintf(out, "\t%s: %d-%d\t%q\n", name, g.Start, g.End, g.String())
						} else {
							fmt.Fprintf(out, "\t%s: -\n", name)
						}
					}
				}
				n++
				if limit > 0 && n == limit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "count", "n", 0, "Stop after this many matches (0 = all).")
	cmd.Flags().BoolVarP(&groups, "groups", "g", false, "Print capture groups under each match.")
	return cmd
}

func newSplitCmd(f *flags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "split PATTERN [TEXT]",
		Short: "Print the text between matches, one piece per line",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := f.compile(args[0])
			if err != nil {
				return err
			}
			texts, err := inputs(cmd, args[1:])
			if err != nil {
				return err
			}
			parts, err := re.Split(texts[0], limit)
			if err != nil {
				return err
			}
			for _, p := range parts {
				fmt.Fprintf(cmd.OutOrStdout(), "%q\n", p)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", -1, "Return at most this many pieces (-1 = all).")
	return cmd
}

func newReplaceCmd(f *flags) *cobra.Command {
	var literalTemplate bool
	cmd := &cobra.Command{
		Use:   "replace PATTERN TEMPLATE [TEXT]",
		Short: "Replace every match, expanding $1, ${name} in the template",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := f.compile(args[0])
			if err != nil {
				return err
			}
			texts, err := inputs(cmd, args[2:])
			if err != nil {
				return err
			}
			var out string
			if literalTemplate {
				out, err = re.ReplaceAllLiteralString(texts[0], args[1])
			} else {
				out, err = re.ReplaceAllString(texts[0], args[1])
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&literalTemplate, "no-expand", "L", false, "Insert the template without expanding $ references.")
	return cmd
}
