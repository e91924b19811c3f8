package meta

import (
	"github.com/coregx/regexkit/literal"
	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/prog"
	"github.com/coregx/regexkit/syntax"
)

// Compile parses and compiles a pattern with the default configuration.
//
// Example:
//
//	engine, err := meta.Compile(`hello\s+(\w+)`, syntax.FoldCase)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig parses and compiles a pattern with a custom
// configuration.
//
// Errors are a *ConfigError for a bad configuration, a *syntax.Error for
// a malformed pattern, or a *prog.CompileError when the program would be
// too large.
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	re, err := syntax.ParseWithLimits(pattern, flags, syntax.Limits{
		MaxRepeat: config.MaxRepeat,
		MaxDepth:  config.MaxNestingDepth,
	})
	if err != nil {
		return nil, err
	}
	return CompileRegexp(re, config)
}

// CompileRegexp compiles an already parsed pattern.
//
// Pipeline:
//  1. Compile the syntax tree into a backtracking program
//  2. Extract prefix literals and build a prefilter from them
//  3. Select a strategy
func CompileRegexp(re *syntax.Regexp, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p, err := prog.Compile(re, prog.Config{MaxInsts: config.MaxInsts})
	if err != nil {
		return nil, err
	}

	var pf prefilter.Prefilter
	if config.EnablePrefilter && !p.AnchorStart() {
		pf = buildPrefilter(re, config)
	}

	return &Engine{
		prog:      p,
		prefilter: pf,
		strategy:  SelectStrategy(p, pf),
		config:    config,
		statePool: newSearchStatePool(p),
	}, nil
}

// buildPrefilter extracts the prefix literals of re and builds a
// prefilter over them, or returns nil when they are not selective.
func buildPrefilter(re *syntax.Regexp, config Config) prefilter.Prefilter {
	ec := literal.DefaultConfig()
	ec.MaxLiterals = config.MaxLiterals
	prefixes := literal.New(ec).ExtractPrefixes(re)

	return prefilter.NewBuilder(prefixes).
		MinLiteralLen(config.MinLiteralLen).
		Complete(isPlainLiteral(re.Root)).
		Build()
}
