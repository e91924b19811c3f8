package prefilter_test

import (
	"fmt"

	"github.com/coregx/regexkit/literal"
	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/syntax"
)

func Example() {
	re, _ := syntax.Parse(`(hello|world)\d`, 0)
	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
	pf := prefilter.NewBuilder(prefixes).Build()

	haystack := []byte("say world7 and hello1")
	for pos := pf.Find(haystack, 0); pos >= 0; pos = pf.Find(haystack, pos+1) {
		fmt.Println("candidate at", pos)
	}
	// Output:
	// candidate at 4
	// candidate at 15
}
