package meta

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// TestConcurrentFind tests that one Engine serves many goroutines.
// Run with -race.
func TestConcurrentFind(t *testing.T) {
	patterns := []string{
		`hello`,         // UseLiteral
		`\d+`,           // UsePrefilter with a byte set
		`^start`,        // UseAnchored
		`\b\w+\b`,       // UseScan
		`(\w+)@(\w+)`,   // UseScan with captures
		`(?<=x)(a|b)\1`, // lookbehind and backreference
	}
	inputs := []string{
		"hello world",
		"12345",
		"start of string",
		"user@domain.com",
		"xaa xbb",
		"no match here",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			engine := mustCompile(t, pattern, 0)
			ctx := context.Background()

			// Expected results computed serially.
			want := make([]string, len(inputs))
			for i, in := range inputs {
				want[i] = describe(engine.Find(ctx, []byte(in)))
			}

			const numGoroutines = 50
			const numIterations = 50
			var wg sync.WaitGroup
			errs := make(chan string, numGoroutines)
			for g := range numGoroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for it := range numIterations {
						i := (g + it) % len(inputs)
						if got := describe(engine.Find(ctx, []byte(inputs[i]))); got != want[i] {
							errs <- fmt.Sprintf("input %q: got %s, want %s", inputs[i], got, want[i])
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for e := range errs {
				t.Error(e)
			}

			if got := engine.Stats().Searches; got != uint64(len(inputs)+numGoroutines*numIterations) {
				t.Errorf("Searches = %d, want %d", got, len(inputs)+numGoroutines*numIterations)
			}
		})
	}
}

func describe(m *Match, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	if m == nil {
		return "nil"
	}
	return fmt.Sprint(m.Slots())
}
