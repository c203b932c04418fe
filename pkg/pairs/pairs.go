// 14 Oct 2026

// Package pairs enumerates the comparisons to be run over a set of inputs.
// Combinations gives unordered pairs (one score for A,B), Permutations
// gives ordered pairs (A as query against B, and B against A separately).
// The order of the output depends only on the order of the keys, so
// callers should say where the keys came from.
package pairs

import (
	"fmt"
)

// Pair is two input keys. For Permutations, A is the query and B
// the target.
type Pair struct {
	A, B string
}

// String is used in file names and log messages
func (p Pair) String() string { return p.A + "--" + p.B }

// Swap returns the pair the other way round
func (p Pair) Swap() Pair { return Pair{A: p.B, B: p.A} }

// InvalidInputSetError says we cannot make pairs from the keys given.
type InvalidInputSetError struct {
	N   int    // number of keys
	Dup string // a duplicated key, if that was the problem
}

func (e *InvalidInputSetError) Error() string {
	if e.Dup != "" {
		return fmt.Sprintf("invalid input set: key %q appears more than once", e.Dup)
	}
	return fmt.Sprintf("invalid input set: need at least 2 inputs, got %d", e.N)
}

// check makes sure there are enough keys and no duplicates.
func check(keys []string) error {
	if len(keys) < 2 {
		return &InvalidInputSetError{N: len(keys)}
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return &InvalidInputSetError{N: len(keys), Dup: k}
		}
		seen[k] = true
	}
	return nil
}

// Combinations returns the n*(n-1)/2 unordered pairs. For keys a,b,c
// we get (a,b), (a,c), (b,c).
func Combinations(keys []string) ([]Pair, error) {
	if err := check(keys); err != nil {
		return nil, err
	}
	n := len(keys)
	ret := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ret = append(ret, Pair{A: keys[i], B: keys[j]})
		}
	}
	return ret, nil
}

// Permutations returns the n*(n-1) ordered pairs. For keys a,b,c
// we get (a,b), (a,c), (b,a), (b,c), (c,a), (c,b).
func Permutations(keys []string) ([]Pair, error) {
	if err := check(keys); err != nil {
		return nil, err
	}
	n := len(keys)
	ret := make([]Pair, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				ret = append(ret, Pair{A: keys[i], B: keys[j]})
			}
		}
	}
	return ret, nil
}
