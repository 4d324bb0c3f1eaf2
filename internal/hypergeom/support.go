// Package hypergeom enumerates hand supports and assigns exact multivariate
// hypergeometric probabilities to them.
//
// The support of a draw is the set of distinct count vectors (one count per
// deck category) reachable by drawing a fixed number of cards. Counting the
// support is cheap; enumerating it is only tractable while the number of
// categories and the draw size stay small, so both modes are exposed.
package hypergeom

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ramonehamilton/manabase/internal/deck"
)

// CountVector is one possible realization of a hand: a count per deck
// category in the deck's stable order, summing to the draw size.
type CountVector []int

// Sum returns the total number of cards in the vector.
func (v CountVector) Sum() int {
	n := 0
	for _, k := range v {
		n += k
	}
	return n
}

// Clone returns an independent copy of the vector.
func (v CountVector) Clone() CountVector {
	out := make(CountVector, len(v))
	copy(out, v)
	return out
}

// String renders the vector as "(k1,k2,...)".
func (v CountVector) String() string {
	parts := make([]string, len(v))
	for i, k := range v {
		parts[i] = strconv.Itoa(k)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// ResourceError reports that a requested enumeration exceeds a configured
// bound. The caller should reduce the draw size or tree depth, or switch to
// counting-only mode.
type ResourceError struct {
	Msg string
}

func (e *ResourceError) Error() string { return "hypergeom resource: " + e.Msg }

func checkDrawSize(d *deck.Deck, n int) error {
	if n < 0 {
		return &deck.DomainError{Msg: fmt.Sprintf("negative draw size %d", n)}
	}
	if n > d.Size() {
		return &deck.DomainError{Msg: fmt.Sprintf("cannot draw %d cards from a deck of %d", n, d.Size())}
	}
	return nil
}

// CountSupport returns the number of distinct count vectors reachable by
// drawing n cards from d, without enumerating them. The dynamic program
// runs over categories and partial sums, storing only per-sum counts, so it
// stays polynomial in the deck shape where full enumeration would not.
//
// The semantics are distinct count-vectors: choosing k cards from within a
// category counts once, however many ways the physical cards could be
// assigned.
func CountSupport(d *deck.Deck, n int) (*big.Int, error) {
	if err := checkDrawSize(d, n); err != nil {
		return nil, err
	}

	// reach[s] = number of distinct vectors over the categories seen so far
	// that sum to s.
	reach := make([]*big.Int, n+1)
	for s := range reach {
		reach[s] = new(big.Int)
	}
	reach[0].SetInt64(1)

	for i := 0; i < d.NumCategories(); i++ {
		limit := d.CountAt(i)
		next := make([]*big.Int, n+1)
		for s := 0; s <= n; s++ {
			next[s] = new(big.Int)
			for k := 0; k <= limit && k <= s; k++ {
				next[s].Add(next[s], reach[s-k])
			}
		}
		reach = next
	}
	return reach[n], nil
}

// Enumerate returns every distinct count vector reachable by drawing n
// cards from d, in a deterministic order. Drawing more cards than the deck
// contains is a DomainError; n = 0 yields exactly the all-zero vector.
func Enumerate(d *deck.Deck, n int) ([]CountVector, error) {
	if err := checkDrawSize(d, n); err != nil {
		return nil, err
	}

	m := d.NumCategories()
	if m == 0 {
		// Only n = 0 passes checkDrawSize here; the empty draw from the
		// empty deck is the empty vector.
		return []CountVector{{}}, nil
	}

	// reach[s] holds the partial vectors over the categories seen so far
	// that sum to s. Each category pass extends every partial vector by
	// each feasible per-category count.
	reach := make([][]CountVector, n+1)
	reach[0] = []CountVector{make(CountVector, 0, m)}

	for i := 0; i < m; i++ {
		limit := d.CountAt(i)
		next := make([][]CountVector, n+1)
		for s := 0; s <= n; s++ {
			for k := 0; k <= limit && k <= s; k++ {
				for _, prefix := range reach[s-k] {
					ext := make(CountVector, len(prefix), m)
					copy(ext, prefix)
					ext = append(ext, k)
					next[s] = append(next[s], ext)
				}
			}
		}
		reach = next
	}
	return reach[n], nil
}

// EnumerateBounded behaves like Enumerate but first checks the support size
// against maxSupport, returning a ResourceError when the enumeration would
// exceed it. A maxSupport of zero or less means unbounded.
func EnumerateBounded(d *deck.Deck, n, maxSupport int) ([]CountVector, error) {
	if maxSupport > 0 {
		count, err := CountSupport(d, n)
		if err != nil {
			return nil, err
		}
		if count.Cmp(big.NewInt(int64(maxSupport))) > 0 {
			return nil, &ResourceError{Msg: fmt.Sprintf(
				"support has %s vectors, exceeding the limit of %d; reduce the draw size or use counting mode", count, maxSupport)}
		}
	}
	return Enumerate(d, n)
}
