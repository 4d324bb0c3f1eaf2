// Package drawtree chains single-card draws turn over turn to answer
// questions like "what is the distribution of untapped lands drawn by turn
// T". Each node holds a residual deck and the cumulative probability of the
// path that reached it; children are the categories a card could still be
// drawn from. Distinct paths that reach identical states stay distinct
// nodes: correctness only needs the aggregate mass per statistic value, so
// the tree trades redundant computation for having no canonicalization
// subsystem.
package drawtree

import (
	"fmt"
	"math/big"

	"github.com/ramonehamilton/manabase/internal/deck"
	"github.com/ramonehamilton/manabase/internal/hypergeom"
)

// Node is one state in the draw sequence: the deck after Turn single-card
// draws, the running tally of what was drawn, and the exact probability of
// the path from the root. Nodes are immutable once created; children are
// materialized lazily by Children.
type Node struct {
	Turn     int
	Residual *deck.Deck
	Tally    hypergeom.CountVector
	Prob     *big.Rat
}

// Root returns the tree root for a deck: turn zero, nothing drawn,
// probability one.
func Root(d *deck.Deck) *Node {
	return &Node{
		Turn:     0,
		Residual: d,
		Tally:    make(hypergeom.CountVector, d.NumCategories()),
		Prob:     big.NewRat(1, 1),
	}
}

// Children expands the node into one child per category with positive
// residual count. Each child's probability is the parent's multiplied by
// the conditional probability of drawing that category next,
// count/residual-size. The parent's deck and tally are never modified.
func (n *Node) Children() ([]*Node, error) {
	total := n.Residual.Size()
	if total == 0 {
		return nil, nil
	}
	var children []*Node
	for i := 0; i < n.Residual.NumCategories(); i++ {
		count := n.Residual.CountAt(i)
		if count == 0 {
			continue
		}
		next, err := n.Residual.DrawOne(i)
		if err != nil {
			return nil, err
		}
		tally := n.Tally.Clone()
		tally[i]++
		cond := big.NewRat(int64(count), int64(total))
		children = append(children, &Node{
			Turn:     n.Turn + 1,
			Residual: next,
			Tally:    tally,
			Prob:     new(big.Rat).Mul(n.Prob, cond),
		})
	}
	return children, nil
}

// Statistic derives a scalar from a drawn tally, such as the number of
// untapped lands among the drawn cards. Categories are the source deck's
// categories in stable order.
type Statistic func(tally hypergeom.CountVector, categories []deck.Category) int

// UntappedLands counts drawn lands that enter untapped.
func UntappedLands(tally hypergeom.CountVector, categories []deck.Category) int {
	n := 0
	for i, k := range tally {
		if categories[i].ProducesUntapped() {
			n += k
		}
	}
	return n
}

// Lands counts all drawn lands, tapped or not.
func Lands(tally hypergeom.CountVector, categories []deck.Category) int {
	n := 0
	for i, k := range tally {
		if categories[i].IsLand() {
			n += k
		}
	}
	return n
}

// ColoredSources counts drawn lands that produce at least one color.
func ColoredSources(tally hypergeom.CountVector, categories []deck.Category) int {
	n := 0
	for i, k := range tally {
		if categories[i].IsLand() && !categories[i].Colors.IsColorless() {
			n += k
		}
	}
	return n
}

// Distribution maps a statistic value to its exact aggregated probability
// mass at a fixed turn depth.
type Distribution map[int]*big.Rat

// Total returns the summed mass of the distribution. For a full traversal
// to any reachable depth it is exactly one.
func (d Distribution) Total() *big.Rat {
	total := new(big.Rat)
	for _, p := range d {
		total.Add(total, p)
	}
	return total
}

// Floats returns the distribution at the floating-point reporting boundary.
func (d Distribution) Floats() map[int]float64 {
	out := make(map[int]float64, len(d))
	for v, p := range d {
		f, _ := p.Float64()
		out[v] = f
	}
	return out
}

// DistributionAt traverses the draw tree from d to depth turns, one card
// per turn, and aggregates leaf probability mass by the statistic value.
// Drawing past the deck is a DomainError; a depth beyond maxDepth is a
// ResourceError (zero or negative maxDepth means unbounded). The traversal
// is depth-first and keeps only the current path in memory.
func DistributionAt(d *deck.Deck, turns int, stat Statistic, maxDepth int) (Distribution, error) {
	if turns < 0 {
		return nil, &deck.DomainError{Msg: fmt.Sprintf("negative turn depth %d", turns)}
	}
	if turns > d.Size() {
		return nil, &deck.DomainError{Msg: fmt.Sprintf("cannot draw %d turns from a deck of %d", turns, d.Size())}
	}
	if maxDepth > 0 && turns > maxDepth {
		return nil, &hypergeom.ResourceError{Msg: fmt.Sprintf(
			"turn depth %d exceeds the limit of %d; reduce the depth", turns, maxDepth)}
	}

	categories := d.Categories()
	dist := make(Distribution)
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n.Turn == turns {
			v := stat(n.Tally, categories)
			if dist[v] == nil {
				dist[v] = new(big.Rat)
			}
			dist[v].Add(dist[v], n.Prob)
			return nil
		}
		children, err := n.Children()
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(Root(d)); err != nil {
		return nil, err
	}
	return dist, nil
}
