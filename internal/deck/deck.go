package deck

import (
	"fmt"
	"strings"
)

// Entry pairs a category with its count in a deck specification.
type Entry struct {
	Category Category
	Count    int
}

// Deck is an immutable multiset of card categories. Categories keep the
// stable order in which they were specified, with the generic filler spell
// (if any) last. All operations that change counts return a new Deck; the
// draw-sequence tree depends on parent decks staying intact while children
// explore alternatives.
type Deck struct {
	categories []Category
	counts     []int
	size       int
	lands      int
}

// Build constructs a deck from a category specification. Duplicate entries
// for the same category are merged. If the specified counts sum to less
// than totalSize, the remainder is filled with the generic colorless spell
// category. Specified counts exceeding totalSize, negative counts, or a
// derived land count exceeding totalSize are ValidationErrors.
func Build(entries []Entry, totalSize int) (*Deck, error) {
	if totalSize < 0 {
		return nil, &ValidationError{Msg: fmt.Sprintf("negative deck size %d", totalSize)}
	}

	var (
		cats  []Category
		index = make(map[Category]int)
	)
	counts := make(map[Category]int)
	specified := 0
	for _, e := range entries {
		if e.Count < 0 {
			return nil, &ValidationError{Msg: fmt.Sprintf("negative count %d for category %s", e.Count, e.Category)}
		}
		if _, ok := index[e.Category]; !ok {
			index[e.Category] = len(cats)
			cats = append(cats, e.Category)
		}
		counts[e.Category] += e.Count
		specified += e.Count
	}
	if specified > totalSize {
		return nil, &ValidationError{Msg: fmt.Sprintf("specified counts sum to %d, exceeding deck size %d", specified, totalSize)}
	}

	if rest := totalSize - specified; rest > 0 {
		filler := GenericSpell()
		if _, ok := index[filler]; !ok {
			index[filler] = len(cats)
			cats = append(cats, filler)
		}
		counts[filler] += rest
	}

	d := &Deck{
		categories: cats,
		counts:     make([]int, len(cats)),
		size:       totalSize,
	}
	for i, c := range cats {
		d.counts[i] = counts[c]
		if c.IsLand() {
			d.lands += counts[c]
		}
	}
	if d.lands > d.size {
		return nil, &ValidationError{Msg: fmt.Sprintf("land count %d exceeds deck size %d", d.lands, d.size)}
	}
	return d, nil
}

// Size returns the total number of cards in the deck.
func (d *Deck) Size() int { return d.size }

// LandCount returns the number of land cards (including fetch lands).
func (d *Deck) LandCount() int { return d.lands }

// SpellCount returns the number of non-land cards.
func (d *Deck) SpellCount() int { return d.size - d.lands }

// NumCategories returns the number of distinct categories.
func (d *Deck) NumCategories() int { return len(d.categories) }

// Categories returns the categories in their stable order. The returned
// slice is a copy.
func (d *Deck) Categories() []Category {
	out := make([]Category, len(d.categories))
	copy(out, d.categories)
	return out
}

// CategoryAt returns the category at position i in the stable order.
func (d *Deck) CategoryAt(i int) Category { return d.categories[i] }

// CountAt returns the count of the category at position i.
func (d *Deck) CountAt(i int) int { return d.counts[i] }

// Counts returns the per-category counts in stable order. The returned
// slice is a copy.
func (d *Deck) Counts() []int {
	out := make([]int, len(d.counts))
	copy(out, d.counts)
	return out
}

// Count returns the count for the given category, zero if absent.
func (d *Deck) Count(c Category) int {
	for i, cat := range d.categories {
		if cat == c {
			return d.counts[i]
		}
	}
	return 0
}

// Draw returns a new deck with each category's count reduced by the
// corresponding component of vector. The vector must have one component per
// category in stable order. Drawing more of a category than is available is
// a DomainError.
func (d *Deck) Draw(vector []int) (*Deck, error) {
	if len(vector) != len(d.categories) {
		return nil, &DomainError{Msg: fmt.Sprintf("vector has %d components, deck has %d categories", len(vector), len(d.categories))}
	}
	next := &Deck{
		categories: d.categories,
		counts:     make([]int, len(d.counts)),
		size:       d.size,
		lands:      d.lands,
	}
	for i, k := range vector {
		if k < 0 {
			return nil, &DomainError{Msg: fmt.Sprintf("negative draw count %d for category %s", k, d.categories[i])}
		}
		if k > d.counts[i] {
			return nil, &DomainError{Msg: fmt.Sprintf("cannot draw %d of category %s, only %d available", k, d.categories[i], d.counts[i])}
		}
		next.counts[i] = d.counts[i] - k
		next.size -= k
		if d.categories[i].IsLand() {
			next.lands -= k
		}
	}
	return next, nil
}

// DrawOne returns a new deck with one card of the category at position i
// removed. It is the single-card form of Draw used by the draw-sequence
// tree.
func (d *Deck) DrawOne(i int) (*Deck, error) {
	if i < 0 || i >= len(d.categories) {
		return nil, &DomainError{Msg: fmt.Sprintf("category index %d out of range", i)}
	}
	vec := make([]int, len(d.categories))
	vec[i] = 1
	return d.Draw(vec)
}

// String summarizes the deck as "count category" pairs in stable order.
func (d *Deck) String() string {
	parts := make([]string, 0, len(d.categories))
	for i, c := range d.categories {
		parts = append(parts, fmt.Sprintf("%d %s", d.counts[i], c))
	}
	return strings.Join(parts, ", ")
}
