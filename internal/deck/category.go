// Package deck models a deck as a multiset of card categories.
//
// A category is an equivalence class of cards sharing kind, color set and
// tapped-entry behavior. Draw probability depends only on the category, not
// on card identity, so physically distinct but functionally identical cards
// collapse into one counted bucket.
package deck

import "strings"

// Color is a single mana color symbol.
type Color byte

// The five colors of the standard alphabet.
const (
	White Color = 'W'
	Blue  Color = 'U'
	Black Color = 'B'
	Red   Color = 'R'
	Green Color = 'G'
)

// colorOrder is the canonical WUBRG ordering used for formatting.
var colorOrder = []Color{White, Blue, Black, Red, Green}

var colorBits = map[Color]uint8{
	White: 1 << 0,
	Blue:  1 << 1,
	Black: 1 << 2,
	Red:   1 << 3,
	Green: 1 << 4,
}

// ColorSet is a subset of the five-color alphabet, packed so that Category
// stays comparable. The zero value is the empty (colorless) set.
type ColorSet uint8

// ParseColors builds a ColorSet from a string of color letters such as "WU".
// An empty string yields the colorless set. Letters outside the WUBRG
// alphabet produce a ValidationError.
func ParseColors(s string) (ColorSet, error) {
	var cs ColorSet
	for _, r := range strings.ToUpper(s) {
		bit, ok := colorBits[Color(r)]
		if !ok {
			return 0, &ValidationError{Msg: "unknown color symbol " + string(r)}
		}
		cs |= ColorSet(bit)
	}
	return cs, nil
}

// Colors builds a ColorSet from individual Color values, validating each.
func Colors(colors ...Color) (ColorSet, error) {
	var cs ColorSet
	for _, c := range colors {
		bit, ok := colorBits[c]
		if !ok {
			return 0, &ValidationError{Msg: "unknown color symbol " + string(c)}
		}
		cs |= ColorSet(bit)
	}
	return cs, nil
}

// Has reports whether the set contains the given color.
func (cs ColorSet) Has(c Color) bool {
	bit, ok := colorBits[c]
	return ok && uint8(cs)&bit != 0
}

// Len returns the number of colors in the set.
func (cs ColorSet) Len() int {
	n := 0
	for v := uint8(cs); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// IsColorless reports whether the set is empty.
func (cs ColorSet) IsColorless() bool { return cs == 0 }

// String renders the set in canonical WUBRG order, e.g. "WU".
func (cs ColorSet) String() string {
	var b strings.Builder
	for _, c := range colorOrder {
		if cs.Has(c) {
			b.WriteByte(byte(c))
		}
	}
	return b.String()
}

// Kind is the coarse card kind of a category.
type Kind int

const (
	// KindSpell is any non-land card. Color is not meaningful on spells in
	// this model.
	KindSpell Kind = iota
	// KindLand is a land that can be played for mana.
	KindLand
	// KindFetchLand is a refinement of KindLand: a land that fetches
	// another land rather than producing mana itself.
	KindFetchLand
)

// IsLand reports whether the kind counts toward the deck's land total.
func (k Kind) IsLand() bool { return k == KindLand || k == KindFetchLand }

// String returns the textual kind name used by the decklist format.
func (k Kind) String() string {
	switch k {
	case KindSpell:
		return "spell"
	case KindLand:
		return "land"
	case KindFetchLand:
		return "fetch-land"
	default:
		return "unknown"
	}
}

// Category is an immutable descriptor of a card equivalence class. It is a
// comparable value type: two categories with the same kind, colors and
// tapped flag are the same category, which is what lets the deck count
// occurrences instead of tracking individual cards.
type Category struct {
	Kind         Kind
	Colors       ColorSet
	EntersTapped bool
}

// NewCategory validates and constructs a category. The color string uses
// the WUBRG alphabet; empty means colorless.
func NewCategory(kind Kind, colors string, entersTapped bool) (Category, error) {
	switch kind {
	case KindSpell, KindLand, KindFetchLand:
	default:
		return Category{}, &ValidationError{Msg: "unknown card kind"}
	}
	cs, err := ParseColors(colors)
	if err != nil {
		return Category{}, err
	}
	return Category{Kind: kind, Colors: cs, EntersTapped: entersTapped}, nil
}

// GenericSpell is the default colorless spell category used to fill
// unspecified deck slots.
func GenericSpell() Category { return Category{Kind: KindSpell} }

// IsLand reports whether the category is a land (including fetch lands).
func (c Category) IsLand() bool { return c.Kind.IsLand() }

// ProducesUntapped reports whether the category is a land that enters the
// battlefield untapped.
func (c Category) ProducesUntapped() bool { return c.IsLand() && !c.EntersTapped }

// String renders the category in the decklist format, e.g. "WU-tapped-land"
// or "spell".
func (c Category) String() string {
	var parts []string
	if !c.Colors.IsColorless() {
		parts = append(parts, c.Colors.String())
	}
	if c.EntersTapped {
		parts = append(parts, "tapped")
	}
	parts = append(parts, c.Kind.String())
	return strings.Join(parts, "-")
}
