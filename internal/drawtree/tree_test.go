package drawtree

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ramonehamilton/manabase/internal/deck"
	"github.com/ramonehamilton/manabase/internal/hypergeom"
)

func mustCategory(t *testing.T, kind deck.Kind, colors string, tapped bool) deck.Category {
	t.Helper()
	c, err := deck.NewCategory(kind, colors, tapped)
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}
	return c
}

// tinyDeck is 2 lands and 2 spells, 4 cards total.
func tinyDeck(t *testing.T) *deck.Deck {
	t.Helper()
	d, err := deck.Build([]deck.Entry{
		{Category: mustCategory(t, deck.KindLand, "G", false), Count: 2},
	}, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestRootNode(t *testing.T) {
	d := tinyDeck(t)
	root := Root(d)
	if root.Turn != 0 {
		t.Errorf("root turn = %d, want 0", root.Turn)
	}
	if root.Prob.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("root probability = %s, want 1", root.Prob)
	}
	if root.Tally.Sum() != 0 {
		t.Errorf("root tally = %v, want zeros", root.Tally)
	}
}

func TestChildrenConditionalProbabilities(t *testing.T) {
	d := tinyDeck(t)
	children, err := Root(d).Children()
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}

	half := big.NewRat(1, 2)
	for _, child := range children {
		if child.Prob.Cmp(half) != 0 {
			t.Errorf("child probability = %s, want 1/2", child.Prob)
		}
		if child.Turn != 1 {
			t.Errorf("child turn = %d, want 1", child.Turn)
		}
		if child.Residual.Size() != 3 {
			t.Errorf("child residual size = %d, want 3", child.Residual.Size())
		}
		if child.Tally.Sum() != 1 {
			t.Errorf("child tally = %v, want a single draw", child.Tally)
		}
	}

	// The parent deck is untouched by expansion.
	if d.Size() != 4 {
		t.Errorf("parent deck mutated, size = %d", d.Size())
	}
}

func TestChildrenSkipExhaustedCategories(t *testing.T) {
	d, err := deck.Build([]deck.Entry{
		{Category: mustCategory(t, deck.KindLand, "G", false), Count: 1},
	}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	children, err := Root(d).Children()
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	landChild := children[0]
	grand, err := landChild.Children()
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(grand) != 1 {
		t.Fatalf("node with exhausted land category has %d children, want 1", len(grand))
	}
	if got := grand[0].Tally; got[0] != 1 || got[1] != 1 {
		t.Errorf("grandchild tally = %v, want one of each", got)
	}
}

func TestDistributionDepthTwoMatchesDirectComputation(t *testing.T) {
	// 2 lands, 2 spells, draw 2. Direct without-replacement computation:
	// P(2 lands) = 2/4 * 1/3 = 1/6, P(2 spells) = 1/6, P(one each) = 4/6.
	d := tinyDeck(t)
	dist, err := DistributionAt(d, 2, Lands, 0)
	if err != nil {
		t.Fatalf("DistributionAt: %v", err)
	}

	if dist.Total().Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("leaf mass = %s, want exactly 1", dist.Total())
	}

	want := map[int]*big.Rat{
		0: big.NewRat(1, 6),
		1: big.NewRat(2, 3),
		2: big.NewRat(1, 6),
	}
	if len(dist) != len(want) {
		t.Fatalf("distribution has %d values, want %d: %v", len(dist), len(want), dist)
	}
	for v, p := range want {
		got := dist[v]
		if got == nil || got.Cmp(p) != 0 {
			t.Errorf("P(%d lands) = %s, want %s", v, got, p)
		}
	}
}

func TestDistributionMatchesHypergeometric(t *testing.T) {
	// Order of single-card draws must not matter: aggregating the tree at
	// depth n must equal the one-shot hypergeometric distribution of the
	// same statistic.
	d, err := deck.Build([]deck.Entry{
		{Category: mustCategory(t, deck.KindLand, "W", false), Count: 5},
		{Category: mustCategory(t, deck.KindLand, "U", true), Count: 3},
	}, 12)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	const turns = 4
	fromTree, err := DistributionAt(d, turns, UntappedLands, 0)
	if err != nil {
		t.Fatalf("DistributionAt: %v", err)
	}

	oneShot, err := hypergeom.Distribution(d, turns, 0)
	if err != nil {
		t.Fatalf("hypergeom.Distribution: %v", err)
	}
	categories := d.Categories()
	fromVectors := make(map[int]*big.Rat)
	for _, vp := range oneShot {
		v := UntappedLands(vp.Vector, categories)
		if fromVectors[v] == nil {
			fromVectors[v] = new(big.Rat)
		}
		fromVectors[v].Add(fromVectors[v], vp.P)
	}

	if len(fromTree) != len(fromVectors) {
		t.Fatalf("tree distribution has %d values, hypergeometric has %d", len(fromTree), len(fromVectors))
	}
	for v, p := range fromVectors {
		got := fromTree[v]
		if got == nil || got.Cmp(p) != 0 {
			t.Errorf("P(stat=%d): tree %s, hypergeometric %s", v, got, p)
		}
	}
}

func TestDistributionZeroTurns(t *testing.T) {
	d := tinyDeck(t)
	dist, err := DistributionAt(d, 0, Lands, 0)
	if err != nil {
		t.Fatalf("DistributionAt: %v", err)
	}
	if len(dist) != 1 || dist[0] == nil || dist[0].Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("zero-turn distribution = %v, want {0: 1}", dist)
	}
}

func TestDistributionErrors(t *testing.T) {
	d := tinyDeck(t)

	if _, err := DistributionAt(d, 5, Lands, 0); err == nil {
		t.Error("drawing past the deck expected error")
	} else {
		var derr *deck.DomainError
		if !errors.As(err, &derr) {
			t.Errorf("error is %T, want *deck.DomainError", err)
		}
	}

	if _, err := DistributionAt(d, 3, Lands, 2); err == nil {
		t.Error("depth beyond limit expected error")
	} else {
		var rerr *hypergeom.ResourceError
		if !errors.As(err, &rerr) {
			t.Errorf("error is %T, want *hypergeom.ResourceError", err)
		}
	}

	if _, err := DistributionAt(d, -1, Lands, 0); err == nil {
		t.Error("negative depth expected error")
	}
}

func TestStatistics(t *testing.T) {
	categories := []deck.Category{
		mustCategory(t, deck.KindLand, "W", false),
		mustCategory(t, deck.KindLand, "U", true),
		mustCategory(t, deck.KindLand, "", false),
		mustCategory(t, deck.KindSpell, "", false),
	}
	tally := hypergeom.CountVector{2, 1, 1, 3}

	if got := Lands(tally, categories); got != 4 {
		t.Errorf("Lands = %d, want 4", got)
	}
	if got := UntappedLands(tally, categories); got != 3 {
		t.Errorf("UntappedLands = %d, want 3", got)
	}
	if got := ColoredSources(tally, categories); got != 3 {
		t.Errorf("ColoredSources = %d, want 3", got)
	}
}
