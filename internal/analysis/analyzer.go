// Package analysis runs manabase analyses over a deck: distinct opening
// hands, the exact opening-hand distribution, and per-turn distributions of
// drawn resources. It is the seam between the exact core and the reporting
// surfaces (display, storage, CLI).
package analysis

import (
	"fmt"
	"log/slog"
	"math/big"
	"sort"

	"github.com/ramonehamilton/manabase/internal/deck"
	"github.com/ramonehamilton/manabase/internal/drawtree"
	"github.com/ramonehamilton/manabase/internal/hypergeom"
)

// Limits bounds how much enumeration an analysis may do before it fails
// with a ResourceError instead of grinding. Zero values mean unbounded.
type Limits struct {
	// MaxSupport caps the number of vectors a full enumeration may produce.
	MaxSupport int
	// MaxTreeDepth caps the turn depth of draw-sequence traversals.
	MaxTreeDepth int
}

// Analyzer runs analyses under configured limits.
type Analyzer struct {
	limits Limits
	logger *slog.Logger
}

// New creates an analyzer. A nil logger disables logging.
func New(limits Limits, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{limits: limits, logger: logger}
}

// StatisticByName resolves the statistic names accepted on the CLI and in
// stored runs.
func StatisticByName(name string) (drawtree.Statistic, error) {
	switch name {
	case "untapped-lands":
		return drawtree.UntappedLands, nil
	case "lands":
		return drawtree.Lands, nil
	case "colored-sources":
		return drawtree.ColoredSources, nil
	default:
		return nil, fmt.Errorf("unknown statistic %q (want untapped-lands, lands or colored-sources)", name)
	}
}

// TurnDistribution is the distribution of a statistic after a given number
// of single-card draws.
type TurnDistribution struct {
	Turn   int
	Values drawtree.Distribution
}

// Report is the result of a full deck analysis.
type Report struct {
	Deck          *deck.Deck
	HandSize      int
	DistinctHands *big.Int
	// Hands is nil in counting-only mode; otherwise it is the full
	// opening-hand support sorted by descending probability.
	Hands []hypergeom.VectorProb
	// Statistic is the name of the per-turn statistic, empty when no turn
	// analysis was requested.
	Statistic string
	Turns     []TurnDistribution
}

// CountDistinctHands returns the number of distinct opening-hand vectors
// without enumerating them.
func (a *Analyzer) CountDistinctHands(d *deck.Deck, handSize int) (*big.Int, error) {
	return hypergeom.CountSupport(d, handSize)
}

// Analyze runs the requested analysis. countOnly skips the full
// opening-hand enumeration; turns lists the turn depths to compute the
// named statistic's distribution at (each depth counts draws from the full
// deck, so turn t means t cards seen).
func (a *Analyzer) Analyze(d *deck.Deck, handSize int, countOnly bool, statistic string, turns []int) (*Report, error) {
	a.logger.Info("analyzing deck",
		"size", d.Size(),
		"lands", d.LandCount(),
		"categories", d.NumCategories(),
		"hand_size", handSize,
	)
	a.logger.Debug("estimated enumeration magnitude",
		"log10_upper_bound", hypergeom.LogSupportEstimate(d, handSize))

	report := &Report{Deck: d, HandSize: handSize}

	count, err := a.CountDistinctHands(d, handSize)
	if err != nil {
		return nil, fmt.Errorf("count distinct hands: %w", err)
	}
	report.DistinctHands = count

	if !countOnly {
		hands, err := hypergeom.Distribution(d, handSize, a.limits.MaxSupport)
		if err != nil {
			return nil, fmt.Errorf("enumerate opening hands: %w", err)
		}
		sort.SliceStable(hands, func(i, j int) bool {
			return hands[i].P.Cmp(hands[j].P) > 0
		})
		report.Hands = hands
	}

	if statistic != "" && len(turns) > 0 {
		stat, err := StatisticByName(statistic)
		if err != nil {
			return nil, err
		}
		report.Statistic = statistic
		for _, turn := range turns {
			dist, err := drawtree.DistributionAt(d, turn, stat, a.limits.MaxTreeDepth)
			if err != nil {
				return nil, fmt.Errorf("turn %d distribution: %w", turn, err)
			}
			report.Turns = append(report.Turns, TurnDistribution{Turn: turn, Values: dist})
		}
	}

	return report, nil
}
