// Command manabase analyzes card-draw probabilities for a decklist: how
// many distinct opening hands exist, their exact probabilities, and the
// distribution of drawn resources turn by turn.
//
// Usage:
//
//	manabase -deck-file deck.txt
//	manabase -deck-file deck.txt -hand-size 7 -turns 3 -statistic untapped-lands
//	manabase -deck-file deck.txt -count-only
//	manabase -deck-file deck.txt -watch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ramonehamilton/manabase/internal/analysis"
	"github.com/ramonehamilton/manabase/internal/config"
	"github.com/ramonehamilton/manabase/internal/deck/deckparse"
	"github.com/ramonehamilton/manabase/internal/display"
	"github.com/ramonehamilton/manabase/internal/storage"
	"github.com/ramonehamilton/manabase/internal/version"
	"github.com/ramonehamilton/manabase/internal/watch"
)

var (
	deckFile  = flag.String("deck-file", "", "Path to the decklist file (required)")
	handSize  = flag.Int("hand-size", 0, "Opening hand size (default from config)")
	turns     = flag.String("turns", "", "Comma-separated turn depths for the statistic distribution (e.g. 1,2,3)")
	statistic = flag.String("statistic", "untapped-lands", "Per-turn statistic: untapped-lands, lands or colored-sources")
	countOnly = flag.Bool("count-only", false, "Only count distinct opening hands, skip full enumeration")
	watchMode = flag.Bool("watch", false, "Re-run the analysis whenever the decklist changes")

	configPath = flag.String("config", "", "Path to config file (default ~/.manabase/config.toml)")
	dbPath     = flag.String("db-path", "", "Run history database path (overrides config)")
	noStore    = flag.Bool("no-store", false, "Do not persist this run to the history database")
	debugMode  = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.GetVersion())
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "manabase: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *deckFile == "" {
		flag.Usage()
		return errors.New("-deck-file is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debugMode || cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	hand := cfg.Analysis.HandSize
	if *handSize > 0 {
		hand = *handSize
	}

	turnDepths, err := parseTurns(*turns)
	if err != nil {
		return err
	}
	statName := ""
	if len(turnDepths) > 0 {
		statName = *statistic
	}

	analyzer := analysis.New(analysis.Limits{
		MaxSupport:   cfg.Analysis.MaxSupport,
		MaxTreeDepth: cfg.Analysis.MaxTreeDepth,
	}, logger)

	repo, closeRepo, err := openRunStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	analyze := func(path string) error {
		result, err := deckparse.ParseFile(path)
		if err != nil {
			return fmt.Errorf("parse decklist: %w", err)
		}
		for _, warning := range result.Warnings {
			logger.Warn(warning)
		}

		report, err := analyzer.Analyze(result.Deck, hand, *countOnly, statName, turnDepths)
		if err != nil {
			return err
		}
		fmt.Print(display.FormatReport(report))

		if repo != nil {
			rec, err := storage.NewRunFromReport(report)
			if err != nil {
				return fmt.Errorf("prepare run record: %w", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.Create(ctx, rec); err != nil {
				// History is best-effort; the analysis already printed.
				logger.Warn("failed to store run", "error", err)
			} else {
				logger.Debug("stored run", "id", rec.ID)
			}
		}
		return nil
	}

	if err := analyze(*deckFile); err != nil {
		return err
	}

	if !*watchMode {
		return nil
	}

	minInterval, err := cfg.GetWatchMinInterval()
	if err != nil {
		return err
	}
	watcher, err := watch.New(watch.Config{
		Path:        *deckFile,
		MinInterval: minInterval,
		OnChange:    analyze,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("watch stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openRunStore opens the history database unless storage is disabled. A nil
// repository means runs are not persisted.
func openRunStore(cfg *config.Config, logger *slog.Logger) (*storage.RunRepository, func(), error) {
	if *noStore || !cfg.Storage.Enabled {
		return nil, func() {}, nil
	}

	path := cfg.Storage.Path
	if *dbPath != "" {
		path = *dbPath
	}
	if path == "" {
		var err error
		path, err = config.DefaultStoragePath()
		if err != nil {
			return nil, nil, err
		}
	}

	db, err := storage.Open(storage.DefaultConfig(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open run history: %w", err)
	}
	logger.Debug("run history open", "path", path)
	return storage.NewRunRepository(db), func() { _ = db.Close() }, nil
}

func parseTurns(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad turn depth %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("turn depth cannot be negative: %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
