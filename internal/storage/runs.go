package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/manabase/internal/analysis"
)

const timeLayout = "2006-01-02 15:04:05.999999"

// AnalysisRun is one stored analysis. Exact values live in the engine; the
// stored distributions are the float reporting form, which is what the
// history views need.
type AnalysisRun struct {
	ID            string
	CreatedAt     time.Time
	DeckSummary   string
	DeckSize      int
	LandCount     int
	HandSize      int
	DistinctHands string // decimal string, may exceed int64
	Statistic     string
	// DistributionJSON holds the per-turn statistic distributions, empty
	// when no turn analysis was run.
	DistributionJSON string
}

// turnDistJSON is the stored shape of one turn's distribution.
type turnDistJSON struct {
	Turn   int             `json:"turn"`
	Values map[int]float64 `json:"values"`
}

// NewRunFromReport converts an analysis report into a storable run.
func NewRunFromReport(report *analysis.Report) (*AnalysisRun, error) {
	run := &AnalysisRun{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		DeckSummary:   report.Deck.String(),
		DeckSize:      report.Deck.Size(),
		LandCount:     report.Deck.LandCount(),
		HandSize:      report.HandSize,
		DistinctHands: report.DistinctHands.String(),
		Statistic:     report.Statistic,
	}

	if len(report.Turns) > 0 {
		dists := make([]turnDistJSON, 0, len(report.Turns))
		for _, td := range report.Turns {
			dists = append(dists, turnDistJSON{Turn: td.Turn, Values: td.Values.Floats()})
		}
		data, err := json.Marshal(dists)
		if err != nil {
			return nil, fmt.Errorf("marshal distributions: %w", err)
		}
		run.DistributionJSON = string(data)
	}

	return run, nil
}

// RunRepository handles database operations for analysis runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a run repository over an open database.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db.Conn()}
}

// Create stores a run.
func (r *RunRepository) Create(ctx context.Context, run *AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs
			(id, created_at, deck_summary, deck_size, land_count, hand_size, distinct_hands, statistic, distribution_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		run.DeckSummary,
		run.DeckSize,
		run.LandCount,
		run.HandSize,
		run.DistinctHands,
		run.Statistic,
		run.DistributionJSON,
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// GetByID retrieves a single run, nil if absent.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*AnalysisRun, error) {
	query := `
		SELECT id, created_at, deck_summary, deck_size, land_count, hand_size, distinct_hands, statistic, distribution_json
		FROM analysis_runs
		WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis run: %w", err)
	}
	return run, nil
}

// ListRecent retrieves the most recent runs, newest first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]*AnalysisRun, error) {
	query := `
		SELECT id, created_at, deck_summary, deck_size, land_count, hand_size, distinct_hands, statistic, distribution_json
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run by ID.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*AnalysisRun, error) {
	var (
		run       AnalysisRun
		createdAt string
	)
	if err := row.Scan(
		&run.ID,
		&createdAt,
		&run.DeckSummary,
		&run.DeckSize,
		&run.LandCount,
		&run.HandSize,
		&run.DistinctHands,
		&run.Statistic,
		&run.DistributionJSON,
	); err != nil {
		return nil, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = ts
	return &run, nil
}
