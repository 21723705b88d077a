package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fastcorr/models"
	"fastcorr/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultRecentRuns = 10

type PostgresClient struct {
	db *sql.DB
}

// NewPostgresClient connects via the DSN and makes sure the runs table exists.
func NewPostgresClient(dsn string) (*PostgresClient, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	utils.GetLogger().Debug("postgres client ready")
	return &PostgresClient{db: db}, nil
}

func (c *PostgresClient) Close() error {
	return c.db.Close()
}

func createPostgresTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS correlation_runs (
        id TEXT PRIMARY KEY,
        image_a TEXT NOT NULL,
        image_b TEXT NOT NULL,
        grid_size INTEGER NOT NULL,
        threshold DOUBLE PRECISION NOT NULL,
        peak_row INTEGER NOT NULL,
        peak_col INTEGER NOT NULL,
        peak_value DOUBLE PRECISION NOT NULL,
        peak_cells INTEGER NOT NULL,
        graded_cells INTEGER NOT NULL,
        background_cells INTEGER NOT NULL,
        duration_ms BIGINT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );

    CREATE INDEX IF NOT EXISTS idx_correlation_runs_created_at ON correlation_runs (created_at DESC);
    `

	if _, err := db.Exec(createRunsTable); err != nil {
		return fmt.Errorf("creating correlation_runs table: %w", err)
	}
	return nil
}

const runColumns = `id, image_a, image_b, grid_size, threshold, peak_row, peak_col, peak_value,
        peak_cells, graded_cells, background_cells, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var run models.Run
	err := row.Scan(&run.ID, &run.ImageA, &run.ImageB, &run.GridSize, &run.Threshold,
		&run.PeakRow, &run.PeakCol, &run.PeakValue,
		&run.PeakCells, &run.GradedCells, &run.BackgroundCells,
		&run.DurationMs, &run.CreatedAt)
	return run, err
}

func (c *PostgresClient) StoreRun(run models.Run) error {
	if run.ID == "" {
		return errors.New("store run: empty run id")
	}

	query := `INSERT INTO correlation_runs (` + runColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := c.db.Exec(query, run.ID, run.ImageA, run.ImageB, run.GridSize, run.Threshold,
		run.PeakRow, run.PeakCol, run.PeakValue,
		run.PeakCells, run.GradedCells, run.BackgroundCells,
		run.DurationMs, run.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("run already exists: %w", err)
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (c *PostgresClient) GetRun(id string) (models.Run, bool, error) {
	query := `SELECT ` + runColumns + ` FROM correlation_runs WHERE id = $1`

	run, err := scanRun(c.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Run{}, false, nil
		}
		return models.Run{}, false, err
	}
	return run, true, nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// falls back to 10.
func (c *PostgresClient) RecentRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = defaultRecentRuns
	}

	query := `SELECT ` + runColumns + ` FROM correlation_runs ORDER BY created_at DESC, id LIMIT $1`
	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]models.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (c *PostgresClient) DeleteRun(id string) error {
	_, err := c.db.Exec(`DELETE FROM correlation_runs WHERE id = $1`, id)
	return err
}
