package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/gca01/pm-price-ss/models"
)

// PostgresWriter persists price records to PostgreSQL. Like the CSV backend it
// is an append-only log: inserts only, no upsert, no dedup key on game ID.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_records (
			id              SERIAL PRIMARY KEY,
			recorded_at     TIMESTAMPTZ  NOT NULL,
			game_id         VARCHAR(64)  NOT NULL,
			home_team       VARCHAR(8)   NOT NULL,
			away_team       VARCHAR(8)   NOT NULL,
			home_price      NUMERIC(4,2) NOT NULL,
			away_price      NUMERIC(4,2) NOT NULL,
			game_start      TEXT         NOT NULL DEFAULT '',
			screenshot_path TEXT         NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_price_records_game_id     ON price_records(game_id);
		CREATE INDEX IF NOT EXISTS idx_price_records_recorded_at ON price_records(recorded_at);
	`)
	return err
}

// Append inserts one record. The failing record is named in the error so the
// caller can surface exactly what was lost.
func (pw *PostgresWriter) Append(record *models.PriceRecord) error {
	_, err := pw.db.Exec(`
		INSERT INTO price_records
			(recorded_at, game_id, home_team, away_team, home_price, away_price, game_start, screenshot_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		record.Timestamp, record.GameID, record.Home, record.Away,
		record.HomePrice, record.AwayPrice, record.GameStart, record.ScreenshotPath,
	)
	if err != nil {
		return fmt.Errorf("postgres: append %s: %w", record.GameID, err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
