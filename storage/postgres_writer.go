package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// PostgresWriter mirrors enriched candidates into PostgreSQL for downstream
// querying. The line stores stay the durability source of truth; this sink
// upserts by candidate id so re-exporting after a resumed run converges on
// the latest record per candidate.
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
		CREATE TABLE IF NOT EXISTS candidates (
			id            SERIAL PRIMARY KEY,
			candidate_id  TEXT        UNIQUE NOT NULL,
			name          TEXT        NOT NULL DEFAULT '',
			position      TEXT        NOT NULL DEFAULT '',
			specialty     TEXT        NOT NULL DEFAULT '',
			email         TEXT        NOT NULL DEFAULT '',
			phone         TEXT        NOT NULL DEFAULT '',
			location      TEXT        NOT NULL DEFAULT '',
			salary        TEXT        NOT NULL DEFAULT '',
			education     TEXT        NOT NULL DEFAULT '',
			skills        TEXT        NOT NULL DEFAULT '',
			experience    TEXT        NOT NULL DEFAULT '',
			url           TEXT        NOT NULL DEFAULT '',
			last_updated  TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_candidates_location ON candidates(location);
		CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position);
	`)
	return err
}

// Write upserts all candidates in batches keyed by candidate_id. Records
// without an identifier are skipped — there is nothing stable to key the
// upsert on.
func (pw *PostgresWriter) Write(candidates []models.Candidate) error {
	keyed := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != "" {
			keyed = append(keyed, c)
		}
	}
	if len(keyed) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(keyed); i += batchSize {
		end := i + batchSize
		if end > len(keyed) {
			end = len(keyed)
		}
		if err := pw.upsertBatch(keyed[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) upsertBatch(batch []models.Candidate) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*13)

	for idx, c := range batch {
		base := idx * 13
		placeholders := make([]string, 13)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		row := flattenCandidate(c)
		// flattenCandidate follows flatHeaders order; pick the columns the
		// table keeps.
		var updated interface{}
		if !c.UpdatedAt.IsZero() {
			updated = c.UpdatedAt
		}
		valueArgs = append(valueArgs,
			c.ID, c.Name, c.Position, c.Specialty, c.Email, c.Phone,
			c.Location, c.Salary, c.Education,
			row[15], // skills, joined
			row[16], // experience summary
			c.URL, updated)
	}

	query := fmt.Sprintf(`
		INSERT INTO candidates (candidate_id, name, position, specialty, email, phone,
		                        location, salary, education, skills, experience, url, last_updated)
		VALUES %s
		ON CONFLICT (candidate_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			specialty = EXCLUDED.specialty,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			salary = EXCLUDED.salary,
			education = EXCLUDED.education,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			url = EXCLUDED.url,
			last_updated = EXCLUDED.last_updated
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close closes the underlying database handle.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
