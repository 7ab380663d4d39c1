// Package sqlite stores surveys and responses in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite
	"survey-service/internal/domain"
)

const defaultDSN = "file:survey.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

// Store persists survey documents as JSON text. Timestamps are kept as
// unix milliseconds for ordering.
type Store struct {
	db *sql.DB
}

// Open opens the database and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer keeps SQLITE_BUSY away under concurrent submits
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM surveys WHERE id = ?`, surveyID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Survey{}, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	if err != nil {
		return domain.Survey{}, fmt.Errorf("load survey: %w", err)
	}
	var survey domain.Survey
	if err := json.Unmarshal([]byte(raw), &survey); err != nil {
		return domain.Survey{}, fmt.Errorf("unmarshal survey: %w", err)
	}
	return survey, nil
}

func (s *Store) SaveSurvey(ctx context.Context, survey domain.Survey) error {
	data, err := json.Marshal(survey)
	if err != nil {
		return fmt.Errorf("marshal survey: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO surveys (id, owner_id, data, created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   owner_id = excluded.owner_id,
		   data = excluded.data,
		   modified_at = excluded.modified_at`,
		survey.ID, survey.OwnerID, string(data), toMillis(survey.CreatedAt), toMillis(survey.ModifiedAt))
	if err != nil {
		return fmt.Errorf("save survey: %w", err)
	}
	return nil
}

func (s *Store) ListSurveys(ctx context.Context, ownerID string) ([]domain.Survey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM surveys WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	surveys := []domain.Survey{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		var survey domain.Survey
		if err := json.Unmarshal([]byte(raw), &survey); err != nil {
			return nil, fmt.Errorf("unmarshal survey: %w", err)
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

func (s *Store) AddResponse(ctx context.Context, response domain.Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO responses (id, survey_id, respondent_id, data, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		response.ID, response.SurveyID, response.RespondentID, string(data), toMillis(response.SubmittedAt))
	if err != nil {
		return fmt.Errorf("add response: %w", err)
	}
	return nil
}

func (s *Store) ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM responses WHERE survey_id = ? ORDER BY submitted_at, id`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		var response domain.Response
		if err := json.Unmarshal([]byte(raw), &response); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

const schema = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS surveys (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  modified_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS surveys_owner_idx ON surveys(owner_id, created_at);

CREATE TABLE IF NOT EXISTS responses (
  id TEXT PRIMARY KEY,
  survey_id TEXT NOT NULL REFERENCES surveys(id),
  respondent_id TEXT NOT NULL,
  data TEXT NOT NULL,
  submitted_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS responses_survey_idx ON responses(survey_id, submitted_at);
`
