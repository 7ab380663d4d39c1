package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"survey-service/internal/domain"
)

// Store keeps surveys and responses as JSONB documents in Postgres.
// Owner and timestamps are duplicated into columns for listing.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM surveys WHERE id=$1`, surveyID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Survey{}, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	if err != nil {
		return domain.Survey{}, fmt.Errorf("load survey: %w", err)
	}
	var survey domain.Survey
	if err := json.Unmarshal(raw, &survey); err != nil {
		return domain.Survey{}, fmt.Errorf("unmarshal survey: %w", err)
	}
	return survey, nil
}

func (s *Store) SaveSurvey(ctx context.Context, survey domain.Survey) error {
	data, err := json.Marshal(survey)
	if err != nil {
		return fmt.Errorf("marshal survey: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO surveys (id, owner_id, data, created_at, modified_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET owner_id=EXCLUDED.owner_id, data=EXCLUDED.data, modified_at=EXCLUDED.modified_at`,
		survey.ID, survey.OwnerID, string(data), survey.CreatedAt, survey.ModifiedAt)
	if err != nil {
		return fmt.Errorf("save survey: %w", err)
	}
	return nil
}

func (s *Store) ListSurveys(ctx context.Context, ownerID string) ([]domain.Survey, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM surveys WHERE owner_id=$1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	surveys := []domain.Survey{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		var survey domain.Survey
		if err := json.Unmarshal(raw, &survey); err != nil {
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
	_, err = s.pool.Exec(ctx, `
		INSERT INTO responses (id, survey_id, respondent_id, data, submitted_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)`,
		response.ID, response.SurveyID, response.RespondentID, string(data), response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("add response: %w", err)
	}
	return nil
}

func (s *Store) ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM responses WHERE survey_id=$1 ORDER BY submitted_at, id`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		var response domain.Response
		if err := json.Unmarshal(raw, &response); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}
