// Package client calls the survey-storage and response-ingestion endpoints
// of a running survey service. It is the library remote form runners use:
// a Client satisfies app.Ingestor, so an app.ResponseSession can submit
// through it from another process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"survey-service/internal/auth"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

// Client maps HTTP outcomes onto the domain error taxonomy: 404 becomes
// ErrSurveyNotFound, 401 tears the session down and becomes ErrUnauthorized,
// and anything else that is not 2xx (or never reached the server) becomes a
// *domain.TransportError.
type Client struct {
	baseURL string
	http    *http.Client
	session *auth.Session
}

func New(baseURL string, session *auth.Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// LoadSurvey fetches an owned survey definition.
func (c *Client) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	var survey domain.Survey
	err := c.call(ctx, "load_survey", http.MethodGet, "/api/surveys/"+url.PathEscape(surveyID), true, nil, &survey)
	return survey, err
}

// LoadPublicSurvey fetches a published survey without credentials.
func (c *Client) LoadPublicSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	var survey domain.Survey
	err := c.call(ctx, "load_public_survey", http.MethodGet, "/api/public/surveys/"+url.PathEscape(surveyID), false, nil, &survey)
	return survey, err
}

func (c *Client) SaveSurvey(ctx context.Context, survey domain.Survey) (domain.Survey, error) {
	var saved domain.Survey
	err := c.call(ctx, "save_survey", http.MethodPut, "/api/surveys/"+url.PathEscape(survey.ID), true, survey, &saved)
	return saved, err
}

// SubmitResponse posts a normalized answer list. It satisfies app.Ingestor,
// so a ResponseSession can submit to a remote service.
func (c *Client) SubmitResponse(ctx context.Context, surveyID string, answers []domain.Answer) error {
	body := struct {
		Answers []domain.Answer `json:"answers"`
	}{Answers: answers}
	return c.call(ctx, "submit_response", http.MethodPost,
		"/api/public/surveys/"+url.PathEscape(surveyID)+"/responses", false, body, nil)
}

func (c *Client) ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	var responses []domain.Response
	err := c.call(ctx, "list_responses", http.MethodGet,
		"/api/surveys/"+url.PathEscape(surveyID)+"/responses", true, nil, &responses)
	return responses, err
}

func (c *Client) call(ctx context.Context, op, method, path string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := c.session.Token()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if authenticated {
			c.session.Teardown()
		}
		log.WithField("op", op).Info("credential rejected, session torn down")
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrSurveyNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var payload struct {
			Unanswered []string `json:"unanswered"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			return &domain.IncompleteSubmissionError{Unanswered: payload.Unanswered}
		}
		return &domain.TransportError{Op: op, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
