package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"survey-service/internal/auth"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

type submitRequest struct {
	Answers []domain.Answer `json:"answers"`
}

// analyticsView is the summary plus the option labels needed to present it.
type analyticsView struct {
	domain.AnalyticsSummary
	Labels map[string]map[string]string `json:"labels"`
}

func (h *Handler) PublicSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.Public(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "public.get_survey", err)
		return
	}
	render.JSON(w, r, survey)
}

func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, domain.ErrAnswerShape) {
			writeError(w, r, "request.parse_answers", err)
			return
		}
		badRequest(w, r, "request.parse_body", err)
		return
	}
	surveyID := chi.URLParam(r, "id")
	response, err := h.responses.Ingest(r.Context(), surveyID, domain.AnonymousRespondent, req.Answers)
	if err != nil {
		writeError(w, r, "response.ingest", err)
		return
	}
	log.WithFields(log.Fields{"survey": surveyID, "response": response.ID}).Infof("response submitted")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response)
}

func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responses.List(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "db.list_responses", err)
		return
	}
	render.JSON(w, r, responses)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	owner := auth.SubjectFromContext(r.Context())
	surveyID := chi.URLParam(r, "id")
	summary, err := h.analytics.Summary(r.Context(), owner, surveyID)
	if err != nil {
		writeError(w, r, "analytics.summary", err)
		return
	}
	labels, err := h.analytics.Labels(r.Context(), owner, surveyID)
	if err != nil {
		writeError(w, r, "analytics.labels", err)
		return
	}
	render.JSON(w, r, analyticsView{AnalyticsSummary: summary, Labels: labels})
}
