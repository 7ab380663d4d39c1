package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"survey-service/internal/app"
	"survey-service/internal/auth"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

type nameRequest struct {
	Name string `json:"name"`
}

type questionRequest struct {
	Type string `json:"type"`
}

type reorderRequest struct {
	Source int `json:"source"`
	Dest   int `json:"dest"`
}

type optionRequest struct {
	Label string `json:"label"`
}

func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	survey, err := h.surveys.Create(r.Context(), auth.SubjectFromContext(r.Context()), req.Name)
	if err != nil {
		writeError(w, r, "survey.create", err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, survey)
}

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.surveys.List(r.Context(), auth.SubjectFromContext(r.Context()))
	if err != nil {
		writeError(w, r, "survey.list", err)
		return
	}
	render.JSON(w, r, surveys)
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.Get(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "survey.get", err)
		return
	}
	render.JSON(w, r, survey)
}

func (h *Handler) SaveSurvey(w http.ResponseWriter, r *http.Request) {
	var def domain.Survey
	if err := render.DecodeJSON(r.Body, &def); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	def.ID = chi.URLParam(r, "id")
	survey, err := h.surveys.Save(r.Context(), auth.SubjectFromContext(r.Context()), def)
	if err != nil {
		writeError(w, r, "survey.save", err)
		return
	}
	render.JSON(w, r, survey)
}

func (h *Handler) RenameSurvey(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	survey, err := h.surveys.Rename(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, r, "survey.rename", err)
		return
	}
	render.JSON(w, r, survey)
}

func (h *Handler) PublishSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.Publish(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "survey.publish", err)
		return
	}
	log.WithField("survey", survey.ID).Info("survey published")
	render.JSON(w, r, survey)
}

func (h *Handler) DeactivateSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.Deactivate(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "survey.deactivate", err)
		return
	}
	log.WithField("survey", survey.ID).Info("survey deactivated")
	render.JSON(w, r, survey)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	t, err := domain.ParseQuestionType(req.Type)
	if err != nil {
		writeError(w, r, "question.parse_type", err)
		return
	}
	q, err := h.surveys.AddQuestion(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"), t)
	if err != nil {
		writeError(w, r, "question.add", err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var patch app.QuestionPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	q, err := h.surveys.UpdateQuestion(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "qid"), patch)
	if err != nil {
		writeError(w, r, "question.update", err)
		return
	}
	render.JSON(w, r, q)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.DeleteQuestion(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "qid"))
	if err != nil {
		writeError(w, r, "question.delete", err)
		return
	}
	render.JSON(w, r, survey)
}

func (h *Handler) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	survey, err := h.surveys.MoveQuestion(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), req.Source, req.Dest)
	if err != nil {
		writeError(w, r, "question.reorder", err)
		return
	}
	log.WithFields(log.Fields{"survey": survey.ID, "source": req.Source, "dest": req.Dest}).Debugf("questions reordered")
	render.JSON(w, r, survey)
}

func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	opt, err := h.surveys.AddOption(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "qid"), req.Label)
	if err != nil {
		writeError(w, r, "option.add", err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, opt)
}

func (h *Handler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "request.parse_body", err)
		return
	}
	opt, err := h.surveys.UpdateOption(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "qid"), chi.URLParam(r, "oid"), req.Label)
	if err != nil {
		writeError(w, r, "option.update", err)
		return
	}
	render.JSON(w, r, opt)
}

func (h *Handler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.RemoveOption(r.Context(), auth.SubjectFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "qid"), chi.URLParam(r, "oid"))
	if err != nil {
		writeError(w, r, "option.remove", err)
		return
	}
	render.JSON(w, r, survey)
}
