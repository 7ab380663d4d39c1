package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"survey-service/internal/app"
	"survey-service/internal/auth"
	"survey-service/internal/log"
)

// Handler serves the REST API and the websocket endpoints.
type Handler struct {
	surveys   *app.SurveyService
	responses *app.ResponseService
	analytics *app.AnalyticsService
	verifier  *auth.Verifier
	upgrader  websocket.Upgrader
}

func NewHandler(surveys *app.SurveyService, responses *app.ResponseService, analytics *app.AnalyticsService, verifier *auth.Verifier) *Handler {
	return &Handler{
		surveys:   surveys,
		responses: responses,
		analytics: analytics,
		verifier:  verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes wires every endpoint. An empty allowedOrigins allows any origin.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	root := chi.NewRouter()
	root.Use(middleware.RequestID, requestLogger, middleware.Recoverer)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	root.Route("/api", func(api chi.Router) {
		api.Get("/public/surveys/{id}", h.PublicSurvey)
		api.Post("/public/surveys/{id}/responses", h.SubmitResponse)

		api.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.verifier))

			r.Post("/surveys", h.CreateSurvey)
			r.Get("/surveys", h.ListSurveys)
			r.Route("/surveys/{id}", func(r chi.Router) {
				r.Get("/", h.GetSurvey)
				r.Put("/", h.SaveSurvey)
				r.Patch("/name", h.RenameSurvey)
				r.Post("/publish", h.PublishSurvey)
				r.Post("/deactivate", h.DeactivateSurvey)

				r.Post("/questions", h.AddQuestion)
				r.Post("/questions/reorder", h.ReorderQuestions)
				r.Put("/questions/{qid}", h.UpdateQuestion)
				r.Delete("/questions/{qid}", h.DeleteQuestion)
				r.Post("/questions/{qid}/options", h.AddOption)
				r.Put("/questions/{qid}/options/{oid}", h.UpdateOption)
				r.Delete("/questions/{qid}/options/{oid}", h.RemoveOption)

				r.Get("/responses", h.ListResponses)
				r.Get("/analytics", h.Analytics)
			})
		})
	})

	root.Get("/ws/respond", h.ServeRespondWS)
	root.With(auth.Middleware(h.verifier)).Get("/ws/results", h.ServeResultsWS)

	return root
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
			"req_id":   middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}
