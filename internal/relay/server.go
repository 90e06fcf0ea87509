package relay

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/prompt"
	"github.com/dshills/gyst/internal/provider"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

const defaultSuggestionCount = 3

// Server hosts the relay API. It holds the upstream credentials; clients
// talk to it unauthenticated and never see upstream status codes.
type Server struct {
	client provider.Client
	log    *zap.Logger
	router *mux.Router
}

// New builds a Server around an upstream backend client.
func New(client provider.Client, log *zap.Logger) *Server {
	s := &Server{client: client, log: log}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/commit", s.handleCommit).Methods(http.MethodPost)
	api.HandleFunc("/commit/suggestions", s.handleSuggestions).Methods(http.MethodPost)
	api.HandleFunc("/command", s.handleCommand).Methods(http.MethodPost)
	r.Use(s.accessLog)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusWriter records the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// accessLog tags every request with a uuid and logs method, path, status,
// and duration.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.Info("request",
			zap.String("request_id", uuid.NewString()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type commitRequest struct {
	Changes gitrepo.ChangeSet `json:"changes"`
	Diff    string            `json:"diff"`
	Count   int               `json:"count,omitempty"`
}

type commitResponse struct {
	Message string `json:"message"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type commandRequest struct {
	Description string `json:"description"`
}

type commandResponse struct {
	Suggestion string `json:"suggestion"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p := prompt.Build(req.Changes, gitrepo.DiffText{Text: req.Diff}, prompt.CommitMessage())
	texts, err := s.client.Generate(r.Context(), p, 1)
	if err != nil || len(texts) == 0 {
		s.upstreamFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, commitResponse{Message: texts[0]})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	count := req.Count
	if count < 1 {
		count = defaultSuggestionCount
	}

	p := prompt.Build(req.Changes, gitrepo.DiffText{Text: req.Diff}, prompt.Suggestions(count))
	texts, err := s.client.Generate(r.Context(), p, count)
	if err != nil || len(texts) == 0 {
		s.upstreamFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: texts})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "description is required"})
		return
	}

	p := prompt.Build(gitrepo.ChangeSet{}, gitrepo.DiffText{}, prompt.Explain(req.Description))
	texts, err := s.client.Generate(r.Context(), p, 1)
	if err != nil || len(texts) == 0 {
		s.upstreamFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Suggestion: texts[0]})
}

// upstreamFailure reports any upstream problem as a bad gateway. The
// upstream status is logged but never forwarded, so a misconfigured relay
// key cannot leak auth details to anonymous clients.
func (s *Server) upstreamFailure(w http.ResponseWriter, err error) {
	if err != nil {
		s.log.Error("upstream generation failed", zap.Error(err))
	} else {
		s.log.Error("upstream returned no content")
	}
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream generation failed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
