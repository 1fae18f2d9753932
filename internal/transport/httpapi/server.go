package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"

	"gurney/internal/application/port/input"
)

const (
	defaultMaxSteps = 20
	maxMaxSteps     = 50
)

type RunRequest struct {
	Prompt   string `json:"prompt"`
	URL      string `json:"url"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

type RunResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunnerFactory builds a fresh agent for one request: its own browser, its
// own log file. The returned closer releases both.
type RunnerFactory func(ctx context.Context, task string, maxSteps int) (input.GoalRunner, func(), error)

type Server struct {
	newRunner RunnerFactory
}

func NewServer(newRunner RunnerFactory) *Server {
	return &Server{newRunner: newRunner}
}

func (s *Server) Handler() http.Handler {
	logger := httplog.NewLogger("gurney", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))

	r.Get("/health", s.handleHealth)
	r.Post("/run", s.handleRun)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RunResponse{Error: "invalid JSON body"})
		return
	}
	if req.Prompt == "" || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, RunResponse{Error: "prompt and url are required"})
		return
	}

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	if maxSteps > maxMaxSteps {
		maxSteps = maxMaxSteps
	}

	runner, closer, err := s.newRunner(r.Context(), req.Prompt, maxSteps)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, RunResponse{Error: err.Error()})
		return
	}
	defer closer()

	result, err := runner.Run(r.Context(), req.Prompt, req.URL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, RunResponse{Error: err.Error()})
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusOK, RunResponse{
			Error: fmt.Sprintf("terminated after %d steps: %s", result.Steps, result.Reason),
		})
		return
	}

	writeJSON(w, http.StatusOK, RunResponse{Success: true, Result: result.Answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
