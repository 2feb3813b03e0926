package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keypad"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// Calculator is the stateless evaluation surface the server needs.
type Calculator interface {
	Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (string, domain.Outcome)
	AngleMode() domain.AngleMode
}

// Server exposes calculator sessions over HTTP.
type Server struct {
	Calculator Calculator
	Sessions   *session.Manager
	Streams    *StreamManager
	Version    string

	sanitizer runner.Sanitizer
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize overrides the size limit applied to expressions.
func WithMaxInputSize(limit int) Option {
	return func(s *Server) {
		s.sanitizer.Limit = limit
	}
}

// WithMetricsHandler mounts a metrics handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewServer creates a Server over a calculator and its session manager.
func NewServer(calc Calculator, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Calculator: calc,
		Sessions:   sessions,
		Version:    "dev",
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for a calculator.
func NewHandler(calc Calculator, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(calc, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/swagger", s.GetSwagger)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.With(s.validateBody("/evaluate", http.MethodPost)).Post("/evaluate", s.Evaluate)
	r.Get("/keypad/{view}", s.GetKeypad)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.With(s.validateBody("/sessions/{id}/commands", http.MethodPost)).Post("/commands", s.ApplyCommands)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode,omitempty"`
}

// EvaluateResponse is the reply of POST /evaluate.
type EvaluateResponse struct {
	Expression string           `json:"expression"`
	Normalized string           `json:"normalized"`
	AngleMode  domain.AngleMode `json:"angle_mode"`
	Outcome    domain.Outcome   `json:"outcome"`
}

// SessionResponse carries a session snapshot.
type SessionResponse struct {
	ID      string          `json:"id"`
	State   *domain.State   `json:"state"`
	Outcome *domain.Outcome `json:"outcome,omitempty"`
}

// KeypadResponse is the reply of GET /keypad/{view}.
type KeypadResponse struct {
	View    domain.ViewMode `json:"view"`
	Title   string          `json:"title"`
	Buttons []keypad.Button `json:"buttons"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":        "abacus-http",
		"version":    strings.TrimSpace(s.Version),
		"angle_mode": string(s.Calculator.AngleMode()),
	})
}

// Evaluate handles the POST /evaluate request. Evaluation failures are
// reported in the outcome with status 200.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Evaluate: Invalid request body", err)
		return
	}

	mode := s.Calculator.AngleMode()
	if body.AngleMode != "" {
		m, err := domain.ParseAngleMode(body.AngleMode)
		if err != nil {
			s.badRequest(w, "Evaluate: Invalid angle mode", err)
			return
		}
		mode = m
	}

	expression, err := s.sanitizer.Clean(body.Expression)
	if err != nil {
		s.badRequest(w, "Evaluate: Input rejected", err)
		return
	}

	normalized, outcome := s.Calculator.Evaluate(r.Context(), expression, mode)
	s.writeJSON(w, http.StatusOK, EvaluateResponse{
		Expression: expression,
		Normalized: normalized,
		AngleMode:  mode,
		Outcome:    outcome,
	})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.fail(w, "CreateSession failed", err)
		return
	}
	s.logger.Info("Session created", "session_id", sess.ID())
	s.writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID(), State: sess.State()})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "GetSession failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{ID: id, State: sess.State()})
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteSession failed", err)
		return
	}
	s.logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ApplyCommands handles the POST /sessions/{id}/commands request.
// The body is one command object or an array of them; commands run in order
// under the session lock and stop at the first rejected one.
func (s *Server) ApplyCommands(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cmds, err := decodeCommands(r.Body)
	if err != nil {
		s.badRequest(w, "ApplyCommands: Invalid request body", err)
		return
	}
	for i := range cmds {
		if cmds[i].Text == "" {
			continue
		}
		clean, err := s.sanitizer.Clean(cmds[i].Text)
		if err != nil {
			s.badRequest(w, "ApplyCommands: Input rejected", err)
			return
		}
		cmds[i].Text = clean
	}

	var resp SessionResponse
	err = s.Sessions.WithLock(r.Context(), id, func(ctx context.Context, sess *session.Session) error {
		before := sess.State()
		defer func() {
			resp.State = sess.State()
			s.broadcastDiff(id, before, resp.State)
		}()

		for _, cmd := range cmds {
			outcome, err := sess.Apply(ctx, cmd)
			if err != nil {
				return err
			}
			if outcome != nil {
				resp.Outcome = outcome
			}
		}
		return nil
	})
	if err != nil {
		s.fail(w, "ApplyCommands failed", err)
		return
	}

	resp.ID = id
	s.writeJSON(w, http.StatusOK, resp)
}

// GetKeypad handles the GET /keypad/{view} request.
func (s *Server) GetKeypad(w http.ResponseWriter, r *http.Request) {
	view, err := domain.ParseViewMode(chi.URLParam(r, "view"))
	if err != nil {
		s.fail(w, "GetKeypad failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, KeypadResponse{
		View:    view,
		Title:   view.Title(),
		Buttons: keypad.Layout(view),
	})
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// The optional watch parameter is a comma separated list of state fields;
// diffs touching none of them are skipped.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), id); err != nil {
		s.fail(w, "SubscribeEvents failed", err)
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastDiff(id string, before, after *domain.State) {
	diff := domain.Diff(id, before, after)
	if diff == nil {
		s.logger.Debug("ApplyCommands: No diff calculated", "session_id", id)
		return
	}
	if bytes, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(id, string(bytes))
	}
}

func watched(msg string, fields []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "expression":
			if diff.Expression != nil {
				return true
			}
		case "output":
			if diff.Output != nil || diff.Error != nil {
				return true
			}
		case "angle_mode":
			if diff.AngleMode != nil {
				return true
			}
		case "view":
			if diff.View != nil {
				return true
			}
		case "history":
			if diff.History != nil {
				return true
			}
		}
	}
	return false
}

func decodeCommands(body io.Reader) ([]session.Command, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var cmds []session.Command
		if err := json.Unmarshal(raw, &cmds); err != nil {
			return nil, err
		}
		return cmds, nil
	}
	var cmd session.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, err
	}
	return []session.Command{cmd}, nil
}

// -- Helpers --

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrHistoryIndex),
		errors.Is(err, domain.ErrUnknownButton),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(msg, "error", err)
	} else {
		s.logger.Warn(msg, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string, err error) {
	s.logger.Warn(msg, "error", err)
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
