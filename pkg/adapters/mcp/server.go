package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keypad"
	"github.com/aretw0/abacus/pkg/normalize"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// KeypadURI is the resource holding every button layout.
const KeypadURI = "abacus://keypad"

// Calculator is the stateless evaluation surface the MCP server needs.
type Calculator interface {
	Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (string, domain.Outcome)
	AngleMode() domain.AngleMode
}

// EvaluateResponse is the structured result of the evaluate tool.
type EvaluateResponse struct {
	Expression string           `json:"expression" jsonschema_description:"The expression as received"`
	Normalized string           `json:"normalized" jsonschema_description:"The expression handed to the evaluator"`
	AngleMode  domain.AngleMode `json:"angle_mode" jsonschema_description:"Angle mode used for trigonometric functions"`
	Outcome    domain.Outcome   `json:"outcome" jsonschema_description:"Success with a result, or failure with a reason"`
}

// NormalizeResponse is the structured result of the normalize tool.
type NormalizeResponse struct {
	Normalized string `json:"normalized" jsonschema_description:"The expression after symbol and angle rewriting"`
}

// SessionResponse is the structured result of the session_command tool.
type SessionResponse struct {
	SessionID string          `json:"session_id" jsonschema_description:"The session the command ran against"`
	State     *domain.State   `json:"state" jsonschema_description:"The session state after the command"`
	Outcome   *domain.Outcome `json:"outcome,omitempty" jsonschema_description:"Set when the command evaluated the expression"`
}

// Server exposes a calculator as an MCP Server.
type Server struct {
	calc      Calculator
	sessions  *session.Manager
	sanitizer runner.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
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

// NewServer creates a new MCP Server instance.
func NewServer(calc Calculator, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		calc:      calc,
		sessions:  sessions,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("abacus-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: evaluate
	evaluateTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a calculator expression. Supports + - * / ^ %, parentheses, pi, e, π and sin cos tan asin acos atan sqrt log log10 exp abs."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The expression, e.g. 2+3*4 or sin(30)")),
		mcp.WithString("angle_mode", mcp.Description("radians (default) or degrees"), mcp.Enum("radians", "degrees")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: normalize
	normalizeTool := mcp.NewTool("normalize",
		mcp.WithDescription("Show how an expression is rewritten before evaluation (π substitution and degree conversion)."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The expression to normalize")),
		mcp.WithString("angle_mode", mcp.Description("radians (default) or degrees"), mcp.Enum("radians", "degrees")),
		mcp.WithOutputSchema[NormalizeResponse](),
	)
	s.mcpServer.AddTool(normalizeTool, mcp.NewStructuredToolHandler(s.handleNormalize))

	// TOOL: session_command
	commandTool := mcp.NewTool("session_command",
		mcp.WithDescription("Run a command against a calculator session with history. A new session is created when session_id is omitted."),
		mcp.WithString("session_id", mcp.Description("Session to use (optional)")),
		mcp.WithString("command", mcp.Required(), mcp.Description("One of insert, set, backspace, clear, toggle_angle, angle, view, evaluate, clear_history, recall, ans, press")),
		mcp.WithString("text", mcp.Description("Text for insert and set")),
		mcp.WithString("view", mcp.Description("Target of view, or panel of press")),
		mcp.WithString("angle", mcp.Description("Target of angle")),
		mcp.WithNumber("index", mcp.Description("History position for recall, 0 is the most recent")),
		mcp.WithString("label", mcp.Description("Button label for press")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(commandTool, mcp.NewStructuredToolHandler(s.handleSessionCommand))
}

// Handler methods for structured tools

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	expression, mode, err := s.expressionArgs(args)
	if err != nil {
		return EvaluateResponse{}, err
	}

	normalized, outcome := s.calc.Evaluate(ctx, expression, mode)
	s.logger.Debug("MCP evaluate", "expression", expression, "outcome", outcome.Kind)
	return EvaluateResponse{
		Expression: expression,
		Normalized: normalized,
		AngleMode:  mode,
		Outcome:    outcome,
	}, nil
}

func (s *Server) handleNormalize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NormalizeResponse, error) {
	expression, mode, err := s.expressionArgs(args)
	if err != nil {
		return NormalizeResponse{}, err
	}
	return NormalizeResponse{Normalized: normalize.Normalize(expression, mode)}, nil
}

func (s *Server) handleSessionCommand(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	cmd := session.Command{
		Name:  session.CommandName(stringArg(args, "command")),
		Text:  stringArg(args, "text"),
		View:  stringArg(args, "view"),
		Angle: stringArg(args, "angle"),
		Label: stringArg(args, "label"),
	}
	if idx, ok := args["index"].(float64); ok {
		cmd.Index = int(idx)
	}
	if cmd.Text != "" {
		clean, err := s.sanitizer.Clean(cmd.Text)
		if err != nil {
			s.logger.Warn("MCP session_command: Input rejected", "error", err, "size", len(cmd.Text))
			return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
		}
		cmd.Text = clean
	}

	id := stringArg(args, "session_id")
	if id == "" {
		sess, err := s.sessions.Create(ctx)
		if err != nil {
			return SessionResponse{}, fmt.Errorf("create session: %w", err)
		}
		id = sess.ID()
	}

	resp := SessionResponse{SessionID: id}
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context, sess *session.Session) error {
		outcome, err := sess.Apply(ctx, cmd)
		if err != nil {
			return err
		}
		resp.Outcome = outcome
		resp.State = sess.State()
		return nil
	})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return resp, nil
}

func (s *Server) expressionArgs(args map[string]interface{}) (string, domain.AngleMode, error) {
	mode := s.calc.AngleMode()
	if raw := stringArg(args, "angle_mode"); raw != "" {
		m, err := domain.ParseAngleMode(raw)
		if err != nil {
			return "", "", err
		}
		mode = m
	}

	expression, err := s.sanitizer.Clean(stringArg(args, "expression"))
	if err != nil {
		s.logger.Warn("MCP: Input rejected", "error", err)
		return "", "", fmt.Errorf("input rejected: %w", err)
	}
	return expression, mode, nil
}

func (s *Server) registerResources() {
	// EXPOSE: abacus://keypad
	s.mcpServer.AddResource(mcp.NewResource(KeypadURI, "Calculator keypad layouts",
		mcp.WithResourceDescription("Buttons of the basic, scientific and history panels"),
		mcp.WithMIMEType("application/json"),
	), s.handleKeypad)
}

func (s *Server) handleKeypad(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	layouts := map[domain.ViewMode][]keypad.Button{}
	for _, v := range []domain.ViewMode{domain.ViewBasic, domain.ViewScientific, domain.ViewHistory} {
		layouts[v] = keypad.Layout(v)
	}
	jsonBytes, err := json.Marshal(layouts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keypad: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      KeypadURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}
