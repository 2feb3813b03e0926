package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each input line is a command object, an array of command objects, or an
// expression (JSON string or raw text) that is set and evaluated. Each
// response is written as one JSON object.
type JSONHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Encoder   *json.Encoder
	Sanitizer Sanitizer
}

// JSONResponse is the wire form of a Response.
type JSONResponse struct {
	State   *domain.State   `json:"state,omitempty"`
	Outcome *domain.Outcome `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, resp Response) error {
	out := JSONResponse{
		State:   resp.State,
		Outcome: resp.Outcome,
	}
	if resp.Err != nil {
		out.Error = resp.Err.Error()
	}
	return h.Encoder.Encode(out)
}

func (h *JSONHandler) Input(ctx context.Context) ([]session.Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return nil, err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		clean, err := h.Sanitizer.Clean(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return decodeCommands(clean)
	}
}

func decodeCommands(line string) ([]session.Command, error) {
	switch line[0] {
	case '{':
		var cmd session.Command
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			return nil, fmt.Errorf("%w: malformed command: %v", domain.ErrInvalidArgument, err)
		}
		return []session.Command{cmd}, nil
	case '[':
		var cmds []session.Command
		if err := json.Unmarshal([]byte(line), &cmds); err != nil {
			return nil, fmt.Errorf("%w: malformed command list: %v", domain.ErrInvalidArgument, err)
		}
		return cmds, nil
	}

	// Try to unquote if it's a JSON string
	expression := line
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		expression = val
	}
	return []session.Command{
		{Name: session.CmdSet, Text: expression},
		{Name: session.CmdEvaluate},
	}, nil
}
