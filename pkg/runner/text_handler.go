package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

const (
	colorResult = "#22c55e"
	colorError  = "#ef4444"
	colorMuted  = "#94a3b8"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Sanitizer Sanitizer

	profile termenv.Profile
	angle   domain.AngleMode

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the renderer used for the history table.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerProfile enables colour output for the given terminal profile.
func WithTextHandlerProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.profile = p
	}
}

// WithTextHandlerMaxInputSize overrides the input size limit.
func WithTextHandlerMaxInputSize(limit int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Sanitizer.Limit = limit
	}
}

// NewTextHandler creates a handler for standard text IO.
// Output is plain (termenv.Ascii) unless a profile is configured.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		profile: termenv.Ascii,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Input prompts for a line and parses it. Invalid lines and :help are
// answered in place and the prompt is shown again.
func (h *TextHandler) Input(ctx context.Context) ([]session.Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			fmt.Fprint(h.Writer, h.prompt())
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return nil, io.EOF
			}
			if res.err != nil {
				return nil, res.err
			}

			clean, err := h.Sanitizer.Clean(strings.TrimRight(res.text, "\r\n"))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}

			cmds, err := ParseLine(clean)
			switch {
			case errors.Is(err, errHelp):
				fmt.Fprint(h.Writer, HelpText)
				continue
			case err != nil && !errors.Is(err, io.EOF):
				fmt.Fprintln(h.Writer, h.style("Error: "+err.Error(), colorError))
				continue
			}
			return cmds, err
		}
	}
}

// Output prints the outcome of an evaluation, the history table for history
// requests, or the edited expression otherwise.
func (h *TextHandler) Output(ctx context.Context, resp Response) error {
	if resp.State != nil {
		h.angle = resp.State.AngleMode
	}

	if resp.Err != nil {
		_, err := fmt.Fprintln(h.Writer, h.style("Error: "+resp.Err.Error(), colorError))
		return err
	}

	if resp.Outcome != nil {
		if resp.Outcome.IsSuccess() {
			_, err := fmt.Fprintln(h.Writer, h.style("= "+resp.Outcome.ResultText, colorResult))
			return err
		}
		_, err := fmt.Fprintln(h.Writer, h.style(domain.InvalidExpressionMessage, colorError))
		return err
	}

	if resp.State == nil {
		return nil
	}

	if resp.State.View == domain.ViewHistory {
		switch resp.last() {
		case session.CmdView, session.CmdClearHistory:
			return h.render(HistoryMarkdown(resp.State.History))
		}
	}

	_, err := fmt.Fprintln(h.Writer, h.style(h.describe(resp.State), colorMuted))
	return err
}

func (h *TextHandler) render(markdown string) error {
	out := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			out = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(out))
	return err
}

func (h *TextHandler) describe(st *domain.State) string {
	expr := st.Expression
	if expr == "" {
		expr = "(empty)"
	}
	return fmt.Sprintf("[%s %s] %s", st.AngleMode.Short(), st.View, expr)
}

func (h *TextHandler) prompt() string {
	if h.angle == "" {
		return "> "
	}
	return h.angle.Short() + "> "
}

func (h *TextHandler) style(text, color string) string {
	return h.profile.String(text).Foreground(h.profile.Color(color)).String()
}
