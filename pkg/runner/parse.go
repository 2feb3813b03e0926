package runner

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// CommandPrefix marks a REPL line as a command instead of an expression.
const CommandPrefix = ":"

// errHelp is returned by ParseLine for :help; handlers print HelpText.
var errHelp = errors.New("help requested")

// HelpText lists the REPL commands.
const HelpText = `Type an expression and press enter to evaluate it.
An empty line evaluates the current expression again.

  :insert <text>   append text to the expression
  :back            delete the last character
  :clear           clear the expression
  :eval            evaluate the current expression
  :ans             append the last answer
  :deg | :rad      switch angle mode
  :angle           toggle angle mode
  :view <name>     switch to basic, scientific or history
  :history         show the history
  :recall <n>      load history entry n (1 is the most recent)
  :clearhistory    forget every history entry
  :press <label>   press a keypad button of the current view
  :help            show this help
  :quit            leave
`

// ParseLine translates one REPL line into session commands.
//
// A plain line replaces the expression and evaluates it. io.EOF is returned
// for quit requests.
func ParseLine(line string) ([]session.Command, error) {
	line = strings.TrimSpace(line)

	switch line {
	case "":
		return []session.Command{{Name: session.CmdEvaluate}}, nil
	case "exit", "quit":
		return nil, io.EOF
	}

	if !strings.HasPrefix(line, CommandPrefix) {
		return []session.Command{
			{Name: session.CmdSet, Text: line},
			{Name: session.CmdEvaluate},
		}, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, CommandPrefix), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return nil, io.EOF
	case "h", "help", "?":
		return nil, errHelp
	case "insert", "i":
		if arg == "" {
			return nil, fmt.Errorf("%w: :insert needs text", domain.ErrInvalidArgument)
		}
		return single(session.Command{Name: session.CmdInsert, Text: arg}), nil
	case "back", "b":
		return single(session.Command{Name: session.CmdBackspace}), nil
	case "clear", "c":
		return single(session.Command{Name: session.CmdClear}), nil
	case "eval", "=":
		return single(session.Command{Name: session.CmdEvaluate}), nil
	case "ans":
		return single(session.Command{Name: session.CmdAnswer}), nil
	case "deg":
		return single(session.Command{Name: session.CmdAngle, Angle: string(domain.AngleDegrees)}), nil
	case "rad":
		return single(session.Command{Name: session.CmdAngle, Angle: string(domain.AngleRadians)}), nil
	case "angle":
		if arg != "" {
			return single(session.Command{Name: session.CmdAngle, Angle: arg}), nil
		}
		return single(session.Command{Name: session.CmdToggleAngle}), nil
	case "view", "v":
		if arg == "" {
			return nil, fmt.Errorf("%w: :view needs basic, scientific or history", domain.ErrInvalidArgument)
		}
		return single(session.Command{Name: session.CmdView, View: arg}), nil
	case "history":
		return single(session.Command{Name: session.CmdView, View: string(domain.ViewHistory)}), nil
	case "recall", "r":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: :recall needs a positive entry number", domain.ErrInvalidArgument)
		}
		return single(session.Command{Name: session.CmdRecall, Index: n - 1}), nil
	case "clearhistory":
		return single(session.Command{Name: session.CmdClearHistory}), nil
	case "press", "p":
		if arg == "" {
			return nil, fmt.Errorf("%w: :press needs a button label", domain.ErrInvalidArgument)
		}
		return single(session.Command{Name: session.CmdPress, Label: arg}), nil
	}

	return nil, fmt.Errorf("%w: %s%s", domain.ErrUnknownCommand, CommandPrefix, name)
}

func single(cmd session.Command) []session.Command {
	return []session.Command{cmd}
}
