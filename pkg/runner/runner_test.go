package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus/internal/testutils"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

func runText(t *testing.T, input string) (*session.Session, string) {
	t.Helper()
	sess := testutils.NewSession()
	out := &bytes.Buffer{}
	r := NewRunner(sess, WithInputHandler(NewTextHandler(strings.NewReader(input), out)))
	require.NoError(t, r.Run(context.Background()))
	return sess, out.String()
}

func TestRunner_EvaluatesPlainLines(t *testing.T) {
	sess, out := runText(t, "2+3*4\n:deg\nsin(30)\n:quit\n")

	assert.Contains(t, out, "= 14")
	assert.Contains(t, out, "= 0.5")
	assert.Contains(t, out, "DEG> ")

	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, "sin(30)", history[0].Expression)
	assert.Equal(t, "2+3*4", history[1].Expression)
}

func TestRunner_InvalidExpressionKeepsRunning(t *testing.T) {
	sess, out := runText(t, "2+\n1+1\n")

	assert.Contains(t, out, domain.InvalidExpressionMessage)
	assert.Contains(t, out, "= 2")
	assert.False(t, sess.State().Error)
	assert.Len(t, sess.History(), 1)
}

func TestRunner_HistoryTable(t *testing.T) {
	var rendered string
	sess := testutils.NewSession()
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("1+1\n2*3\n:history\n"), out,
		WithTextHandlerRenderer(func(md string) (string, error) {
			rendered = md
			return md, nil
		}),
	)
	require.NoError(t, NewRunner(sess, WithInputHandler(h)).Run(context.Background()))

	assert.Contains(t, rendered, "| 1 | 2*3 | 6 |")
	assert.Contains(t, rendered, "| 2 | 1+1 | 2 |")
	assert.Equal(t, domain.ViewHistory, sess.State().View)
}

func TestRunner_RejectedCommands(t *testing.T) {
	sess, out := runText(t, ":bogus\n:recall 3\n:view sideways\n7\n")

	assert.Equal(t, 3, strings.Count(out, "Error:"))
	assert.Equal(t, "7", sess.State().Output)
}

func TestRunner_EditingCommands(t *testing.T) {
	sess, out := runText(t, ":insert 12\n:back\n:press +\n:press 4\n:eval\n:ans\n")

	assert.Contains(t, out, "[RAD basic] 1+4")
	assert.Contains(t, out, "= 5")
	assert.Equal(t, "1+45", sess.State().Expression)
}

func TestRunner_HelpIsPrinted(t *testing.T) {
	_, out := runText(t, ":help\n")
	assert.Contains(t, out, ":recall <n>")
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(testutils.NewSession(), WithInputHandler(NewTextHandler(pr, io.Discard)))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestRunner_RequiresSession(t *testing.T) {
	assert.Error(t, NewRunner(nil).Run(context.Background()))
}

func TestRunner_JSONHandler(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"insert","text":"1+1"}`,
		`{"command":"evaluate"}`,
		`"2*3"`,
		`[{"command":"angle","angle":"degrees"},{"command":"set","text":"cos(60)"},{"command":"evaluate"}]`,
		`{bad`,
		``,
		`{"command":"nope"}`,
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	sess := testutils.NewSession()
	r := NewRunner(sess, WithInputHandler(NewJSONHandler(strings.NewReader(input), out)))
	require.NoError(t, r.Run(context.Background()))

	dec := json.NewDecoder(out)
	var responses []JSONResponse
	for {
		var resp JSONResponse
		if err := dec.Decode(&resp); err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		responses = append(responses, resp)
	}
	require.Len(t, responses, 6)

	assert.Nil(t, responses[0].Outcome)
	assert.Equal(t, "1+1", responses[0].State.Expression)

	require.NotNil(t, responses[1].Outcome)
	assert.Equal(t, "2", responses[1].Outcome.ResultText)

	require.NotNil(t, responses[2].Outcome)
	assert.Equal(t, "6", responses[2].Outcome.ResultText)

	require.NotNil(t, responses[3].Outcome)
	assert.Equal(t, "0.5", responses[3].Outcome.ResultText)
	assert.Equal(t, domain.AngleDegrees, responses[3].State.AngleMode)

	assert.NotEmpty(t, responses[4].Error)
	assert.NotEmpty(t, responses[5].Error)
	assert.Len(t, sess.History(), 3)
}
