package session_test

import (
	"context"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	steps := []session.Command{
		{Name: session.CmdInsert, Text: "2+3"},
		{Name: session.CmdInsert, Text: "*4"},
	}
	for _, cmd := range steps {
		out, err := s.Apply(ctx, cmd)
		require.NoError(t, err)
		assert.Nil(t, out)
	}

	out, err := s.Apply(ctx, session.Command{Name: session.CmdEvaluate})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, domain.Success("14"), *out)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdBackspace})
	require.NoError(t, err)
	assert.Equal(t, "2+3*", s.State().Expression)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdAnswer})
	require.NoError(t, err)
	assert.Equal(t, "2+3*14", s.State().Expression)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdAngle, Angle: "deg"})
	require.NoError(t, err)
	assert.Equal(t, domain.AngleDegrees, s.State().AngleMode)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdToggleAngle})
	require.NoError(t, err)
	assert.Equal(t, domain.AngleRadians, s.State().AngleMode)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdView, View: "history"})
	require.NoError(t, err)
	assert.Equal(t, "2+3*14", s.State().Expression)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdRecall, Index: 0})
	require.NoError(t, err)
	st := s.State()
	assert.Equal(t, "2+3*4", st.Expression)
	assert.Equal(t, "14", st.Output)
	assert.Equal(t, domain.ViewBasic, st.View)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdSet, Text: "9"})
	require.NoError(t, err)
	assert.Equal(t, "9", s.State().Expression)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdClear})
	require.NoError(t, err)
	assert.Empty(t, s.State().Expression)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdClearHistory})
	require.NoError(t, err)
	assert.Empty(t, s.History())
}

func TestApply_FailedEvaluationIsNotAnError(t *testing.T) {
	s := newSession()
	s.Insert("2+")

	out, err := s.Apply(context.Background(), session.Command{Name: session.CmdEvaluate})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.False(t, out.IsSuccess())
	assert.True(t, s.State().Error)
}

func TestApply_Errors(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	_, err := s.Apply(ctx, session.Command{Name: "explode"})
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdView, View: "graph"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdAngle, Angle: "grad"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdRecall, Index: 3})
	assert.ErrorIs(t, err, domain.ErrHistoryIndex)

	_, err = s.Apply(ctx, session.Command{Name: session.CmdPress, Label: "√"})
	assert.ErrorIs(t, err, domain.ErrUnknownButton)

	assert.Equal(t, domain.NewState(domain.AngleRadians, domain.ViewBasic), s.State())
}

func TestApply_Press(t *testing.T) {
	ctx := context.Background()
	s := newSession(session.WithView(domain.ViewScientific))

	press := func(label string) *domain.Outcome {
		t.Helper()
		out, err := s.Apply(ctx, session.Command{Name: session.CmdPress, Label: label})
		require.NoError(t, err, label)
		return out
	}

	for _, label := range []string{"√", "1", "6", ")", "×", "π"} {
		assert.Nil(t, press(label))
	}
	assert.Equal(t, "sqrt(16)*pi", s.State().Expression)

	out := press("=")
	require.NotNil(t, out)
	assert.True(t, out.IsSuccess())

	press("C")
	press("ANS")
	assert.Empty(t, s.State().Expression)

	// Explicit panel overrides the current view.
	_, err := s.Apply(ctx, session.Command{Name: session.CmdPress, View: "history", Label: "Clear History"})
	require.NoError(t, err)
	assert.Empty(t, s.History())
}

func TestApply_CommandHook(t *testing.T) {
	var names []string
	s := newSession(session.WithLifecycleHooks(domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			names = append(names, e.Command)
		},
	}))

	_, _ = s.Apply(context.Background(), session.Command{Name: session.CmdInsert, Text: "1"})
	_, _ = s.Apply(context.Background(), session.Command{Name: "bogus"})
	_, _ = s.Apply(context.Background(), session.Command{Name: session.CmdEvaluate})

	assert.Equal(t, []string{"insert", "evaluate"}, names)
}
