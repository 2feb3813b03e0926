package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus/pkg/adapters/exprlang"
	"github.com/aretw0/abacus/pkg/gateway"
	"github.com/aretw0/abacus/pkg/session"
)

// NewGateway returns a gateway over the default expression evaluator.
func NewGateway(opts ...gateway.Option) *gateway.Gateway {
	return gateway.New(exprlang.New(), opts...)
}

// NewSession returns a fresh session over NewGateway.
func NewSession(opts ...session.Option) *session.Session {
	return session.New(NewGateway(), opts...)
}

// NewManager returns a session manager whose sessions share one gateway.
func NewManager() *session.Manager {
	gw := NewGateway()
	return session.NewManager(func(id string) *session.Session {
		return session.New(gw, session.WithID(id))
	})
}

// WriteFile writes content to name inside a fresh temp dir and returns the
// absolute path. It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join(t.TempDir(), name))
	require.NoError(t, err, "Failed to get absolute path for temp file")
	require.NoError(t, os.WriteFile(absPath, []byte(content), 0o644), "Failed to write temp file")

	return absPath
}
