package mcp

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Serve:
// - Serve returns nil promptly once the client closes stdin

// Not parallel: replaces os.Stdin.
func TestServe_ReturnsWhenStdinCloses(t *testing.T) {
	s, err := NewMCPServer(testExtractor(), t.TempDir())
	require.NoError(t, err)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	prevStdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = prevStdin
		_ = r.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	assert.NoError(t, s.Serve(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
}
