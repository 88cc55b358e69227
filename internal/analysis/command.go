package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single generator invocation.
const DefaultTimeout = 60 * time.Second

// CommandGenerator runs an external program per prompt: the prompt is written
// to stdin and trimmed stdout is the response.
type CommandGenerator struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// NewCommandGenerator creates a generator for command. A zero timeout uses
// DefaultTimeout.
func NewCommandGenerator(command string, args []string, timeout time.Duration) (*CommandGenerator, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("generator command is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandGenerator{Command: command, Args: args, Timeout: timeout}, nil
}

// Generate executes the command with the prompt on stdin.
func (g *CommandGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, g.Command, g.Args...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("generator timed out after %s", g.Timeout)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("generator error: %s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("generator failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
