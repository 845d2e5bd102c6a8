package executor

import (
	"context"
	"os/exec"
)

// CommandRunner is an interface for executing local system commands
type CommandRunner interface {
	// Run executes a command with the given name and arguments.
	// The context bounds the command's lifetime.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemRunner implements CommandRunner using os/exec
type SystemRunner struct{}

// NewSystemRunner creates a new SystemRunner
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{}
}

// Run executes a command and returns combined output
func (r *SystemRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (r *SystemRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// MockRunner is a mock implementation for testing
type MockRunner struct {
	RunFunc      func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Run calls the mock function
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
