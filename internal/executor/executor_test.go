package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSystemRunner_Run(t *testing.T) {
	runner := NewSystemRunner()

	t.Run("echo command", func(t *testing.T) {
		output, err := runner.Run(context.Background(), "echo", "hello")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if string(output) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(output))
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := runner.Run(ctx, "sleep", "5")
		if err == nil {
			t.Error("expected error for cancelled command")
		}
	})
}

func TestSystemRunner_LookPath(t *testing.T) {
	runner := NewSystemRunner()

	t.Run("find sh", func(t *testing.T) {
		path, err := runner.LookPath("sh")
		if err != nil {
			t.Fatalf("LookPath failed: %v", err)
		}
		if path == "" {
			t.Error("expected non-empty path")
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := runner.LookPath("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestMockRunner_Run(t *testing.T) {
	t.Run("default behavior", func(t *testing.T) {
		mock := &MockRunner{}
		output, err := mock.Run(context.Background(), "filterctl", "reload")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if string(output) != "" {
			t.Errorf("expected empty output, got '%s'", string(output))
		}
		if len(mock.Calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(mock.Calls))
		}
		if mock.Calls[0].Name != "filterctl" {
			t.Errorf("expected command 'filterctl', got '%s'", mock.Calls[0].Name)
		}
	})

	t.Run("custom function", func(t *testing.T) {
		mock := &MockRunner{
			RunFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("reloaded"), nil
			},
		}
		output, err := mock.Run(context.Background(), "filterctl", "reload")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if string(output) != "reloaded" {
			t.Errorf("expected 'reloaded', got '%s'", string(output))
		}
	})

	t.Run("error case", func(t *testing.T) {
		mock := &MockRunner{
			RunFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("error output"), errors.New("mock error")
			},
		}
		output, err := mock.Run(context.Background(), "filterctl", "reload")
		if err == nil {
			t.Error("expected error")
		}
		if string(output) != "error output" {
			t.Errorf("expected 'error output', got '%s'", string(output))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		mock := &MockRunner{}
		_, err := mock.Run(ctx, "filterctl", "reload")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestMockRunner_LookPath(t *testing.T) {
	t.Run("default behavior", func(t *testing.T) {
		mock := &MockRunner{}
		path, err := mock.LookPath("filterctl")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if path != "/usr/bin/filterctl" {
			t.Errorf("expected '/usr/bin/filterctl', got '%s'", path)
		}
	})

	t.Run("custom function", func(t *testing.T) {
		mock := &MockRunner{
			LookPathFunc: func(file string) (string, error) {
				if file == "filterctl" {
					return "/usr/local/sbin/filterctl", nil
				}
				return "", errors.New("not found")
			},
		}

		path, err := mock.LookPath("filterctl")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if path != "/usr/local/sbin/filterctl" {
			t.Errorf("expected '/usr/local/sbin/filterctl', got '%s'", path)
		}

		_, err = mock.LookPath("unknown")
		if err == nil {
			t.Error("expected error for unknown command")
		}
	})
}
