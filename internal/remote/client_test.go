package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/config"
	gateerrors "github.com/ksyq12/certgate/internal/errors"
)

func testSSHConfig() config.SSHConfig {
	return config.SSHConfig{
		Port:              22,
		KeyFile:           "/nonexistent/key",
		ConnectTimeoutSec: 1,
		CommandTimeoutSec: 1,
	}
}

func TestAction_Valid(t *testing.T) {
	tests := []struct {
		action   Action
		expected bool
	}{
		{ActionCheck, true},
		{ActionRenew, true},
		{Action(""), false},
		{Action("reboot"), false},
		{Action("check; rm -rf /"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			if tt.action.Valid() != tt.expected {
				t.Errorf("Valid(%q) = %v, want %v", tt.action, !tt.expected, tt.expected)
			}
		})
	}
}

func TestClient_Invoke_RejectsUnknownAction(t *testing.T) {
	client := NewClient("acme", "gw.internal", testSSHConfig(), zap.NewNop())

	_, err := client.Invoke(context.Background(), Action("reboot"))
	if err == nil {
		t.Fatal("expected error for unknown action")
	}

	var gateErr *gateerrors.GateError
	if !gateerrors.As(err, &gateErr) || gateErr.Code != gateerrors.ErrCodeInternal {
		t.Errorf("expected INTERNAL error, got %v", err)
	}
}

func TestClient_Invoke_MissingKey(t *testing.T) {
	client := NewClient("acme", "gw.internal", testSSHConfig(), zap.NewNop())

	_, err := client.Invoke(context.Background(), ActionCheck)
	if err == nil {
		t.Fatal("expected error for missing key file")
	}

	var gateErr *gateerrors.GateError
	if !gateerrors.As(err, &gateErr) || gateErr.Code != gateerrors.ErrCodeRemote {
		t.Errorf("expected REMOTE error, got %v", err)
	}
}

func TestMockClient(t *testing.T) {
	t.Run("records calls in order", func(t *testing.T) {
		mock := &MockClient{
			InvokeFunc: func(action Action) (string, error) {
				return "output for " + string(action), nil
			},
		}

		out, err := mock.Invoke(context.Background(), ActionCheck)
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if out != "output for check" {
			t.Errorf("output = %q", out)
		}

		if _, err := mock.Invoke(context.Background(), ActionRenew); err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}

		if len(mock.Calls) != 2 || mock.Calls[0] != ActionCheck || mock.Calls[1] != ActionRenew {
			t.Errorf("Calls = %v, want [check renew]", mock.Calls)
		}
	})

	t.Run("failure propagates with output", func(t *testing.T) {
		mock := &MockClient{
			InvokeFunc: func(action Action) (string, error) {
				return "challenge failed", gateerrors.RemoteFailed(string(action), errors.New("exit status 1"))
			},
		}

		out, err := mock.Invoke(context.Background(), ActionRenew)
		if !gateerrors.Is(err, gateerrors.ErrRemoteCommandFailed) {
			t.Errorf("expected ErrRemoteCommandFailed, got %v", err)
		}
		if out != "challenge failed" {
			t.Errorf("output = %q, want captured output on failure", out)
		}
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		time.Sleep(5 * time.Millisecond)

		mock := &MockClient{}
		_, err := mock.Invoke(ctx, ActionCheck)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", err)
		}
	})
}
