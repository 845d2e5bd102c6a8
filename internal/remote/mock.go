package remote

import "context"

// MockClient is a mock implementation of ActionClient for testing.
type MockClient struct {
	InvokeFunc func(action Action) (string, error)
	Calls      []Action
}

// Invoke records the call and delegates to the mock function.
func (m *MockClient) Invoke(ctx context.Context, action Action) (string, error) {
	m.Calls = append(m.Calls, action)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.InvokeFunc != nil {
		return m.InvokeFunc(action)
	}
	return "", nil
}
