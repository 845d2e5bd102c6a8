package gateway

import "context"

// MockStore is a mock implementation of Store for testing the
// orchestrator. Every call is recorded in order.
type MockStore struct {
	ToggleGeoBlockFunc    func(desired State) error
	ToggleForwardRuleFunc func(label string, desired State) error
	GeoBlockStateFunc     func() (State, error)
	ForwardRuleStateFunc  func(label string) (State, error)
	CommitFunc            func(ctx context.Context) error

	Calls []StoreCall
}

// StoreCall records one Store operation for verification.
type StoreCall struct {
	Op    string // "geo", "forward", "commit"
	Label string
	State State
}

// ToggleGeoBlock records the call and delegates to the mock function.
func (m *MockStore) ToggleGeoBlock(desired State) error {
	m.Calls = append(m.Calls, StoreCall{Op: "geo", State: desired})
	if m.ToggleGeoBlockFunc != nil {
		return m.ToggleGeoBlockFunc(desired)
	}
	return nil
}

// ToggleForwardRule records the call and delegates to the mock function.
func (m *MockStore) ToggleForwardRule(label string, desired State) error {
	m.Calls = append(m.Calls, StoreCall{Op: "forward", Label: label, State: desired})
	if m.ToggleForwardRuleFunc != nil {
		return m.ToggleForwardRuleFunc(label, desired)
	}
	return nil
}

// GeoBlockState delegates to the mock function, defaulting to Closed.
func (m *MockStore) GeoBlockState() (State, error) {
	if m.GeoBlockStateFunc != nil {
		return m.GeoBlockStateFunc()
	}
	return Closed, nil
}

// ForwardRuleState delegates to the mock function, defaulting to Closed.
func (m *MockStore) ForwardRuleState(label string) (State, error) {
	if m.ForwardRuleStateFunc != nil {
		return m.ForwardRuleStateFunc(label)
	}
	return Closed, nil
}

// Commit records the call and delegates to the mock function.
func (m *MockStore) Commit(ctx context.Context) error {
	m.Calls = append(m.Calls, StoreCall{Op: "commit"})
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

// Ops returns just the operation names, in call order.
func (m *MockStore) Ops() []string {
	ops := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		ops = append(ops, c.Op)
	}
	return ops
}
