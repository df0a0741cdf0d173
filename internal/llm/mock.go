package llm

import "context"

// Mock is a scripted Client for tests.
type Mock struct {
	// Responses are returned in order; the last one repeats.
	Responses []ChatResponse

	// Err, if set, is returned from every Chat call.
	Err error

	// Calls records every Chat invocation.
	Calls []MockCall

	next int
}

// MockCall captures the inputs of one Chat invocation.
type MockCall struct {
	Messages []Message
	Tools    []ToolDef
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Chat(_ context.Context, messages []Message, tools []ToolDef) (*ChatResponse, error) {
	m.Calls = append(m.Calls, MockCall{Messages: messages, Tools: tools})
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return &ChatResponse{Message: Message{Role: RoleAssistant}}, nil
	}
	resp := m.Responses[m.next]
	if m.next < len(m.Responses)-1 {
		m.next++
	}
	return &resp, nil
}
