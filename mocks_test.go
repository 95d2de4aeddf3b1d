package eureka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zoobzio/zyn"
)

// mockProvider implements Provider for testing without an LLM backend.
// Responses are shaped for the transform synapse; prompts are captured so
// tests can assert on request construction.
type mockProvider struct {
	callCount int
	failures  int      // fail the first N calls
	failAll   bool     // fail every call
	responses []string // per-call output text; last entry repeats
	prompts   []string // last message content per call
}

func (m *mockProvider) Call(_ context.Context, messages []zyn.Message, _ float32) (*zyn.ProviderResponse, error) {
	m.callCount++

	if len(messages) > 0 {
		m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	}

	if m.failAll || m.callCount <= m.failures {
		return nil, fmt.Errorf("mock generation failure on call %d", m.callCount)
	}

	output := fmt.Sprintf("Generated response %d", m.callCount)
	if len(m.responses) > 0 {
		idx := m.callCount - m.failures - 1
		if idx >= len(m.responses) {
			idx = len(m.responses) - 1
		}
		output = m.responses[idx]
	}

	content, err := json.Marshal(map[string]any{
		"output":     output,
		"confidence": 0.9,
		"changes":    []string{"generated"},
		"reasoning":  []string{"mock"},
	})
	if err != nil {
		return nil, err
	}

	return &zyn.ProviderResponse{
		Content: string(content),
		Usage:   zyn.TokenUsage{Prompt: 10, Completion: 20, Total: 30},
	}, nil
}

func (m *mockProvider) Name() string {
	return "mock-provider"
}

// lastPrompt returns the most recently captured request text.
func (m *mockProvider) lastPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// promptsContain reports whether any captured request carries the text.
func (m *mockProvider) promptsContain(text string) bool {
	for _, p := range m.prompts {
		if strings.Contains(p, text) {
			return true
		}
	}
	return false
}

// mockExecutor implements Executor with a scripted outcome sequence.
type mockExecutor struct {
	callCount int
	results   []TestResult // per-call; last entry repeats
	vals      []Validation
	err       error // returned on every call when non-nil
}

func (m *mockExecutor) Execute(_ context.Context, _ string) (TestResult, Validation, error) {
	m.callCount++
	if m.err != nil {
		return TestResult{}, Validation{}, m.err
	}

	idx := m.callCount - 1
	result := TestResult{Success: true}
	if len(m.results) > 0 {
		if idx >= len(m.results) {
			idx = len(m.results) - 1
		}
		result = m.results[idx]
	}

	validation := Validation{MeetsGoal: result.Success, Confidence: 0.9}
	if len(m.vals) > 0 {
		vidx := m.callCount - 1
		if vidx >= len(m.vals) {
			vidx = len(m.vals) - 1
		}
		validation = m.vals[vidx]
	}

	return result, validation, nil
}

// mockCatalogueStore implements CatalogueStore in memory, with scriptable
// failures and save counting.
type mockCatalogueStore struct {
	catalogue *Catalogue // returned by Load when non-nil
	loadErr   error
	saveErr   error
	saveCount int
	saved     *Catalogue // last catalogue passed to Save
}

func (m *mockCatalogueStore) Load(_ context.Context) (*Catalogue, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.catalogue == nil {
		return nil, fmt.Errorf("no catalogue")
	}
	return m.catalogue, nil
}

func (m *mockCatalogueStore) Save(_ context.Context, catalogue *Catalogue) error {
	m.saveCount++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = catalogue
	return nil
}

// mockEmbedder implements Embedder with fixed vectors per text prefix.
type mockEmbedder struct {
	callCount int
	vectors   map[string][]float32 // keyed by text prefix
	fallback  []float32
	err       error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	for prefix, vec := range m.vectors {
		if strings.HasPrefix(text, prefix) {
			return vec, nil
		}
	}
	return m.fallback, nil
}

func (m *mockEmbedder) Dimensions() int {
	return 2
}

// newSeededStore creates an in-memory store over the seed catalogue.
func newSeededStore() *Store {
	return NewStore(context.Background(), nil)
}

var (
	_ Provider       = (*mockProvider)(nil)
	_ Executor       = (*mockExecutor)(nil)
	_ CatalogueStore = (*mockCatalogueStore)(nil)
	_ Embedder       = (*mockEmbedder)(nil)
)
