package platform

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/zipfit/core/model"
	coreplatform "github.com/kilianp07/zipfit/core/platform"
)

// MockClient is an in-memory platform used in tests. Batches are served from
// canned sample sets, published models and commands are recorded.
type MockClient struct {
	mu       sync.Mutex
	Batches  map[string]model.SampleSet
	Models   map[string]model.FitResult
	Commands map[string][]coreplatform.Command
	FetchErr error
}

// NewMockClient creates an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		Batches:  make(map[string]model.SampleSet),
		Models:   make(map[string]model.FitResult),
		Commands: make(map[string][]coreplatform.Command),
	}
}

// FetchBatch returns the canned sample set for the load.
func (m *MockClient) FetchBatch(_ context.Context, loadID string, _ time.Duration) (model.SampleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	set, ok := m.Batches[loadID]
	if !ok || len(set) == 0 {
		return nil, coreplatform.ErrEmptyBatch
	}
	return set, nil
}

// SendCommands records the command batch.
func (m *MockClient) SendCommands(_ context.Context, simulationID string, cmds []coreplatform.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands[simulationID] = append(m.Commands[simulationID], cmds...)
	return nil
}

// PublishModel records the fitted model.
func (m *MockClient) PublishModel(_ context.Context, loadID string, result model.FitResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Models[loadID] = result
	return nil
}
