package dupr

import "sync"

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spy for method calls
	SearchPlayersFunc func(query string, loc *Location) ([]Candidate, error)

	// Call records
	SearchPlayersCalls []SearchCall
}

// SearchCall records the arguments of one SearchPlayers invocation.
type SearchCall struct {
	Query string
	Loc   *Location
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchPlayersCalls = nil
}

func (m *MockClient) SearchPlayers(query string, loc *Location) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchPlayersCalls = append(m.SearchPlayersCalls, SearchCall{Query: query, Loc: loc})
	if m.SearchPlayersFunc != nil {
		return m.SearchPlayersFunc(query, loc)
	}
	return []Candidate{}, nil
}
