package resolver

import (
	"sync"

	"github.com/duprtools/duprpool/internal/dupr"
)

// MockChooser is a mock implementation of the Chooser interface for
// testing. It is safe for concurrent use.
type MockChooser struct {
	mu sync.Mutex

	// Spy for method calls
	ChooseFunc func(searchName string, candidates []RankedCandidate) *dupr.Candidate

	// Call records
	ChooseCalls []ChooseCall
}

// ChooseCall records the arguments of one Choose invocation.
type ChooseCall struct {
	SearchName string
	Candidates []RankedCandidate
}

// NewMockChooser creates a new mock instance.
func NewMockChooser() *MockChooser {
	return &MockChooser{}
}

func (m *MockChooser) Choose(searchName string, candidates []RankedCandidate) *dupr.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChooseCalls = append(m.ChooseCalls, ChooseCall{SearchName: searchName, Candidates: candidates})
	if m.ChooseFunc != nil {
		return m.ChooseFunc(searchName, candidates)
	}
	return nil
}
