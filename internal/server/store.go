package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
)

// analysisEntry is one stored analysis. The engine is only read after
// analysis, but report rendering goes through mu so a future mutating call
// cannot race with readers.
type analysisEntry struct {
	id        string
	createdAt time.Time
	response  *domain.AnalysisResponse

	mu     sync.Mutex
	engine *analyzer.Engine
}

// withEngine runs fn with exclusive access to the entry's engine
func (e *analysisEntry) withEngine(fn func(*analyzer.Engine)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.engine)
}

// analysisStore keeps finished analyses in memory, evicting the oldest
// once more than max are stored
type analysisStore struct {
	mu      sync.RWMutex
	max     int
	order   []string
	entries map[string]*analysisEntry
}

func newAnalysisStore(max int) *analysisStore {
	if max <= 0 {
		max = 1
	}
	return &analysisStore{
		max:     max,
		entries: make(map[string]*analysisEntry),
	}
}

// put stores an analysis under a new random id and returns the entry
func (s *analysisStore) put(resp *domain.AnalysisResponse, engine *analyzer.Engine) *analysisEntry {
	entry := &analysisEntry{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		response:  resp,
		engine:    engine,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.id] = entry
	s.order = append(s.order, entry.id)
	for len(s.order) > s.max {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
	return entry
}

func (s *analysisStore) get(id string) (*analysisEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *analysisStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
