package stubservice

import (
	"sync"
	"time"

	"github.com/yildizm/ResumeLens/internal/api"
)

type entry struct {
	id         int64
	filename   string
	uploadedAt time.Time
	extracted  api.ExtractedData
	feedback   api.Feedback
}

// Store keeps analyses in memory for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*entry
	now     func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// Add stores an analysis and returns its id
func (s *Store) Add(filename string, extracted api.ExtractedData, feedback api.Feedback) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		id:         s.nextID,
		filename:   filename,
		uploadedAt: s.now(),
		extracted:  extracted,
		feedback:   feedback,
	}
	s.nextID++
	s.entries = append(s.entries, e)
	return e.id
}

// list returns all entries, most recent upload first
func (s *Store) list() []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// get returns the entry with id
func (s *Store) get(id int64) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.id == id {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of stored analyses
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
