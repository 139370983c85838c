package memory

import (
	"slices"
	"sync"

	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/repository"
)

type matchRepository struct {
	mu      sync.RWMutex
	matches []*domain.Match // newest batch first
}

func NewMatchRepository() repository.MatchRepository {
	return &matchRepository{}
}

func (r *matchRepository) Prepend(batch []*domain.Match) {
	if len(batch) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(slices.Clone(batch), r.matches...)
}

func (r *matchRepository) All() []*domain.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.matches)
}

func (r *matchRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

func (r *matchRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = nil
}

type newMatchSet struct {
	mu    sync.RWMutex
	order []string
	ids   map[string]struct{}
}

func NewNewMatchSet() repository.NewMatchSet {
	return &newMatchSet{ids: make(map[string]struct{})}
}

func (s *newMatchSet) Replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = slices.Clone(ids)
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

func (s *newMatchSet) Clear(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) == 0 {
		s.order = nil
		s.ids = make(map[string]struct{})
		return
	}
	for _, id := range ids {
		delete(s.ids, id)
	}
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		_, ok := s.ids[id]
		return !ok
	})
}

func (s *newMatchSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *newMatchSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}
