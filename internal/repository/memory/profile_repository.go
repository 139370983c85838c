package memory

import (
	"iter"
	"slices"
	"sync"

	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/repository"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles []*domain.Profile // insertion order
}

func NewProfileRepository() repository.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Add(profile *domain.Profile) *domain.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, profile)
	return profile
}

func (r *profileRepository) All() []*domain.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.profiles)
	slices.Reverse(out)
	return out
}

// Filter walks a snapshot taken when iteration starts, so yielding callers
// never hold the store lock.
func (r *profileRepository) Filter(predicate func(*domain.Profile) bool) iter.Seq[*domain.Profile] {
	return func(yield func(*domain.Profile) bool) {
		for _, p := range r.All() {
			if !predicate(p) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func (r *profileRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func (r *profileRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = nil
}
