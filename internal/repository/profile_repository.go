package repository

import (
	"iter"

	"github.com/skillswap/skillswap-backend/internal/domain"
)

// ProfileRepository is the append-only profile store of a session.
type ProfileRepository interface {
	Add(profile *domain.Profile) *domain.Profile
	// All returns a snapshot of every stored profile, most recent first.
	All() []*domain.Profile
	Filter(predicate func(*domain.Profile) bool) iter.Seq[*domain.Profile]
	Count() int
	Reset()
}
