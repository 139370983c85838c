package repository

import "github.com/skillswap/skillswap-backend/internal/domain"

// MatchRepository is the append-only match store of a session.
type MatchRepository interface {
	// Prepend stores a discovery batch ahead of all earlier matches,
	// keeping the batch's own order.
	Prepend(batch []*domain.Match)
	All() []*domain.Match
	Count() int
	Reset()
}

// NewMatchSet holds the ids of matches flagged as freshly found.
type NewMatchSet interface {
	// Replace discards the current ids and flags exactly ids.
	Replace(ids []string)
	// Clear unflags ids, or every id when none are given.
	Clear(ids ...string)
	Contains(id string) bool
	IDs() []string
}
