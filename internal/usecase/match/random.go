package match

import "github.com/skillswap/skillswap-backend/internal/domain"

// IntN is satisfied by *rand.Rand from math/rand/v2.
type IntN interface {
	IntN(n int) int
}

// PickRandom returns a uniformly chosen match, or false when matches is
// empty.
func PickRandom(matches []*domain.Match, rng IntN) (*domain.Match, bool) {
	if len(matches) == 0 {
		return nil, false
	}
	return matches[rng.IntN(len(matches))], true
}
