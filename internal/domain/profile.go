package domain

import (
	"strings"
	"time"
)

// Profile is a submitted skill exchange member. Profiles are immutable once
// stored.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Country      string    `json:"country"`
	OfferedSkill string    `json:"offered_skill"`
	DesiredSkill string    `json:"desired_skill"`
	CreatedAt    time.Time `json:"created_at"`
}

// MatchesQuery reports whether term occurs, ignoring case, in any of the
// profile's display fields. An empty term matches every profile.
func (p *Profile) MatchesQuery(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Country), term) ||
		strings.Contains(strings.ToLower(p.OfferedSkill), term) ||
		strings.Contains(strings.ToLower(p.DesiredSkill), term)
}
