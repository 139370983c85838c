package domain

import "time"

// Match links a teacher whose offered skill overlaps a learner's desired
// skill. Teacher and Learner point at profiles owned by the profile store.
type Match struct {
	ID           string    `json:"id"`
	Teacher      *Profile  `json:"teacher"`
	Learner      *Profile  `json:"learner"`
	MatchedSkill string    `json:"matched_skill"`
	FoundAt      time.Time `json:"found_at"`
}

// MatchIDs returns the ids of matches in order.
func MatchIDs(matches []*Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}
