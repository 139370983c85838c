package match

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/skillswap/skillswap-backend/internal/domain"
)

// Compatible reports whether a desired skill and an offered skill overlap:
// either one, case-folded, contains the other. An empty string is contained
// in everything and therefore matches.
func Compatible(desired, offered string) bool {
	d := strings.ToLower(desired)
	o := strings.ToLower(offered)
	return strings.Contains(d, o) || strings.Contains(o, d)
}

// Engine discovers matches between a new profile and a store snapshot.
// The zero value is not usable; create one with NewEngine.
type Engine struct {
	seq atomic.Uint64
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Discover compares newProfile against each existing profile in order.
// For every existing profile it first checks whether the existing profile
// teaches what newProfile wants, then the reverse. Both checks fire
// independently. newProfile must not be part of existing.
func (e *Engine) Discover(newProfile *domain.Profile, existing []*domain.Profile) []*domain.Match {
	var found []*domain.Match
	now := e.now()

	for _, other := range existing {
		if Compatible(newProfile.DesiredSkill, other.OfferedSkill) {
			found = append(found, e.newMatch(other, newProfile, now))
		}
		if Compatible(other.DesiredSkill, newProfile.OfferedSkill) {
			found = append(found, e.newMatch(newProfile, other, now))
		}
	}

	return found
}

func (e *Engine) newMatch(teacher, learner *domain.Profile, foundAt time.Time) *domain.Match {
	return &domain.Match{
		ID:           e.nextID(learner.ID, teacher.ID),
		Teacher:      teacher,
		Learner:      learner,
		MatchedSkill: teacher.OfferedSkill,
		FoundAt:      foundAt,
	}
}

// nextID keys the id on the ordered learner/teacher pair. The sequence
// suffix keeps ids unique when the same pair matches again.
func (e *Engine) nextID(learnerID, teacherID string) string {
	return fmt.Sprintf("%s-%s-%d", learnerID, teacherID, e.seq.Add(1))
}
