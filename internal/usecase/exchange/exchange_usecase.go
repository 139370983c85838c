package exchange

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/repository"
	"github.com/skillswap/skillswap-backend/internal/usecase/match"
)

// SubmitProfileRequest represents a profile submission
type SubmitProfileRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Country      string `json:"country" validate:"required,max=100"`
	OfferedSkill string `json:"offered_skill" validate:"required,max=200"`
	DesiredSkill string `json:"desired_skill" validate:"required,max=200"`
}

// SubmitResult is the outcome of a successful submission
type SubmitResult struct {
	Profile *domain.Profile `json:"profile"`
	Matches []*domain.Match `json:"matches"`
}

// SubmissionEvent is delivered to subscribers after a submission completes.
type SubmissionEvent struct {
	Profile    *domain.Profile
	NewMatches []*domain.Match
	At         time.Time
}

// Stats summarises the session
type Stats struct {
	Profiles  int `json:"profiles"`
	Matches   int `json:"matches"`
	Countries int `json:"countries"`
}

type subscriber struct {
	id int
	fn func(SubmissionEvent)
}

// ExchangeUseCase owns one skill exchange session: profiles, matches and
// the set of freshly found match ids.
type ExchangeUseCase struct {
	profileRepo repository.ProfileRepository
	matchRepo   repository.MatchRepository
	newMatches  repository.NewMatchSet
	engine      *match.Engine
	validate    *validator.Validate

	// mu serialises submissions so discovery always sees a stable snapshot.
	mu sync.RWMutex
	// notifyMu is taken before mu is released so events go out in commit
	// order.
	notifyMu sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int

	now func() time.Time
}

func NewExchangeUseCase(
	profileRepo repository.ProfileRepository,
	matchRepo repository.MatchRepository,
	newMatches repository.NewMatchSet,
	engine *match.Engine,
) *ExchangeUseCase {
	return &ExchangeUseCase{
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		newMatches:  newMatches,
		engine:      engine,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
	}
}

// SubmitProfile validates req, discovers matches against the current
// profiles, records them and stores the new profile. Invalid requests are
// rejected before anything is stored.
func (uc *ExchangeUseCase) SubmitProfile(ctx context.Context, req *SubmitProfileRequest) (*SubmitResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Country:      req.Country,
		OfferedSkill: req.OfferedSkill,
		DesiredSkill: req.DesiredSkill,
		CreatedAt:    uc.now(),
	}

	uc.mu.Lock()
	found := uc.engine.Discover(profile, uc.profileRepo.All())
	if len(found) > 0 {
		uc.matchRepo.Prepend(found)
		uc.newMatches.Replace(domain.MatchIDs(found))
	}
	uc.profileRepo.Add(profile)
	uc.notifyMu.Lock()
	uc.mu.Unlock()
	defer uc.notifyMu.Unlock()

	log.Info().
		Str("profile_id", profile.ID).
		Str("offered_skill", profile.OfferedSkill).
		Str("desired_skill", profile.DesiredSkill).
		Int("matches", len(found)).
		Msg("Profile submitted")

	if found == nil {
		found = []*domain.Match{}
	}

	uc.notify(SubmissionEvent{Profile: profile, NewMatches: found, At: profile.CreatedAt})

	return &SubmitResult{Profile: profile, Matches: found}, nil
}

func (uc *ExchangeUseCase) validateRequest(req *SubmitProfileRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", domain.ErrInvalidSubmission)
	}
	if err := uc.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %v", domain.ErrInvalidSubmission, fields)
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidSubmission, err)
	}
	return nil
}

// ListProfiles returns every profile, most recent first.
func (uc *ExchangeUseCase) ListProfiles() []*domain.Profile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.profileRepo.All()
}

// SearchProfiles returns profiles whose name, country or skills contain term.
func (uc *ExchangeUseCase) SearchProfiles(term string) []*domain.Profile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return slices.Collect(uc.profileRepo.Filter(func(p *domain.Profile) bool {
		return p.MatchesQuery(term)
	}))
}

// ListMatches returns every match, newest discovery batch first.
func (uc *ExchangeUseCase) ListMatches() []*domain.Match {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.matchRepo.All()
}

// IsNew reports whether the match is flagged as freshly found.
func (uc *ExchangeUseCase) IsNew(matchID string) bool {
	return uc.newMatches.Contains(matchID)
}

// NewMatchIDs returns the ids of freshly found matches in discovery order.
func (uc *ExchangeUseCase) NewMatchIDs() []string {
	return uc.newMatches.IDs()
}

// ClearNew unflags the given match ids, or all of them when none are given.
// The matches themselves are kept.
func (uc *ExchangeUseCase) ClearNew(ids ...string) {
	uc.newMatches.Clear(ids...)
}

// PickRandomMatch returns a uniformly chosen match from all matches found so
// far, or false when there are none.
func (uc *ExchangeUseCase) PickRandomMatch() (*domain.Match, bool) {
	matches := uc.ListMatches()

	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return match.PickRandom(matches, uc.rng)
}

// Stats counts profiles, matches and distinct countries.
func (uc *ExchangeUseCase) Stats() Stats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	countries := make(map[string]struct{})
	for _, p := range uc.profileRepo.All() {
		countries[p.Country] = struct{}{}
	}
	return Stats{
		Profiles:  uc.profileRepo.Count(),
		Matches:   uc.matchRepo.Count(),
		Countries: len(countries),
	}
}

// Reset discards all profiles, matches and new-match flags. Subscribers stay
// registered.
func (uc *ExchangeUseCase) Reset() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.profileRepo.Reset()
	uc.matchRepo.Reset()
	uc.newMatches.Clear()

	log.Info().Msg("Session reset")
}

// Subscribe registers fn to be called after every completed submission.
// Callbacks run synchronously in registration order, one submission at a
// time, in the order submissions were committed. fn must not block and must
// not submit profiles itself. The returned function removes the
// subscription.
func (uc *ExchangeUseCase) Subscribe(fn func(SubmissionEvent)) (unsubscribe func()) {
	uc.subMu.Lock()
	defer uc.subMu.Unlock()

	uc.nextSubID++
	id := uc.nextSubID
	uc.subscribers = append(uc.subscribers, subscriber{id: id, fn: fn})

	return func() {
		uc.subMu.Lock()
		defer uc.subMu.Unlock()
		uc.subscribers = slices.DeleteFunc(uc.subscribers, func(s subscriber) bool {
			return s.id == id
		})
	}
}

func (uc *ExchangeUseCase) notify(event SubmissionEvent) {
	uc.subMu.Lock()
	subs := slices.Clone(uc.subscribers)
	uc.subMu.Unlock()

	for _, s := range subs {
		s.fn(event)
	}
}
