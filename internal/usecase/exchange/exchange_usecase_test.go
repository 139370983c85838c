package exchange

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/repository/memory"
	"github.com/skillswap/skillswap-backend/internal/usecase/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase() *ExchangeUseCase {
	return NewExchangeUseCase(
		memory.NewProfileRepository(),
		memory.NewMatchRepository(),
		memory.NewNewMatchSet(),
		match.NewEngine(),
	)
}

func submit(t *testing.T, uc *ExchangeUseCase, name, offered, desired string) *SubmitResult {
	t.Helper()
	res, err := uc.SubmitProfile(context.Background(), &SubmitProfileRequest{
		Name:         name,
		Country:      "Mexico",
		OfferedSkill: offered,
		DesiredSkill: desired,
	})
	require.NoError(t, err)
	return res
}

func TestSubmitProfile_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  *SubmitProfileRequest
	}{
		{"nil request", nil},
		{"missing name", &SubmitProfileRequest{Country: "Peru", OfferedSkill: "Go", DesiredSkill: "Chess"}},
		{"missing country", &SubmitProfileRequest{Name: "Ana", OfferedSkill: "Go", DesiredSkill: "Chess"}},
		{"missing offered", &SubmitProfileRequest{Name: "Ana", Country: "Peru", DesiredSkill: "Chess"}},
		{"missing desired", &SubmitProfileRequest{Name: "Ana", Country: "Peru", OfferedSkill: "Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase()
			submit(t, uc, "Existing", "Chess", "Go")

			var notified bool
			uc.Subscribe(func(SubmissionEvent) { notified = true })

			res, err := uc.SubmitProfile(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidSubmission))
			assert.Nil(t, res)

			assert.Len(t, uc.ListProfiles(), 1)
			assert.Empty(t, uc.ListMatches())
			assert.False(t, notified)
		})
	}
}

func TestSubmitProfile_RespectsCancelledContext(t *testing.T) {
	uc := newTestUseCase()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.SubmitProfile(ctx, &SubmitProfileRequest{
		Name: "Ana", Country: "Peru", OfferedSkill: "Go", DesiredSkill: "Chess",
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, uc.ListProfiles())
}

func TestSubmitProfile_FindsMatchesAndFlagsThemNew(t *testing.T) {
	uc := newTestUseCase()

	first := submit(t, uc, "Ana", "Spanish", "Guitar")
	assert.Empty(t, first.Matches)
	assert.NotNil(t, first.Matches)
	assert.NotEmpty(t, first.Profile.ID)
	assert.Empty(t, uc.NewMatchIDs())

	second := submit(t, uc, "Ben", "Guitar", "spanish")
	require.Len(t, second.Matches, 2)
	assert.Equal(t, first.Profile.ID, second.Matches[0].Teacher.ID)
	assert.Equal(t, second.Profile.ID, second.Matches[1].Teacher.ID)

	for _, m := range second.Matches {
		assert.True(t, uc.IsNew(m.ID))
	}
	assert.Equal(t, domain.MatchIDs(second.Matches), uc.NewMatchIDs())
}

func TestSubmitProfile_NoSelfMatch(t *testing.T) {
	uc := newTestUseCase()

	res := submit(t, uc, "Solo", "Painting", "Painting")
	assert.Empty(t, res.Matches)
	assert.Empty(t, uc.ListMatches())
}

func TestSubmitProfile_AppendOnlyGrowth(t *testing.T) {
	uc := newTestUseCase()

	skills := [][2]string{
		{"Spanish", "Guitar"},
		{"Guitar", "Spanish"},
		{"Cooking", "Yoga"},
		{"Yoga", "Cooking"},
		{"Spanish", "Guitar"},
	}

	var ids []string
	prevMatches := 0
	for i, s := range skills {
		res := submit(t, uc, "user", s[0], s[1])
		ids = append([]string{res.Profile.ID}, ids...)

		profiles := uc.ListProfiles()
		require.Len(t, profiles, i+1)
		assert.Equal(t, ids, profileIDs(profiles))

		matches := uc.ListMatches()
		assert.GreaterOrEqual(t, len(matches), prevMatches)
		assert.Equal(t, domain.MatchIDs(res.Matches), domain.MatchIDs(matches[:len(res.Matches)]))
		prevMatches = len(matches)
	}

	// The repeated Spanish/Guitar profile matches Ben again in both
	// directions, producing fresh records.
	assert.Equal(t, 2+2+2, prevMatches)
}

func TestSubmitProfile_NewSetReplacedOnlyWhenMatchesFound(t *testing.T) {
	uc := newTestUseCase()
	submit(t, uc, "Ana", "Spanish", "Guitar")
	res := submit(t, uc, "Ben", "Guitar", "Spanish")
	require.Len(t, res.Matches, 2)

	submit(t, uc, "Cleo", "Pottery", "Astronomy")
	assert.Equal(t, domain.MatchIDs(res.Matches), uc.NewMatchIDs())

	latest := submit(t, uc, "Dan", "Astronomy", "Knitting")
	require.Len(t, latest.Matches, 1)
	assert.Equal(t, domain.MatchIDs(latest.Matches), uc.NewMatchIDs())
	assert.False(t, uc.IsNew(res.Matches[0].ID))
}

func TestClearNew_KeepsMatches(t *testing.T) {
	uc := newTestUseCase()
	submit(t, uc, "Ana", "Spanish", "Guitar")
	res := submit(t, uc, "Ben", "Guitar", "Spanish")

	uc.ClearNew(res.Matches[0].ID)
	assert.False(t, uc.IsNew(res.Matches[0].ID))
	assert.True(t, uc.IsNew(res.Matches[1].ID))

	uc.ClearNew()
	assert.Empty(t, uc.NewMatchIDs())
	assert.Len(t, uc.ListMatches(), 2)
}

func TestPickRandomMatch(t *testing.T) {
	uc := newTestUseCase()

	m, ok := uc.PickRandomMatch()
	assert.False(t, ok)
	assert.Nil(t, m)

	submit(t, uc, "Ana", "Spanish", "Guitar")
	submit(t, uc, "Ben", "Guitar", "Spanish")
	submit(t, uc, "Cleo", "Guitar lessons", "Spanish slang")

	all := uc.ListMatches()
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		m, ok := uc.PickRandomMatch()
		require.True(t, ok)
		seen[m.ID] = true
	}
	assert.Len(t, seen, len(all))
}

func TestSearchProfiles(t *testing.T) {
	uc := newTestUseCase()
	submit(t, uc, "Ana", "Spanish", "Guitar")
	submit(t, uc, "Ben", "Watercolor", "Cooking")

	found := uc.SearchProfiles("GUIT")
	require.Len(t, found, 1)
	assert.Equal(t, "Ana", found[0].Name)

	assert.Len(t, uc.SearchProfiles(""), 2)
	assert.Len(t, uc.SearchProfiles("mexico"), 2)
	assert.Empty(t, uc.SearchProfiles("quantum"))
}

func TestStatsAndReset(t *testing.T) {
	uc := newTestUseCase()
	submit(t, uc, "Ana", "Spanish", "Guitar")
	submit(t, uc, "Ben", "Guitar", "Spanish")

	assert.Equal(t, Stats{Profiles: 2, Matches: 2, Countries: 1}, uc.Stats())

	uc.Reset()
	assert.Equal(t, Stats{}, uc.Stats())
	assert.Empty(t, uc.NewMatchIDs())
	assert.Empty(t, uc.ListProfiles())
}

func TestSubscribe(t *testing.T) {
	uc := newTestUseCase()

	var events []SubmissionEvent
	unsubscribe := uc.Subscribe(func(e SubmissionEvent) { events = append(events, e) })

	first := submit(t, uc, "Ana", "Spanish", "Guitar")
	second := submit(t, uc, "Ben", "Guitar", "Spanish")

	require.Len(t, events, 2)
	assert.Same(t, first.Profile, events[0].Profile)
	assert.Empty(t, events[0].NewMatches)
	assert.Same(t, second.Profile, events[1].Profile)
	assert.Equal(t, domain.MatchIDs(second.Matches), domain.MatchIDs(events[1].NewMatches))

	unsubscribe()
	submit(t, uc, "Cleo", "Go", "Rust")
	assert.Len(t, events, 2)
}

func TestHighlightExpirer(t *testing.T) {
	uc := newTestUseCase()
	expirer := NewHighlightExpirer(uc, 20*time.Millisecond)
	expirer.Start()
	defer expirer.Stop()

	submit(t, uc, "Ana", "Spanish", "Guitar")
	res := submit(t, uc, "Ben", "Guitar", "Spanish")
	require.Len(t, res.Matches, 2)
	assert.True(t, uc.IsNew(res.Matches[0].ID))

	require.Eventually(t, func() bool {
		return len(uc.NewMatchIDs()) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, uc.ListMatches(), 2)
}

func TestHighlightExpirer_StopCancelsPending(t *testing.T) {
	uc := newTestUseCase()
	expirer := NewHighlightExpirer(uc, 50*time.Millisecond)
	expirer.Start()

	submit(t, uc, "Ana", "Spanish", "Guitar")
	res := submit(t, uc, "Ben", "Guitar", "Spanish")
	expirer.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.True(t, uc.IsNew(res.Matches[0].ID))
}

func TestSubmitProfile_ConcurrentSubmissionsAreAtomic(t *testing.T) {
	const n = 24
	uc := newTestUseCase()

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.SubmitProfile(context.Background(), &SubmitProfileRequest{
				Name:         fmt.Sprintf("user-%d", i),
				Country:      "Chile",
				OfferedSkill: "Go",
				DesiredSkill: "go",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profiles := uc.ListProfiles()
	require.Len(t, profiles, n)

	matches := uc.ListMatches()
	require.Len(t, matches, n*(n-1))

	ids := make(map[string]bool, len(matches))
	pairs := make(map[[2]string]int, len(matches))
	for _, m := range matches {
		assert.False(t, ids[m.ID], "duplicate match id %s", m.ID)
		ids[m.ID] = true
		assert.NotEqual(t, m.Teacher.ID, m.Learner.ID)
		pairs[[2]string{m.Teacher.ID, m.Learner.ID}]++
	}
	assert.Len(t, pairs, n*(n-1))
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "pair %v matched %d times", pair, count)
	}
}

func TestSubscribe_EventsFollowCommitOrder(t *testing.T) {
	const n = 32
	uc := newTestUseCase()

	var mu sync.Mutex
	var notified []string
	uc.Subscribe(func(e SubmissionEvent) {
		mu.Lock()
		notified = append(notified, e.Profile.ID)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.SubmitProfile(context.Background(), &SubmitProfileRequest{
				Name:         fmt.Sprintf("user-%d", i),
				Country:      "Chile",
				OfferedSkill: fmt.Sprintf("skill-%d", i),
				DesiredSkill: "Knitting",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	committed := profileIDs(uc.ListProfiles())
	slices.Reverse(committed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, committed, notified)
}

func profileIDs(profiles []*domain.Profile) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
