package exchange

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/domain"
)

// HighlightExpirer clears the "new" flag of each submission's matches once
// the configured delay has passed.
type HighlightExpirer struct {
	uc    *ExchangeUseCase
	delay time.Duration

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	stop   func()
}

func NewHighlightExpirer(uc *ExchangeUseCase, delay time.Duration) *HighlightExpirer {
	return &HighlightExpirer{
		uc:     uc,
		delay:  delay,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Start subscribes to submissions.
func (h *HighlightExpirer) Start() {
	h.stop = h.uc.Subscribe(h.onSubmission)
}

func (h *HighlightExpirer) onSubmission(event SubmissionEvent) {
	if len(event.NewMatches) == 0 {
		return
	}
	ids := domain.MatchIDs(event.NewMatches)

	h.mu.Lock()
	defer h.mu.Unlock()

	var timer *time.Timer
	timer = time.AfterFunc(h.delay, func() {
		h.uc.ClearNew(ids...)
		log.Debug().Strs("match_ids", ids).Msg("New match highlight expired")

		h.mu.Lock()
		delete(h.timers, timer)
		h.mu.Unlock()
	})
	h.timers[timer] = struct{}{}
}

// Stop unsubscribes and cancels pending timers. Flags still set stay set.
func (h *HighlightExpirer) Stop() {
	if h.stop != nil {
		h.stop()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for t := range h.timers {
		t.Stop()
		delete(h.timers, t)
	}
}
