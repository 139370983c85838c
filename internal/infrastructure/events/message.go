package events

import (
	"time"

	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
)

const (
	TypeSubmissionCompleted = "submission_completed"
	TypeSessionReset        = "session_reset"
)

// Message is the JSON envelope pushed to event consumers
type Message struct {
	Type       string          `json:"type"`
	Timestamp  int64           `json:"timestamp"`
	Profile    *domain.Profile `json:"profile,omitempty"`
	NewMatches []*domain.Match `json:"new_matches,omitempty"`
}

// FromSubmission builds a submission_completed message.
func FromSubmission(event exchange.SubmissionEvent) Message {
	return Message{
		Type:       TypeSubmissionCompleted,
		Timestamp:  event.At.UnixMilli(),
		Profile:    event.Profile,
		NewMatches: event.NewMatches,
	}
}

func SessionReset(at time.Time) Message {
	return Message{
		Type:      TypeSessionReset,
		Timestamp: at.UnixMilli(),
	}
}
