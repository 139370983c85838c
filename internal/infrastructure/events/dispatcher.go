package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
)

const publishQueueSize = 256

// Publisher delivers a message to an external channel
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// Dispatcher forwards session events to the WebSocket hub and any
// additional publishers. Publishers run on a single background worker, so
// they see messages in dispatch order without holding up the caller.
type Dispatcher struct {
	hub        *WSHub
	publishers []Publisher

	mu     sync.Mutex
	queue  chan Message
	closed bool
	done   chan struct{}
}

func NewDispatcher(hub *WSHub, publishers ...Publisher) *Dispatcher {
	d := &Dispatcher{
		hub:        hub,
		publishers: publishers,
		queue:      make(chan Message, publishQueueSize),
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

// OnSubmission is meant to be passed to ExchangeUseCase.Subscribe.
func (d *Dispatcher) OnSubmission(event exchange.SubmissionEvent) {
	d.dispatch(FromSubmission(event))
}

func (d *Dispatcher) OnReset(at time.Time) {
	d.dispatch(SessionReset(at))
}

func (d *Dispatcher) dispatch(msg Message) {
	if d.hub != nil {
		if err := d.hub.Broadcast(msg); err != nil {
			log.Error().Err(err).Str("type", msg.Type).Msg("Failed to broadcast event")
		}
	}

	if len(d.publishers) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- msg:
	default:
		log.Warn().Str("type", msg.Type).Msg("Publish queue full, dropping event")
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		for _, p := range d.publishers {
			if err := p.Publish(context.Background(), msg); err != nil {
				log.Error().Err(err).Str("type", msg.Type).Msg("Failed to publish event")
			}
		}
	}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
