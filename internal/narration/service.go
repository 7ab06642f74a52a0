// Package narration turns phase changes into prose off the combat path.
// Narrators are slow and unreliable; the encounter never waits for them.
package narration

//go:generate mockgen -destination=mock/mock_narrator.go -package=mocknarration -source=service.go

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dungeon-combat/internal/events"
)

const (
	// DefaultTimeout bounds one narrator call
	DefaultTimeout = 5 * time.Second

	// DefaultFallback replaces failed or late narration
	DefaultFallback = "The struggle continues."
)

// Narrator produces prose for one event, typically over the network
type Narrator interface {
	Narrate(ctx context.Context, event events.Event) (string, error)
}

// Narration is the text produced for one phase change
type Narration struct {
	Event    events.Event
	Text     string
	Fallback bool
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Narrator Narrator
	Timeout  time.Duration
	Fallback string
}

// Service is an event listener that narrates phase changes in background
// goroutines. Results are collected in emission order.
type Service struct {
	narrator Narrator
	timeout  time.Duration
	fallback string

	ctx        context.Context
	group      errgroup.Group
	mu         sync.Mutex
	narrations []Narration
}

// NewService creates a narration service. ctx bounds every narrator call.
func NewService(ctx context.Context, cfg *ServiceConfig) *Service {
	if cfg == nil || cfg.Narrator == nil {
		panic("narrator is required")
	}

	svc := &Service{
		narrator: cfg.Narrator,
		timeout:  cfg.Timeout,
		fallback: cfg.Fallback,
		ctx:      ctx,
	}
	if svc.timeout <= 0 {
		svc.timeout = DefaultTimeout
	}
	if svc.fallback == "" {
		svc.fallback = DefaultFallback
	}
	return svc
}

// ID implements events.Listener
func (s *Service) ID() string {
	return "narration"
}

// Priority implements events.Listener
func (s *Service) Priority() int {
	return events.PriorityNarration
}

// HandleEvent implements events.Listener. It returns immediately.
func (s *Service) HandleEvent(event events.Event) error {
	if event.Type != events.TypePhaseChange {
		return nil
	}

	s.mu.Lock()
	slot := len(s.narrations)
	s.narrations = append(s.narrations, Narration{Event: event, Text: s.fallback, Fallback: true})
	s.mu.Unlock()

	s.group.Go(func() error {
		text, err := s.narrate(event)
		if err != nil {
			log.Printf("[NARRATION] Falling back for %s/%s: %v", event.Type, event.Subtype, err)
			return nil
		}

		s.mu.Lock()
		s.narrations[slot].Text = text
		s.narrations[slot].Fallback = false
		s.mu.Unlock()
		return nil
	})

	return nil
}

// narrate runs the narrator but gives up at the timeout even if the
// narrator ignores its context
func (s *Service) narrate(event events.Event) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	replies := make(chan reply, 1)
	go func() {
		text, err := s.narrator.Narrate(ctx, event)
		replies <- reply{text: text, err: err}
	}()

	select {
	case r := <-replies:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if r.err == nil && r.text == "" {
			return "", errEmpty
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Wait blocks until every pending narration finished or fell back
func (s *Service) Wait() {
	_ = s.group.Wait()
}

// Narrations returns a copy of the results so far. Pending entries hold the
// fallback text until their narrator answers.
func (s *Service) Narrations() []Narration {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]Narration, len(s.narrations))
	copy(copied, s.narrations)
	return copied
}
