// Package syncer keeps one client's view of the global session list in
// step with writes made by other actors. It polls the shared store on a
// fixed interval and additionally reacts to in-process bus events, so
// local writes are observed without waiting for the next tick.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/service"
)

// DefaultPollInterval matches the original 1-second refresh.
const DefaultPollInterval = time.Second

// Synchronizer caches the session list for one client and invokes
// onChange whenever the stored list differs from the cache. The
// completion check is level-triggered: a subscriber that starts after a
// session completed still observes the terminal state on its first
// refresh.
type Synchronizer struct {
	sessions *service.SessionService
	hub      *bus.Hub
	interval time.Duration
	onChange func([]domain.Session)
	log      *slog.Logger

	mu     sync.RWMutex
	cached []domain.Session
	raw    []byte

	cancel context.CancelFunc
	done   chan struct{}
}

func New(sessions *service.SessionService, hub *bus.Hub, interval time.Duration, onChange func([]domain.Session)) *Synchronizer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Synchronizer{
		sessions: sessions,
		hub:      hub,
		interval: interval,
		onChange: onChange,
		log:      slog.Default(),
	}
}

// Start performs an initial refresh and launches the poll loop. It
// returns after the initial refresh so callers observe current state
// immediately.
func (s *Synchronizer) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.refresh(runCtx)

	var events <-chan bus.Event
	unsubscribe := func() {}
	if s.hub != nil {
		events, unsubscribe = s.hub.Subscribe()
	}

	go func() {
		defer close(s.done)
		defer unsubscribe()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.refresh(runCtx)
			case _, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				s.refresh(runCtx)
			}
		}
	}()
}

// Close stops the poll loop and waits for it to exit.
func (s *Synchronizer) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

func (s *Synchronizer) refresh(ctx context.Context) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn("session refresh failed", "error", err)
		}
		return
	}

	raw, err := json.Marshal(sessions)
	if err != nil {
		return
	}

	s.mu.Lock()
	if bytes.Equal(raw, s.raw) {
		s.mu.Unlock()
		return
	}
	s.cached = sessions
	s.raw = raw
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(sessions)
	}
}

// Sessions returns the cached session list.
func (s *Synchronizer) Sessions() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Session, len(s.cached))
	copy(out, s.cached)
	return out
}

// Session returns the cached session with the given id, if present.
func (s *Synchronizer) Session(id string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.cached {
		if sess.ID == id {
			return sess, true
		}
	}
	return domain.Session{}, false
}

// AllSubmitted reports whether the cached copy of the session shows
// every participant submitted. Once a session completes this stays true
// on every later call.
func (s *Synchronizer) AllSubmitted(sessionID string) bool {
	sess, ok := s.Session(sessionID)
	if !ok {
		return false
	}
	return sess.AllSubmitted()
}

// Join attaches the actor to the session, idempotently: a participant
// already present (matched by name or phone, first match wins) is
// marked joined rather than appended again.
func (s *Synchronizer) Join(ctx context.Context, sessionID string, actor domain.Participant) error {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return err
	}
	err := s.sessions.Update(ctx, sessionID, func(sess *domain.Session) {
		idx := sess.FindParticipant(actor.Name, actor.Phone)
		if idx >= 0 {
			sess.Participants[idx].Joined = true
			return
		}
		actor.Joined = true
		sess.Participants = append(sess.Participants, actor)
	})
	if err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}
