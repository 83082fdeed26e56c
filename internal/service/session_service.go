package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/repository"
)

// SessionService owns the global session list: creation, lookup, stage
// transitions and participant updates.
//
// Every mutation is a read-merge-write of the single session addressed
// by id, serialized by a service-level mutex, so concurrent updates to
// disjoint fields of one session both survive. Each write bumps the
// session's Version; callers that read a version can detect concurrent
// modification with UpdateIfVersion.
type SessionService struct {
	repo *repository.Repository
	hub  *bus.Hub
	mu   sync.Mutex
}

func NewSessionService(repo *repository.Repository, hub *bus.Hub) *SessionService {
	return &SessionService{repo: repo, hub: hub}
}

type CreateSessionInput struct {
	Name          string
	Type          domain.SessionType
	GroupID       string
	Icon          string
	Creator       domain.Member
	Members       []domain.Member
	Timing        domain.SessionTiming
	ScheduledDate string
	ScheduledTime string
	Location      string
}

// Create appends a new session to the global list. The creator joins
// immediately; group members are attached unjoined. The 6-digit code is
// generated without a collision check.
func (s *SessionService) Create(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	participants := []domain.Participant{{
		Name:   input.Creator.Name,
		Phone:  input.Creator.Phone,
		Email:  input.Creator.Email,
		Joined: true,
	}}
	for _, m := range input.Members {
		if m.Matches(input.Creator.Name, input.Creator.Phone) {
			continue
		}
		participants = append(participants, domain.Participant{
			Name:  m.Name,
			Phone: m.Phone,
			Email: m.Email,
		})
	}

	timing := input.Timing
	if timing == "" {
		timing = domain.TimingNow
	}

	session := domain.Session{
		ID:            ulid.Make().String(),
		Name:          input.Name,
		Code:          generateSessionCode(),
		Type:          input.Type,
		GroupID:       input.GroupID,
		Participants:  participants,
		Status:        domain.SessionStatusActive,
		Stage:         domain.StageWaiting,
		Icon:          input.Icon,
		CreatorName:   input.Creator.Name,
		CreatedAt:     time.Now(),
		Timing:        timing,
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Location:      input.Location,
		Version:       1,
	}

	sessions = append(sessions, session)
	if err := s.repo.SaveSessions(ctx, sessions); err != nil {
		return nil, err
	}
	s.publish(session.ID)
	return &session, nil
}

// Update applies a mutation to the session with the given id and bumps
// its version. An unknown id is an idempotent no-op.
func (s *SessionService) Update(ctx context.Context, id string, apply func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, 0, apply)
}

// UpdateIfVersion is Update with an optimistic check: it fails with
// domain.ErrVersionConflict unless the stored session still has the
// version the caller read. An unknown id is still a no-op.
func (s *SessionService) UpdateIfVersion(ctx context.Context, id string, version int64, apply func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, version, apply)
}

func (s *SessionService) update(ctx context.Context, id string, expectVersion int64, apply func(*domain.Session)) error {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		if expectVersion > 0 && sessions[i].Version != expectVersion {
			return domain.ErrVersionConflict
		}
		apply(&sessions[i])
		sessions[i].Version++
		if err := s.repo.SaveSessions(ctx, sessions); err != nil {
			return err
		}
		s.publish(id)
		return nil
	}
	return nil
}

// FindByID scans the global list for the session, returning
// domain.ErrSessionNotFound when absent.
func (s *SessionService) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

// FindByCode returns the first session with the given join code.
func (s *SessionService) FindByCode(ctx context.Context, code string) (*domain.Session, error) {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Code == code {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.repo.Sessions(ctx)
}

// AdvanceStage moves the session one step forward in its lifecycle.
// Backward or skipping transitions fail with domain.ErrInvalidTransition.
// Reaching the result stage also completes the session.
func (s *SessionService) AdvanceStage(ctx context.Context, id string, to domain.SessionStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.findLocked(ctx, id)
	if err != nil {
		return err
	}
	if !session.Stage.CanAdvanceTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, session.Stage, to)
	}
	return s.update(ctx, id, 0, func(sess *domain.Session) {
		sess.Stage = to
		if to == domain.StageResult {
			sess.Status = domain.SessionStatusCompleted
		}
	})
}

// StartMatching checks the ready-to-start policy and advances the
// session from waiting to preferences.
func (s *SessionService) StartMatching(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.findLocked(ctx, id)
	if err != nil {
		return err
	}
	if !session.Stage.CanAdvanceTo(domain.StagePreferences) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, session.Stage, domain.StagePreferences)
	}
	if !session.CanStart() {
		return domain.ErrNotEnoughParticipants
	}
	return s.update(ctx, id, 0, func(sess *domain.Session) {
		sess.Stage = domain.StagePreferences
	})
}

// SubmitPreferences records the actor's submission. Submissions are
// only accepted while the session is collecting preferences; a session
// still in waiting has not passed the start policy and must go through
// StartMatching first. When the last participant submits, the session
// advances to result and completes in the same write.
func (s *SessionService) SubmitPreferences(ctx context.Context, id, name, phone string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.findLocked(ctx, id)
	if err != nil {
		return err
	}
	if session.Stage != domain.StagePreferences {
		return fmt.Errorf("%w: submit during %s", domain.ErrInvalidTransition, session.Stage)
	}
	idx := session.FindParticipant(name, phone)
	if idx < 0 {
		return domain.ErrNotParticipant
	}
	if session.Participants[idx].HasSubmittedPreferences {
		return domain.ErrAlreadySubmitted
	}

	prefs.ApplyDefaults()
	return s.update(ctx, id, 0, func(sess *domain.Session) {
		i := sess.FindParticipant(name, phone)
		if i < 0 {
			return
		}
		sess.Participants[i].HasSubmittedPreferences = true
		sess.Participants[i].Preferences = &prefs
		if sess.AllSubmitted() {
			sess.Stage = domain.StageResult
			sess.Status = domain.SessionStatusCompleted
		}
	})
}

func (s *SessionService) findLocked(ctx context.Context, id string) (*domain.Session, error) {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SessionService) publish(sessionID string) {
	if s.hub != nil {
		s.hub.Publish(bus.Event{Type: bus.EventSessionsChanged, SessionID: sessionID})
	}
}

// generateSessionCode returns 6 random digits, uniform in
// [100000, 999999]. Collisions are not checked.
func generateSessionCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		return "100000"
	}
	return fmt.Sprintf("%06d", 100000+n.Int64())
}
