package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/repository"
)

// NotificationService delivers and resolves invitations. Invite is the
// one sanctioned cross-namespace write: it appends to the target's
// notification list and touches nothing else of theirs. Accept, Decline
// and MarkRead are only ever called by the owning actor.
//
// Every mutation is a read-modify-write of a whole notification list,
// and Invite can race the target's own Accept or Decline on the same
// key, so all of them serialize on one mutex. Without it concurrent
// inviters drop each other's entries.
type NotificationService struct {
	repo *repository.Repository

	mu sync.Mutex
}

func NewNotificationService(repo *repository.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Invite prepends the notification to the target actor's list, newest
// first. Missing id, timestamp and status are filled in.
func (s *NotificationService) Invite(ctx context.Context, targetActorID string, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = "notification_" + uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if n.Status == "" {
		n.Status = domain.NotificationPending
	}

	list, err := s.repo.Notifications(ctx, targetActorID)
	if err != nil {
		return err
	}
	list = append([]domain.Notification{n}, list...)
	return s.repo.SaveNotifications(ctx, targetActorID, list)
}

// Accept resolves the invitation in the acting user's own list. A group
// invite first materializes the group from the notification payload if
// the acceptor does not hold a copy yet, then adds the acceptor to
// their copy's member list. Accepting twice neither duplicates the
// member nor fails. An unknown notification id is a no-op.
func (s *NotificationService) Accept(ctx context.Context, actorID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Notifications(ctx, actorID)
	if err != nil {
		return err
	}
	idx := findNotification(list, notificationID)
	if idx < 0 {
		return nil
	}
	n := list[idx]

	if n.Type == domain.NotificationGroupInvite && n.GroupID != "" {
		if err := s.applyGroupInvite(ctx, actorID, n); err != nil {
			return err
		}
	}

	list[idx].Status = domain.NotificationAccepted
	list[idx].Read = true
	return s.repo.SaveNotifications(ctx, actorID, list)
}

func (s *NotificationService) applyGroupInvite(ctx context.Context, actorID string, n domain.Notification) error {
	groups, err := s.repo.Groups(ctx, actorID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range groups {
		if groups[i].ID == n.GroupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		if n.GroupName == "" {
			return nil
		}
		groups = append(groups, domain.Group{
			ID:          n.GroupID,
			Name:        n.GroupName,
			Description: n.GroupDescription,
			Photo:       n.GroupIcon,
			Members:     n.GroupMembers,
			CreatedAt:   n.Timestamp,
		})
		idx = len(groups) - 1
	}

	user, err := s.repo.User(ctx, actorID)
	if err == nil {
		groups[idx].AddMember(domain.Member{
			Name:  user.Name,
			Phone: user.Phone,
			Email: user.Email,
		})
	}

	return s.repo.SaveGroups(ctx, actorID, groups)
}

// Decline marks the invitation declined and read. No group mutation.
func (s *NotificationService) Decline(ctx context.Context, actorID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Notifications(ctx, actorID)
	if err != nil {
		return err
	}
	idx := findNotification(list, notificationID)
	if idx < 0 {
		return nil
	}
	list[idx].Status = domain.NotificationDeclined
	list[idx].Read = true
	return s.repo.SaveNotifications(ctx, actorID, list)
}

// MarkRead sets the read flag only.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Notifications(ctx, actorID)
	if err != nil {
		return err
	}
	idx := findNotification(list, notificationID)
	if idx < 0 {
		return nil
	}
	list[idx].Read = true
	return s.repo.SaveNotifications(ctx, actorID, list)
}

// Unread returns the number of unread notifications for the actor.
func (s *NotificationService) Unread(ctx context.Context, actorID string) (int, error) {
	list, err := s.repo.Notifications(ctx, actorID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, notif := range list {
		if !notif.Read {
			n++
		}
	}
	return n, nil
}

func findNotification(list []domain.Notification, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
