// Package client models one actor's in-memory view of the app: the
// profile, preferences, groups, favorites, streak and notifications
// from the actor's own namespace, plus the shared session list kept
// current by a synchronizer.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/repository"
	"github.com/savora-app/savora/internal/service"
	"github.com/savora-app/savora/internal/syncer"
)

type Client struct {
	repo     *repository.Repository
	services *service.Services
	hub      *bus.Hub
	interval time.Duration

	mu            sync.RWMutex
	actorID       string
	user          *domain.User
	preferences   *domain.Preferences
	groups        []domain.Group
	sessions      []domain.Session
	favorites     []domain.Favorite
	streak        int
	notifications []domain.Notification

	sync *syncer.Synchronizer
}

// New builds a client for the actor and loads every record from the
// actor's namespace. The synchronizer starts immediately.
func New(ctx context.Context, actorID string, repo *repository.Repository, services *service.Services, hub *bus.Hub, pollInterval time.Duration) (*Client, error) {
	c := &Client{
		repo:     repo,
		services: services,
		hub:      hub,
		interval: pollInterval,
	}
	if err := c.start(ctx, actorID); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) start(ctx context.Context, actorID string) error {
	c.mu.Lock()
	c.actorID = actorID
	c.mu.Unlock()

	if err := c.reload(ctx); err != nil {
		return err
	}

	c.sync = syncer.New(c.services.Session, c.hub, c.interval, func(sessions []domain.Session) {
		c.mu.Lock()
		c.sessions = sessions
		c.mu.Unlock()
	})
	c.sync.Start(ctx)

	c.mu.Lock()
	c.sessions = c.sync.Sessions()
	c.mu.Unlock()
	return nil
}

// reload pulls every record of the current actor from storage.
func (c *Client) reload(ctx context.Context) error {
	c.mu.Lock()
	actorID := c.actorID
	c.mu.Unlock()

	user, err := c.repo.User(ctx, actorID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	prefs, err := c.repo.Preferences(ctx, actorID)
	if err != nil {
		return err
	}
	groups, err := c.repo.Groups(ctx, actorID)
	if err != nil {
		return err
	}
	favorites, err := c.repo.Favorites(ctx, actorID)
	if err != nil {
		return err
	}
	streak, err := c.repo.Streak(ctx, actorID)
	if err != nil {
		return err
	}
	notifications, err := c.repo.Notifications(ctx, actorID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.user = user
	c.preferences = prefs
	c.groups = groups
	c.favorites = favorites
	c.streak = streak
	c.notifications = notifications
	c.mu.Unlock()
	return nil
}

// Refresh re-reads every record of the current actor from storage, the
// analog of a page reload. Cross-namespace notification writes become
// visible here; only the session list refreshes on its own.
func (c *Client) Refresh(ctx context.Context) error {
	return c.reload(ctx)
}

// SwitchActor tears down the current view and rebuilds it from the new
// actor's namespace. Nothing from the previous identity survives.
func (c *Client) SwitchActor(ctx context.Context, actorID string) error {
	if c.sync != nil {
		c.sync.Close()
	}

	c.mu.Lock()
	c.user = nil
	c.preferences = nil
	c.groups = nil
	c.sessions = nil
	c.favorites = nil
	c.streak = 0
	c.notifications = nil
	c.mu.Unlock()

	return c.start(ctx, actorID)
}

// Close stops the synchronizer.
func (c *Client) Close() {
	if c.sync != nil {
		c.sync.Close()
	}
}

// --- read accessors ---

func (c *Client) ActorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.actorID
}

func (c *Client) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) Preferences() *domain.Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preferences
}

func (c *Client) Groups() []domain.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Group(nil), c.groups...)
}

func (c *Client) Sessions() []domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Session(nil), c.sessions...)
}

func (c *Client) Favorites() []domain.Favorite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Favorite(nil), c.favorites...)
}

func (c *Client) Streak() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.streak
}

func (c *Client) Notifications() []domain.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Notification(nil), c.notifications...)
}

// --- mutations, delegated to the services ---

func (c *Client) Onboard(ctx context.Context, input service.OnboardInput) (*domain.User, error) {
	user, err := c.services.User.Onboard(ctx, c.ActorID(), input)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	return user, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	token, err := c.services.User.SignIn(ctx, c.ActorID(), email, password)
	if err != nil {
		return "", err
	}
	// Sign-in also loads the rest of the actor's records.
	if err := c.reload(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// Logout clears the stored token and drops the signed-in view. The
// actor's records stay in storage and come back on the next SignIn;
// the global session list keeps syncing.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.services.User.Logout(ctx, c.ActorID()); err != nil {
		return err
	}
	c.mu.Lock()
	c.user = nil
	c.preferences = nil
	c.groups = nil
	c.favorites = nil
	c.streak = 0
	c.notifications = nil
	c.mu.Unlock()
	return nil
}

func (c *Client) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	saved, err := c.services.User.SavePreferences(ctx, c.ActorID(), prefs)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.preferences = saved
	c.mu.Unlock()
	return nil
}

func (c *Client) AddGroup(ctx context.Context, group domain.Group) (*domain.Group, error) {
	added, err := c.services.User.AddGroup(ctx, c.ActorID(), group)
	if err != nil {
		return nil, err
	}
	return added, c.refreshGroups(ctx)
}

func (c *Client) AddFavorite(ctx context.Context, fav domain.Favorite) error {
	if err := c.services.User.AddFavorite(ctx, c.ActorID(), fav); err != nil {
		return err
	}
	favorites, err := c.repo.Favorites(ctx, c.ActorID())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.favorites = favorites
	c.mu.Unlock()
	return nil
}

func (c *Client) IncrementStreak(ctx context.Context) (int, error) {
	streak, err := c.services.User.IncrementStreak(ctx, c.ActorID())
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.streak = streak
	c.mu.Unlock()
	return streak, nil
}

// CreateSession starts a new decision round with the current user as
// creator.
func (c *Client) CreateSession(ctx context.Context, input service.CreateSessionInput) (*domain.Session, error) {
	user := c.User()
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	input.Creator = domain.Member{Name: user.Name, Phone: user.Phone, Email: user.Email}
	return c.services.Session.Create(ctx, input)
}

// JoinByCode resolves a session code and joins it as the current user.
func (c *Client) JoinByCode(ctx context.Context, code string) (*domain.Session, error) {
	user := c.User()
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	session, err := c.services.Session.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	actor := domain.Participant{Name: user.Name, Phone: user.Phone, Email: user.Email}
	if err := c.sync.Join(ctx, session.ID, actor); err != nil {
		return nil, err
	}
	return c.services.Session.FindByID(ctx, session.ID)
}

func (c *Client) StartMatching(ctx context.Context, sessionID string) error {
	return c.services.Session.StartMatching(ctx, sessionID)
}

// SubmitPreferences submits the current user's dining preferences into
// the session.
func (c *Client) SubmitPreferences(ctx context.Context, sessionID string, prefs domain.Preferences) error {
	user := c.User()
	if user == nil {
		return domain.ErrUserNotFound
	}
	return c.services.Session.SubmitPreferences(ctx, sessionID, user.Name, user.Phone, prefs)
}

// AllSubmitted reports the cached completion state of the session.
func (c *Client) AllSubmitted(sessionID string) bool {
	return c.sync.AllSubmitted(sessionID)
}

// Invite sends a notification into another actor's namespace.
func (c *Client) Invite(ctx context.Context, targetActorID string, n domain.Notification) error {
	if user := c.User(); user != nil {
		if n.InviterName == "" {
			n.InviterName = user.Name
		}
		if n.InviterPhone == "" {
			n.InviterPhone = user.Phone
		}
	}
	return c.services.Notification.Invite(ctx, targetActorID, n)
}

func (c *Client) Accept(ctx context.Context, notificationID string) error {
	if err := c.services.Notification.Accept(ctx, c.ActorID(), notificationID); err != nil {
		return err
	}
	if err := c.refreshGroups(ctx); err != nil {
		return err
	}
	return c.refreshNotifications(ctx)
}

func (c *Client) Decline(ctx context.Context, notificationID string) error {
	if err := c.services.Notification.Decline(ctx, c.ActorID(), notificationID); err != nil {
		return err
	}
	return c.refreshNotifications(ctx)
}

func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	if err := c.services.Notification.MarkRead(ctx, c.ActorID(), notificationID); err != nil {
		return err
	}
	return c.refreshNotifications(ctx)
}

func (c *Client) refreshGroups(ctx context.Context) error {
	groups, err := c.repo.Groups(ctx, c.ActorID())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.groups = groups
	c.mu.Unlock()
	return nil
}

func (c *Client) refreshNotifications(ctx context.Context) error {
	notifications, err := c.repo.Notifications(ctx, c.ActorID())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.notifications = notifications
	c.mu.Unlock()
	return nil
}
