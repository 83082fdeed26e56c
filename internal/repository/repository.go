// Package repository provides typed access to the records the engine
// persists, on top of the key-value store and the identity resolver.
//
// Reads are defensive: a malformed persisted payload is logged and
// treated as absent, never propagated. Writes are validated; a record
// that fails validation is rejected with domain.ErrInvalidRecord.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/identity"
	"github.com/savora-app/savora/internal/storage"
)

type Repository struct {
	store    storage.Store
	resolver identity.Resolver
	validate *validator.Validate
	log      *slog.Logger
}

func New(store storage.Store) *Repository {
	return &Repository{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      slog.Default(),
	}
}

// getJSON decodes the record at key into out. Returns false when the
// key is absent or the payload cannot be decoded.
func (r *Repository) getJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		r.log.Warn("discarding malformed record", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}

func (r *Repository) checkValid(v any) error {
	if err := r.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	return nil
}

// User returns the actor's profile, or domain.ErrUserNotFound.
func (r *Repository) User(ctx context.Context, actorID string) (*domain.User, error) {
	var user domain.User
	ok, err := r.getJSON(ctx, r.resolver.Key(actorID, identity.FieldUser), &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *Repository) SaveUser(ctx context.Context, actorID string, user *domain.User) error {
	if err := r.checkValid(user); err != nil {
		return err
	}
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldUser), user)
}

// Preferences returns the actor's preferences, or nil when none are
// saved yet.
func (r *Repository) Preferences(ctx context.Context, actorID string) (*domain.Preferences, error) {
	var prefs domain.Preferences
	ok, err := r.getJSON(ctx, r.resolver.Key(actorID, identity.FieldPreferences), &prefs)
	if err != nil || !ok {
		return nil, err
	}
	return &prefs, nil
}

func (r *Repository) SavePreferences(ctx context.Context, actorID string, prefs *domain.Preferences) error {
	if err := r.checkValid(prefs); err != nil {
		return err
	}
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldPreferences), prefs)
}

func (r *Repository) Groups(ctx context.Context, actorID string) ([]domain.Group, error) {
	var groups []domain.Group
	if _, err := r.getJSON(ctx, r.resolver.Key(actorID, identity.FieldGroups), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *Repository) SaveGroups(ctx context.Context, actorID string, groups []domain.Group) error {
	for i := range groups {
		if err := r.checkValid(&groups[i]); err != nil {
			return err
		}
	}
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldGroups), groups)
}

func (r *Repository) Favorites(ctx context.Context, actorID string) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	if _, err := r.getJSON(ctx, r.resolver.Key(actorID, identity.FieldFavorites), &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *Repository) SaveFavorites(ctx context.Context, actorID string, favorites []domain.Favorite) error {
	for i := range favorites {
		if err := r.checkValid(&favorites[i]); err != nil {
			return err
		}
	}
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldFavorites), favorites)
}

// Streak returns the actor's streak counter, zero when unset.
func (r *Repository) Streak(ctx context.Context, actorID string) (int, error) {
	key := r.resolver.Key(actorID, identity.FieldStreak)
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		r.log.Warn("discarding malformed record", "key", key, "error", err)
		return 0, nil
	}
	return n, nil
}

func (r *Repository) SaveStreak(ctx context.Context, actorID string, streak int) error {
	key := r.resolver.Key(actorID, identity.FieldStreak)
	return r.store.Set(ctx, key, []byte(strconv.Itoa(streak)))
}

func (r *Repository) Notifications(ctx context.Context, actorID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	if _, err := r.getJSON(ctx, r.resolver.Key(actorID, identity.FieldNotifications), &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *Repository) SaveNotifications(ctx context.Context, actorID string, notifications []domain.Notification) error {
	for i := range notifications {
		if err := r.checkValid(&notifications[i]); err != nil {
			return err
		}
	}
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldNotifications), notifications)
}

// Sessions returns the global session list shared by every actor.
func (r *Repository) Sessions(ctx context.Context) ([]domain.Session, error) {
	var sessions []domain.Session
	if _, err := r.getJSON(ctx, identity.GlobalSessionsKey, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repository) SaveSessions(ctx context.Context, sessions []domain.Session) error {
	for i := range sessions {
		if err := r.checkValid(&sessions[i]); err != nil {
			return err
		}
	}
	return r.setJSON(ctx, identity.GlobalSessionsKey, sessions)
}

// Token returns the actor's stored sign-in token, empty when absent.
func (r *Repository) Token(ctx context.Context, actorID string) (string, error) {
	raw, err := r.store.Get(ctx, r.resolver.Key(actorID, identity.FieldToken))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", nil
	}
	return token, nil
}

func (r *Repository) SaveToken(ctx context.Context, actorID, token string) error {
	return r.setJSON(ctx, r.resolver.Key(actorID, identity.FieldToken), token)
}

func (r *Repository) RemoveToken(ctx context.Context, actorID string) error {
	return r.store.Remove(ctx, r.resolver.Key(actorID, identity.FieldToken))
}

// Keys lists every key the engine has written, for diagnostics.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	return r.store.ListKeys(ctx, r.resolver.Prefix())
}
