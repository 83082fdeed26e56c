// Package testutil provides storage and fixture helpers for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/config"
	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/repository"
	"github.com/savora-app/savora/internal/service"
	"github.com/savora-app/savora/internal/storage/gormkv"
	"github.com/savora-app/savora/internal/storage/rediskv"
)

// NewStore returns a SQLite-backed store in a per-test temp directory.
func NewStore(t *testing.T) *gormkv.Store {
	t.Helper()
	store, err := gormkv.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	return store
}

// NewRedisStore returns a store backed by an in-process miniredis.
func NewRedisStore(t *testing.T) *rediskv.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return rediskv.Open(mr.Addr(), "", 0)
}

// NewRepo returns a repository over a fresh SQLite store.
func NewRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.New(NewStore(t))
}

// NewServices wires a repository, hub and services over a fresh store.
func NewServices(t *testing.T) (*service.Services, *repository.Repository, *bus.Hub) {
	t.Helper()
	repo := NewRepo(t)
	hub := bus.NewHub()
	t.Cleanup(hub.Stop)
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	return service.NewServices(repo, hub, cfg), repo, hub
}

// SeedUser persists a minimal profile for the actor and returns it.
func SeedUser(t *testing.T, repo *repository.Repository, actorID, name, phone string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        actorID,
		Name:      name,
		Email:     name + "@example.com",
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if err := repo.SaveUser(context.Background(), actorID, user); err != nil {
		t.Fatalf("failed to seed user %s: %v", actorID, err)
	}
	return user
}

// Participant builds an unjoined participant.
func Participant(name, phone string) domain.Participant {
	return domain.Participant{Name: name, Phone: phone, Email: name + "@example.com"}
}
