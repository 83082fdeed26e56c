// Seed populates the configured store with two demo users, their
// streaks and a shared group, so the simulator and manual testing
// start from known state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/config"
	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/logger"
	"github.com/savora-app/savora/internal/repository"
	"github.com/savora-app/savora/internal/service"
	"github.com/savora-app/savora/internal/storage"
	"github.com/savora-app/savora/internal/storage/gormkv"
	"github.com/savora-app/savora/internal/storage/rediskv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	repo := repository.New(store)
	hub := bus.NewHub()
	defer hub.Stop()
	services := service.NewServices(repo, hub, cfg)

	demo := []struct {
		actorID string
		input   service.OnboardInput
	}{
		{"demo-maya", service.OnboardInput{
			Name: "Maya", Email: "maya@example.com", Phone: "+971501111111",
			PhoneCountry: "AE", Password: "demo1234",
		}},
		{"demo-omar", service.OnboardInput{
			Name: "Omar", Email: "omar@example.com", Phone: "+971502222222",
			PhoneCountry: "AE", Password: "demo1234",
		}},
	}

	for _, d := range demo {
		if _, err := services.User.Onboard(ctx, d.actorID, d.input); err != nil {
			return fmt.Errorf("onboard %s: %w", d.actorID, err)
		}
		if _, err := services.User.SavePreferences(ctx, d.actorID, domain.Preferences{
			BudgetRange: "$$", DistanceRange: "5", Cuisines: []string{"lebanese", "italian"},
		}); err != nil {
			return err
		}
		if _, err := services.User.IncrementStreak(ctx, d.actorID); err != nil {
			return err
		}
	}

	group, err := services.User.AddGroup(ctx, "demo-maya", domain.Group{
		Name:        "Weekend foodies",
		Description: "Friday dinner crew",
		Photo:       "IoPeople",
		Members: []domain.Member{
			{Name: "Maya", Phone: "+971501111111", Email: "maya@example.com"},
			{Name: "Omar", Phone: "+971502222222", Email: "omar@example.com"},
		},
	})
	if err != nil {
		return err
	}
	slog.Info("seeded group", "id", group.ID, "name", group.Name)

	keys, err := repo.Keys(ctx)
	if err != nil {
		return err
	}
	slog.Info("seed complete", "records", len(keys))
	return nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "redis":
		return rediskv.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		return gormkv.Open(cfg.StorageDriver, cfg.DatabaseURL)
	}
}
