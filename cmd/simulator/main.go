// Simulator drives two clients through a full decision session against
// one shared store: onboarding, a group invitation, session creation,
// join by code, preference submission and the matched result. It is the
// development stand-in for two people using the app side by side.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/client"
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
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("simulation complete")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	repo := repository.New(store)
	hub := bus.NewHub()
	defer hub.Stop()
	services := service.NewServices(repo, hub, cfg)

	maya, err := client.New(ctx, "sim-maya", repo, services, hub, cfg.PollInterval)
	if err != nil {
		return err
	}
	defer maya.Close()
	omar, err := client.New(ctx, "sim-omar", repo, services, hub, cfg.PollInterval)
	if err != nil {
		return err
	}
	defer omar.Close()

	if _, err := maya.Onboard(ctx, service.OnboardInput{
		Name: "Maya", Email: "maya@example.com", Phone: "+971501111111", PhoneCountry: "AE",
	}); err != nil {
		return fmt.Errorf("onboard maya: %w", err)
	}
	if _, err := omar.Onboard(ctx, service.OnboardInput{
		Name: "Omar", Email: "omar@example.com", Phone: "+971502222222", PhoneCountry: "AE",
	}); err != nil {
		return fmt.Errorf("onboard omar: %w", err)
	}
	slog.Info("both actors onboarded")

	group, err := maya.AddGroup(ctx, domain.Group{
		Name:        "Weekend foodies",
		Description: "Friday dinner crew",
		Photo:       "IoPeople",
		Members:     []domain.Member{{Name: "Maya", Phone: "+971501111111", Email: "maya@example.com"}},
	})
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	if err := maya.Invite(ctx, "sim-omar", domain.Notification{
		Type:         domain.NotificationGroupInvite,
		GroupID:      group.ID,
		GroupName:    group.Name,
		GroupIcon:    group.Photo,
		GroupMembers: group.Members,
	}); err != nil {
		return fmt.Errorf("invite: %w", err)
	}

	if err := omar.Refresh(ctx); err != nil {
		return err
	}
	notifications := omar.Notifications()
	if len(notifications) == 0 {
		return fmt.Errorf("omar received no invitation")
	}
	if err := omar.Accept(ctx, notifications[0].ID); err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}
	if len(omar.Groups()) != 1 {
		return fmt.Errorf("group did not materialize for omar")
	}
	slog.Info("group invitation accepted", "group", group.Name)

	session, err := maya.CreateSession(ctx, service.CreateSessionInput{
		Name: "Friday dinner",
		Type: domain.SessionTypeQuick,
		Icon: "IoRestaurant",
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	slog.Info("session created", "code", session.Code)

	if _, err := omar.JoinByCode(ctx, session.Code); err != nil {
		return fmt.Errorf("join by code: %w", err)
	}
	slog.Info("omar joined", "session", session.ID)

	if err := maya.StartMatching(ctx, session.ID); err != nil {
		return fmt.Errorf("start matching: %w", err)
	}

	if err := maya.SubmitPreferences(ctx, session.ID, domain.Preferences{
		BudgetRange: "$$", Cuisines: []string{"lebanese", "italian"},
	}); err != nil {
		return fmt.Errorf("maya submit: %w", err)
	}
	if err := omar.SubmitPreferences(ctx, session.ID, domain.Preferences{
		BudgetRange: "$$$", Cuisines: []string{"japanese"},
	}); err != nil {
		return fmt.Errorf("omar submit: %w", err)
	}

	deadline := time.After(10 * cfg.PollInterval)
	for !maya.AllSubmitted(session.ID) || !omar.AllSubmitted(session.ID) {
		select {
		case <-deadline:
			return fmt.Errorf("clients never observed completion")
		case <-time.After(cfg.PollInterval / 4):
		}
	}

	final, err := services.Session.FindByID(ctx, session.ID)
	if err != nil {
		return err
	}
	if final.Stage != domain.StageResult || final.Status != domain.SessionStatusCompleted {
		return fmt.Errorf("session did not complete: stage=%s status=%s", final.Stage, final.Status)
	}
	slog.Info("both clients observed the result", "stage", final.Stage)

	if _, err := maya.IncrementStreak(ctx); err != nil {
		return err
	}
	if err := maya.AddFavorite(ctx, domain.Favorite{
		ID: "r1", Name: "Bella Vista", Cuisine: "Italian", Rating: 4.7,
	}); err != nil {
		return err
	}
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
