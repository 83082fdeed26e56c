package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/repository"
)

// UserService covers an actor's private records: profile, preferences,
// groups, favorites and streak.
type UserService struct {
	repo      *repository.Repository
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewUserService(repo *repository.Repository, jwtSecret string, jwtTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

type OnboardInput struct {
	Name         string
	DOB          string
	Age          int
	Email        string
	Phone        string
	PhoneCountry string
	Password     string
}

// Onboard creates the actor's profile. The password is stored as a
// bcrypt hash, never in the clear.
func (s *UserService) Onboard(ctx context.Context, actorID string, input OnboardInput) (*domain.User, error) {
	user := &domain.User{
		ID:           actorID,
		Name:         input.Name,
		DOB:          input.DOB,
		Age:          input.Age,
		Email:        input.Email,
		Phone:        input.Phone,
		PhoneCountry: input.PhoneCountry,
		CreatedAt:    time.Now(),
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.SaveUser(ctx, actorID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) User(ctx context.Context, actorID string) (*domain.User, error) {
	return s.repo.User(ctx, actorID)
}

// SignIn verifies email and password against the stored profile and
// issues a signed token, persisted in the actor's namespace until
// logout.
func (s *UserService) SignIn(ctx context.Context, actorID, email, password string) (string, error) {
	user, err := s.repo.User(ctx, actorID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if user.Email != email {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}
	if err := s.repo.SaveToken(ctx, actorID, token); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyToken parses a token issued by SignIn and returns its subject.
func (s *UserService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}

// Logout clears the stored token. The profile and every other record
// survive.
func (s *UserService) Logout(ctx context.Context, actorID string) error {
	return s.repo.RemoveToken(ctx, actorID)
}

// SavePreferences persists the actor's preferences, defaulting currency
// and distance unit on every save.
func (s *UserService) SavePreferences(ctx context.Context, actorID string, prefs domain.Preferences) (*domain.Preferences, error) {
	prefs.ApplyDefaults()
	if err := s.repo.SavePreferences(ctx, actorID, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *UserService) Preferences(ctx context.Context, actorID string) (*domain.Preferences, error) {
	return s.repo.Preferences(ctx, actorID)
}

// AddGroup appends a group to the actor's own collection.
func (s *UserService) AddGroup(ctx context.Context, actorID string, group domain.Group) (*domain.Group, error) {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	groups, err := s.repo.Groups(ctx, actorID)
	if err != nil {
		return nil, err
	}
	groups = append(groups, group)
	if err := s.repo.SaveGroups(ctx, actorID, groups); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateGroup applies a mutation to the actor's copy of the group.
func (s *UserService) UpdateGroup(ctx context.Context, actorID, groupID string, apply func(*domain.Group)) error {
	groups, err := s.repo.Groups(ctx, actorID)
	if err != nil {
		return err
	}
	for i := range groups {
		if groups[i].ID == groupID {
			apply(&groups[i])
			return s.repo.SaveGroups(ctx, actorID, groups)
		}
	}
	return domain.ErrGroupNotFound
}

func (s *UserService) Groups(ctx context.Context, actorID string) ([]domain.Group, error) {
	return s.repo.Groups(ctx, actorID)
}

// AddFavorite appends a restaurant to the actor's favorites.
func (s *UserService) AddFavorite(ctx context.Context, actorID string, fav domain.Favorite) error {
	if fav.ID == "" {
		fav.ID = uuid.NewString()
	}
	favorites, err := s.repo.Favorites(ctx, actorID)
	if err != nil {
		return err
	}
	favorites = append(favorites, fav)
	return s.repo.SaveFavorites(ctx, actorID, favorites)
}

func (s *UserService) Favorites(ctx context.Context, actorID string) ([]domain.Favorite, error) {
	return s.repo.Favorites(ctx, actorID)
}

// IncrementStreak bumps the actor's streak counter and returns the new
// value. The counter only ever grows.
func (s *UserService) IncrementStreak(ctx context.Context, actorID string) (int, error) {
	streak, err := s.repo.Streak(ctx, actorID)
	if err != nil {
		return 0, err
	}
	streak++
	if err := s.repo.SaveStreak(ctx, actorID, streak); err != nil {
		return 0, err
	}
	return streak, nil
}

func (s *UserService) Streak(ctx context.Context, actorID string) (int, error) {
	return s.repo.Streak(ctx, actorID)
}
