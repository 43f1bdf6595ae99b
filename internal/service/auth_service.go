package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/repository"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/session"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) ([]models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, identity session.Identity) (session.Session, error)
	Delete(ctx context.Context, id string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   *security.PasswordHasher
	log      zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	hasher *security.PasswordHasher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		log:      log,
	}
}

type RegisterInput struct {
	Username     string
	District     string
	Password     string
	Confirmation string
	// PreviousSessionID is replaced once the account exists.
	PreviousSessionID string
}

type AuthResult struct {
	User    models.User
	Session session.Session
}

// Register validates every field before reporting, so the caller can show all
// problems at once. The new account is always a citizen.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	user, err := createAccount(ctx, s.users, s.hasher, accountInput{
		Username:     input.Username,
		District:     input.District,
		Password:     input.Password,
		Confirmation: input.Confirmation,
		Role:         models.UserRoleCitizen,
	})
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Delete(ctx, input.PreviousSessionID); err != nil {
		return AuthResult{}, err
	}
	sess, err := s.sessions.Create(ctx, session.IdentityOf(user))
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("district", user.District).
		Msg("user registered")

	return AuthResult{User: user, Session: sess}, nil
}

type OfficialInput struct {
	Username string
	District string
	Password string
}

// ProvisionOfficial creates an official account. It is the only path to the
// official role and is reached from the operator CLI, never over HTTP.
func ProvisionOfficial(ctx context.Context, users UserStore, hasher *security.PasswordHasher, input OfficialInput) (models.User, error) {
	return createAccount(ctx, users, hasher, accountInput{
		Username:     input.Username,
		District:     input.District,
		Password:     input.Password,
		Confirmation: input.Password,
		Role:         models.UserRoleOfficial,
	})
}

type accountInput struct {
	Username     string
	District     string
	Password     string
	Confirmation string
	Role         models.UserRole
}

func createAccount(ctx context.Context, users UserStore, hasher *security.PasswordHasher, input accountInput) (models.User, error) {
	if !input.Role.Valid() {
		return models.User{}, fmt.Errorf("create account: unknown role %q", input.Role)
	}

	username := strings.TrimSpace(input.Username)
	district := strings.TrimSpace(input.District)

	verr := &ValidationError{}
	if username == "" {
		verr.add("username", ErrInvalidInput, "must provide username")
	}
	if !models.IsDistrict(district) {
		verr.add("district", ErrInvalidInput, "must select a valid district")
	}
	if blank(input.Password) {
		verr.add("password", ErrInvalidInput, "must provide password")
	}
	if input.Password != input.Confirmation {
		verr.add("confirmation", ErrPasswordMismatch, "passwords do not match")
	}
	if !verr.has("username") {
		taken, err := users.UsernameExists(ctx, username)
		if err != nil {
			return models.User{}, fmt.Errorf("check username: %w", err)
		}
		if taken {
			verr.add("username", ErrDuplicateUsername, "username already taken")
		}
	}
	if !verr.empty() {
		return models.User{}, verr
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := users.Create(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		District:     district,
		Role:         input.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			verr.add("username", ErrDuplicateUsername, "username already taken")
			return models.User{}, verr
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

type LoginInput struct {
	Username          string
	Password          string
	PreviousSessionID string
}

// Login always destroys the previous session first, so a failed attempt never
// leaves an earlier identity bound to the browser.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if err := s.sessions.Delete(ctx, input.PreviousSessionID); err != nil {
		return AuthResult{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return AuthResult{}, &ValidationError{Fields: []FieldError{
			{Field: "username", Kind: ErrInvalidInput, Message: "must provide username"},
		}}
	}
	if blank(input.Password) {
		return AuthResult{}, &ValidationError{Fields: []FieldError{
			{Field: "password", Kind: ErrInvalidInput, Message: "must provide password"},
		}}
	}

	users, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}
	if len(users) != 1 {
		s.log.Warn().Str("username", username).Int("matches", len(users)).Msg("login failed")
		return AuthResult{}, ErrInvalidCredentials
	}
	user := users[0]

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("stored password hash unreadable")
		return AuthResult{}, ErrInvalidCredentials
	}
	if !ok {
		s.log.Warn().Str("username", username).Msg("login failed")
		return AuthResult{}, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, session.IdentityOf(user))
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user logged in")

	return AuthResult{User: user, Session: sess}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
