package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/apperr"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	repo "github.com/Aakash768/imf-gadget-api/internal/repository"
	"github.com/Aakash768/imf-gadget-api/internal/worker"
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
	logs  repo.AuditLogs
	wp    *worker.Pool
}

func NewUserService(u repo.Users, tm *auth.TokenManager, l repo.AuditLogs, wp *worker.Pool) *UserService {
	return &UserService{users: u, tm: tm, logs: l, wp: wp}
}

func (s *UserService) audit(userID, action string) {
	id := userID
	s.wp.Submit(func() {
		err := s.logs.Create(context.Background(), models.AuditLog{
			EntityType: "user",
			EntityID:   &id,
			Action:     action,
		})
		if err != nil {
			slog.Error("audit write", "action", action, "err", err)
		}
	})
}

// Register creates a user-role account. Username and password are validated
// against the fixed policies; the duplicate check is the unique constraint,
// surfaced as a conflict, never a pre-check read.
func (s *UserService) Register(ctx context.Context, username, password string) (models.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return models.PublicUser{}, apperr.New(apperr.Validation, "Username and Password are required")
	}
	if !models.ValidUsername(username) {
		return models.PublicUser{}, apperr.New(apperr.Validation,
			"Username must be 3-16 characters long, alphanumeric, and can include underscores and dots, no space")
	}
	if reason := auth.CheckPasswordPolicy(password); reason != "" {
		return models.PublicUser{}, apperr.New(apperr.Validation, reason)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.PublicUser{}, err
	}

	// Role is user unconditionally; admin accounts are provisioned out of band.
	u, err := s.users.Create(ctx, username, hash, models.RoleUser)
	if errors.Is(err, repo.ErrUsernameTaken) {
		return models.PublicUser{}, apperr.New(apperr.Conflict, "Username already exists")
	}
	if err != nil {
		return models.PublicUser{}, err
	}
	s.audit(u.ID, "registered")
	return u.Public(), nil
}

// Login verifies credentials and issues a session token. Note tokens stay
// valid until natural expiry; logout only clears the cookie.
func (s *UserService) Login(ctx context.Context, username, password string) (models.PublicUser, string, time.Time, error) {
	if username == "" || password == "" {
		return models.PublicUser{}, "", time.Time{}, apperr.New(apperr.Validation, "Username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return models.PublicUser{}, "", time.Time{}, apperr.New(apperr.NotFound, "User doesn't exist")
	}
	if err != nil {
		return models.PublicUser{}, "", time.Time{}, err
	}

	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.PublicUser{}, "", time.Time{}, apperr.New(apperr.Unauthenticated, "Incorrect password")
	}

	token, expiry, err := s.tm.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		return models.PublicUser{}, "", time.Time{}, err
	}
	s.audit(u.ID, "logged_in")
	return u.Public(), token, expiry, nil
}
