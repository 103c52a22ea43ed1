package services

import (
	"context"
	"testing"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/apperr"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	"github.com/Aakash768/imf-gadget-api/internal/repository/memory"
	"github.com/Aakash768/imf-gadget-api/internal/worker"
)

func newUserFixture(t *testing.T) (*UserService, *auth.TokenManager, *worker.Pool) {
	t.Helper()
	tm := auth.NewTokenManager("test-secret", "test-issuer", time.Hour)
	wp := worker.NewPool(1)
	svc := NewUserService(memory.NewUsers(), tm, memory.NewAuditLogs(), wp)
	return svc, tm, wp
}

func TestRegisterLogin_Roundtrip(t *testing.T) {
	svc, tm, wp := newUserFixture(t)
	defer wp.Stop()
	ctx := context.Background()

	u, err := svc.Register(ctx, "ethan.hunt", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("Role = %q, want %q (never client-chosen)", u.Role, models.RoleUser)
	}

	got, token, _, err := svc.Login(ctx, "ethan.hunt", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Login user ID = %q, want %q", got.ID, u.ID)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify(login token) error = %v", err)
	}
	if claims.UserID != u.ID || claims.Username != "ethan.hunt" || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, wp := newUserFixture(t)
	defer wp.Stop()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "Str0ng!pass"},
		{"empty password", "ethan.hunt", ""},
		{"short username", "ab", "Str0ng!pass"},
		{"username with space", "ethan hunt", "Str0ng!pass"},
		{"password no lowercase", "ethan.hunt", "STR0NG!PASS"},
		{"password no uppercase", "ethan.hunt", "str0ng!pass"},
		{"password no digit", "ethan.hunt", "Strong!pass"},
		{"password no symbol", "ethan.hunt", "Str0ngpass"},
		{"password too short", "ethan.hunt", "St0!ngp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			if apperr.KindOf(err) != apperr.Validation {
				t.Errorf("kind = %v, want Validation (err=%v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, wp := newUserFixture(t)
	defer wp.Stop()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ethan.hunt", "Str0ng!pass"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := svc.Register(ctx, "ethan.hunt", "Other0!pass")
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("kind = %v, want Conflict", apperr.KindOf(err))
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, _, wp := newUserFixture(t)
	defer wp.Stop()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ethan.hunt", "Str0ng!pass"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _, _, err := svc.Login(ctx, "unknown.agent", "Str0ng!pass")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("unknown user kind = %v, want NotFound", apperr.KindOf(err))
	}

	_, _, _, err = svc.Login(ctx, "ethan.hunt", "Wr0ng!pass")
	if apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("bad password kind = %v, want Unauthenticated", apperr.KindOf(err))
	}

	_, _, _, err = svc.Login(ctx, "", "")
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("empty credentials kind = %v, want Validation", apperr.KindOf(err))
	}
}
