// Package memory holds in-memory repository implementations backing the unit
// and handler tests. They mirror the postgres semantics, including the
// conditional-write transition guards and uniqueness-violation errors, so the
// services are tested against the same contract they run on.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/models"
	"github.com/Aakash768/imf-gadget-api/internal/repository"
	"github.com/google/uuid"
)

type UsersRepo struct {
	mu     sync.Mutex
	byID   map[string]models.User
	byName map[string]string
}

func NewUsers() *UsersRepo {
	return &UsersRepo{byID: map[string]models.User{}, byName: map[string]string{}}
}

func (r *UsersRepo) Create(_ context.Context, username, hash string, role models.Role) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return models.User{}, repository.ErrUsernameTaken
	}
	now := time.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byName[username] = u.ID
	return u, nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[username]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UsersRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byName, u.Username)
		delete(r.byID, id)
	}
}

type GadgetsRepo struct {
	mu         sync.Mutex
	byID       map[string]models.Gadget
	byCodename map[string]string
	order      []string
}

func NewGadgets() *GadgetsRepo {
	return &GadgetsRepo{byID: map[string]models.Gadget{}, byCodename: map[string]string{}}
}

func (r *GadgetsRepo) List(_ context.Context, status string) ([]models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Gadget
	for _, id := range r.order {
		g := r.byID[id]
		if status == "" || string(g.Status) == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GadgetsRepo) resolveLocked(identifier string) (models.Gadget, bool) {
	if models.IsUUIDShaped(identifier) {
		g, ok := r.byID[strings.ToLower(identifier)]
		return g, ok
	}
	id, ok := r.byCodename[identifier]
	if !ok {
		return models.Gadget{}, false
	}
	return r.byID[id], true
}

func (r *GadgetsRepo) Resolve(_ context.Context, identifier string) (models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.resolveLocked(identifier)
	if !ok {
		return models.Gadget{}, repository.ErrNotFound
	}
	return g, nil
}

func (r *GadgetsRepo) Create(_ context.Context, g models.Gadget) (models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCodename[g.Codename]; ok {
		return models.Gadget{}, repository.ErrCodenameTaken
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	r.byID[g.ID] = g
	r.byCodename[g.Codename] = g.ID
	r.order = append(r.order, g.ID)
	return g, nil
}

func (r *GadgetsRepo) Update(_ context.Context, identifier string, name, status *string) (models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.resolveLocked(identifier)
	if !ok {
		return models.Gadget{}, repository.ErrNotFound
	}
	if name != nil {
		g.Name = *name
	}
	if status != nil {
		g.Status = models.GadgetStatus(*status)
	}
	g.UpdatedAt = time.Now()
	r.byID[g.ID] = g
	return g, nil
}

func (r *GadgetsRepo) Decommission(_ context.Context, identifier string) (models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.resolveLocked(identifier)
	if !ok {
		return models.Gadget{}, repository.ErrNotFound
	}
	switch g.Status {
	case models.StatusDestroyed:
		return models.Gadget{}, repository.ErrGadgetDestroyed
	case models.StatusDecommissioned:
		return models.Gadget{}, repository.ErrGadgetDecommissioned
	}
	now := time.Now()
	g.Status = models.StatusDecommissioned
	g.DecommissionedAt = &now
	g.UpdatedAt = now
	r.byID[g.ID] = g
	return g, nil
}

func (r *GadgetsRepo) Destroy(_ context.Context, identifier string) (models.Gadget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.resolveLocked(identifier)
	if !ok {
		return models.Gadget{}, repository.ErrNotFound
	}
	g.Status = models.StatusDestroyed
	g.UpdatedAt = time.Now()
	r.byID[g.ID] = g
	return g, nil
}

type AuditLogsRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewAuditLogs() *AuditLogsRepo { return &AuditLogsRepo{} }

func (r *AuditLogsRepo) Create(_ context.Context, l models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.CreatedAt = time.Now()
	r.entries = append(r.entries, l)
	return nil
}

func (r *AuditLogsRepo) Entries() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}
