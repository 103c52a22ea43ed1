package repository

import (
	"context"
	"errors"

	"github.com/Aakash768/imf-gadget-api/internal/models"
)

// Storage-level outcomes the services translate into domain errors. The
// uniqueness errors come from constraint violations, never from pre-check
// reads: the constraint is the authoritative guard.
var (
	ErrNotFound             = errors.New("record not found")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrCodenameTaken        = errors.New("codename already exists")
	ErrGadgetDecommissioned = errors.New("gadget is already decommissioned")
	ErrGadgetDestroyed      = errors.New("gadget is destroyed")
)

type Users interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

type Gadgets interface {
	List(ctx context.Context, status string) ([]models.Gadget, error)

	// Resolve looks up by id when identifier is UUID-shaped, by codename
	// otherwise.
	Resolve(ctx context.Context, identifier string) (models.Gadget, error)

	Create(ctx context.Context, g models.Gadget) (models.Gadget, error)

	// Update patches only non-nil fields in a single statement and always
	// refreshes updated_at.
	Update(ctx context.Context, identifier string, name, status *string) (models.Gadget, error)

	// Decommission is a single conditional write: the status predicate is
	// part of the UPDATE so two racing requests cannot both transition.
	Decommission(ctx context.Context, identifier string) (models.Gadget, error)

	// Destroy transitions unconditionally; any existing gadget can be
	// destroyed regardless of prior status.
	Destroy(ctx context.Context, identifier string) (models.Gadget, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
