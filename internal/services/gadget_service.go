package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/Aakash768/imf-gadget-api/internal/apperr"
	"github.com/Aakash768/imf-gadget-api/internal/codename"
	"github.com/Aakash768/imf-gadget-api/internal/metrics"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	repo "github.com/Aakash768/imf-gadget-api/internal/repository"
	"github.com/Aakash768/imf-gadget-api/internal/worker"
	"github.com/google/uuid"
)

// GadgetService is the lifecycle engine: create, patch, decommission,
// self-destruct. All status transitions go through single conditional writes
// in the repository; this layer translates outcomes into the domain error
// taxonomy and emits audit entries off the request path.
type GadgetService struct {
	gadgets repo.Gadgets
	logs    repo.AuditLogs
	wp      *worker.Pool
}

func NewGadgetService(g repo.Gadgets, l repo.AuditLogs, wp *worker.Pool) *GadgetService {
	return &GadgetService{gadgets: g, logs: l, wp: wp}
}

func (s *GadgetService) audit(entityID, action string, details map[string]any) {
	id := entityID
	s.wp.Submit(func() {
		err := s.logs.Create(context.Background(), models.AuditLog{
			EntityType: "gadget",
			EntityID:   &id,
			Action:     action,
			Details:    details,
		})
		if err != nil {
			slog.Error("audit write", "action", action, "err", err)
		}
	})
}

func (s *GadgetService) List(ctx context.Context, status string) ([]models.Gadget, error) {
	return s.gadgets.List(ctx, status)
}

// Create generates a unique codename by resampling until the insert succeeds.
// The loop is unbounded: with the dictionary sizes involved a collision streak
// long enough to matter is a liveness assumption we accept, and the unique
// constraint in the store is what actually guards correctness.
func (s *GadgetService) Create(ctx context.Context, name, status string) (models.Gadget, error) {
	if strings.TrimSpace(name) == "" {
		return models.Gadget{}, apperr.New(apperr.Validation, "Gadget name is required")
	}
	if status == "" {
		status = string(models.StatusAvailable)
	}

	for {
		g, err := s.gadgets.Create(ctx, models.Gadget{
			ID:       uuid.NewString(),
			Name:     name,
			Codename: codename.Random(),
			Status:   models.GadgetStatus(status),
		})
		if errors.Is(err, repo.ErrCodenameTaken) {
			continue
		}
		if err != nil {
			return models.Gadget{}, err
		}
		metrics.GadgetTransitionsTotal.WithLabelValues("create").Inc()
		s.audit(g.ID, "created", map[string]any{"codename": g.Codename})
		return g, nil
	}
}

// Update is the free-form patch: only supplied fields change, and status is
// written verbatim without checking it against the canonical states. The
// dedicated transitions below are where the lifecycle rules live.
func (s *GadgetService) Update(ctx context.Context, identifier string, name, status *string) (models.Gadget, error) {
	g, err := s.gadgets.Update(ctx, identifier, name, status)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Gadget{}, apperr.New(apperr.NotFound, "Gadget not found")
	}
	if err != nil {
		return models.Gadget{}, err
	}
	metrics.GadgetTransitionsTotal.WithLabelValues("update").Inc()
	s.audit(g.ID, "updated", nil)
	return g, nil
}

func (s *GadgetService) Decommission(ctx context.Context, identifier string) (models.Gadget, error) {
	g, err := s.gadgets.Decommission(ctx, identifier)
	switch {
	case errors.Is(err, repo.ErrGadgetDestroyed):
		return models.Gadget{}, apperr.New(apperr.InvalidTransition, "Cannot decommission a destroyed gadget")
	case errors.Is(err, repo.ErrGadgetDecommissioned):
		return models.Gadget{}, apperr.New(apperr.InvalidTransition, "Gadget is already decommissioned")
	case errors.Is(err, repo.ErrNotFound):
		return models.Gadget{}, apperr.New(apperr.NotFound, "Gadget not found")
	case err != nil:
		return models.Gadget{}, err
	}
	metrics.GadgetTransitionsTotal.WithLabelValues("decommission").Inc()
	s.audit(g.ID, "decommissioned", nil)
	return g, nil
}

// SelfDestruct destroys any existing gadget regardless of prior status and
// returns a one-time confirmation code. The code is display-only: never
// stored, not a credential.
func (s *GadgetService) SelfDestruct(ctx context.Context, identifier string) (models.Gadget, string, error) {
	g, err := s.gadgets.Destroy(ctx, identifier)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Gadget{}, "", apperr.New(apperr.NotFound, "Gadget not found")
	}
	if err != nil {
		return models.Gadget{}, "", err
	}
	code, err := confirmationCode()
	if err != nil {
		return models.Gadget{}, "", err
	}
	metrics.GadgetTransitionsTotal.WithLabelValues("self_destruct").Inc()
	s.audit(g.ID, "self_destruct", map[string]any{"confirmation_code": code})
	return g, code, nil
}

func confirmationCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
