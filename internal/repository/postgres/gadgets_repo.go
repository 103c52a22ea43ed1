package postgres

import (
	"context"
	"errors"

	"github.com/Aakash768/imf-gadget-api/internal/models"
	"github.com/Aakash768/imf-gadget-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gadgetCols = `id, name, codename, status, created_at, updated_at, decommissioned_at`

type gadgetsRepo struct{ pool *pgxpool.Pool }

func NewGadgets(pool *pgxpool.Pool) repository.Gadgets {
	return &gadgetsRepo{pool: pool}
}

// whereIdentifier picks the lookup branch by shape. The id column is compared
// as text so a UUID-shaped string that is not a valid uuid misses with zero
// rows instead of a cast error.
func whereIdentifier(identifier string) string {
	if models.IsUUIDShaped(identifier) {
		return `id::text = lower($1)`
	}
	return `codename = $1`
}

func (r *gadgetsRepo) List(ctx context.Context, status string) ([]models.Gadget, error) {
	q := `SELECT ` + gadgetCols + ` FROM gadgets ORDER BY created_at`
	var rows pgx.Rows
	var err error
	if status != "" {
		rows, err = r.pool.Query(ctx, `SELECT `+gadgetCols+` FROM gadgets WHERE status=$1 ORDER BY created_at`, status)
	} else {
		rows, err = r.pool.Query(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Gadget
	for rows.Next() {
		g, err := scanGadget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *gadgetsRepo) Resolve(ctx context.Context, identifier string) (models.Gadget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+gadgetCols+` FROM gadgets WHERE `+whereIdentifier(identifier), identifier)
	return scanGadgetErr(row)
}

func (r *gadgetsRepo) Create(ctx context.Context, g models.Gadget) (models.Gadget, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO gadgets(id, name, codename, status) VALUES($1,$2,$3,$4) RETURNING `+gadgetCols,
		g.ID, g.Name, g.Codename, string(g.Status),
	)
	created, err := scanGadgetErr(row)
	if isUniqueViolation(err) {
		return models.Gadget{}, repository.ErrCodenameTaken
	}
	return created, err
}

func (r *gadgetsRepo) Update(ctx context.Context, identifier string, name, status *string) (models.Gadget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE gadgets
		    SET name = COALESCE($2, name),
		        status = COALESCE($3, status),
		        updated_at = now()
		  WHERE `+whereIdentifier(identifier)+`
		  RETURNING `+gadgetCols,
		identifier, name, status,
	)
	return scanGadgetErr(row)
}

func (r *gadgetsRepo) Decommission(ctx context.Context, identifier string) (models.Gadget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE gadgets
		    SET status = $2,
		        decommissioned_at = now(),
		        updated_at = now()
		  WHERE `+whereIdentifier(identifier)+`
		    AND status NOT IN ($2, $3)
		  RETURNING `+gadgetCols,
		identifier, string(models.StatusDecommissioned), string(models.StatusDestroyed),
	)
	g, err := scanGadgetErr(row)
	if !errors.Is(err, repository.ErrNotFound) {
		return g, err
	}

	// Zero rows: either the gadget does not exist or the predicate blocked
	// the transition. A follow-up read classifies which; the write itself
	// stays atomic either way.
	current, err := r.Resolve(ctx, identifier)
	if err != nil {
		return models.Gadget{}, err
	}
	switch current.Status {
	case models.StatusDestroyed:
		return models.Gadget{}, repository.ErrGadgetDestroyed
	case models.StatusDecommissioned:
		return models.Gadget{}, repository.ErrGadgetDecommissioned
	}
	return models.Gadget{}, repository.ErrNotFound
}

func (r *gadgetsRepo) Destroy(ctx context.Context, identifier string) (models.Gadget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE gadgets
		    SET status = $2,
		        updated_at = now()
		  WHERE `+whereIdentifier(identifier)+`
		  RETURNING `+gadgetCols,
		identifier, string(models.StatusDestroyed),
	)
	return scanGadgetErr(row)
}

func scanGadget(row pgx.Row) (models.Gadget, error) {
	var g models.Gadget
	var status string
	err := row.Scan(&g.ID, &g.Name, &g.Codename, &status, &g.CreatedAt, &g.UpdatedAt, &g.DecommissionedAt)
	g.Status = models.GadgetStatus(status)
	return g, err
}

func scanGadgetErr(row pgx.Row) (models.Gadget, error) {
	g, err := scanGadget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Gadget{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Gadget{}, err
	}
	return g, nil
}
