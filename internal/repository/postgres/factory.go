package postgres

import (
	repo "github.com/Aakash768/imf-gadget-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users     repo.Users
	Gadgets   repo.Gadgets
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     &usersRepo{pool},
		Gadgets:   &gadgetsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
