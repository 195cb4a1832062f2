package postgres

import (
	"context"
	"database/sql"

	"kbapi/internal/model"
	"kbapi/internal/repository"
)

// AccountPostgres is a PostgreSQL implementation of
// repository.AccountRepository.
type AccountPostgres struct {
	db *sql.DB
}

func NewAccountPostgres(db *sql.DB) *AccountPostgres {
	return &AccountPostgres{db: db}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

// FindByLogin returns the account for a login, or sql.ErrNoRows.
func (r *AccountPostgres) FindByLogin(ctx context.Context, login string) (*model.Account, error) {
	const q = `
		SELECT id, login, password_hash, role, created_at
		FROM accounts
		WHERE login = $1
	`
	var a model.Account
	err := r.db.QueryRowContext(ctx, q, login).Scan(
		&a.ID, &a.Login, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
