package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO accounts (id, name, login, password_hash, status, media_reference_id)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Name, account.Login, account.PasswordHash,
		account.Status, account.MediaReferenceID).Scan(&account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, common.ErrorLoginAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	query :=
		`SELECT id, name, login, password_hash, status, COALESCE(media_reference_id::text, ''), created_at
		 FROM accounts
		 WHERE login = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&account.ID, &account.Name, &account.Login, &account.PasswordHash,
		&account.Status, &account.MediaReferenceID, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}
