package claims

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Attach(ctx context.Context, claims []models.Claim) error {
	query :=
		`INSERT INTO account_claims (account_id, claim_type, claim_value)
		 VALUES ($1, $2, $3)
		 `

	for _, c := range claims {
		if _, err := r.db.ExecContext(ctx, query, c.AccountID, c.Type, c.Value); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) SelectByAccount(ctx context.Context, accountID string) ([]models.Claim, error) {
	query :=
		`SELECT account_id, claim_type, claim_value FROM account_claims
		 WHERE account_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(&c.AccountID, &c.Type, &c.Value); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
