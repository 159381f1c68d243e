package claims

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/idprov/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAttach_InsertsEachClaim(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+account_claims`).
		WithArgs("a-1", models.ClaimTypeImage, "https://cdn.example.com/x.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+account_claims`).
		WithArgs("a-1", models.ClaimTypeName, "John Smith").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Attach(context.Background(), []models.Claim{
		{AccountID: "a-1", Type: models.ClaimTypeImage, Value: "https://cdn.example.com/x.png"},
		{AccountID: "a-1", Type: models.ClaimTypeName, Value: "John Smith"},
	})
	if err != nil {
		t.Fatalf("Attach error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttach_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+account_claims`).
		WillReturnError(errors.New("db down"))

	err := repo.Attach(context.Background(), []models.Claim{
		{AccountID: "a-1", Type: models.ClaimTypeName, Value: "John Smith"},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSelectByAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"account_id", "claim_type", "claim_value"}).
		AddRow("a-1", models.ClaimTypeImage, "https://cdn.example.com/x.png").
		AddRow("a-1", models.ClaimTypeName, "John Smith")
	mock.ExpectQuery(`SELECT\s+account_id,\s*claim_type,\s*claim_value`).
		WithArgs("a-1").
		WillReturnRows(rows)

	claims, err := repo.SelectByAccount(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("SelectByAccount error: %v", err)
	}
	if len(claims) != 2 || claims[0].Type != models.ClaimTypeImage || claims[1].Value != "John Smith" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
