package roles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/idprov/internal/common"
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

func TestFindByName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("r-1", models.RoleAdmin)
	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+roles`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(rows)

	role, err := repo.FindByName(context.Background(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("FindByName error: %v", err)
	}
	if role.ID != "r-1" || role.Name != models.RoleAdmin {
		t.Fatalf("unexpected role: %+v", role)
	}
}

func TestFindByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+roles`).
		WithArgs("Ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "Ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestCreate_GeneratesID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+roles`).
		WithArgs(sqlmock.AnyArg(), models.RoleUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	role, err := repo.Create(context.Background(), &models.Role{Name: models.RoleUser})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if role.ID == "" {
		t.Fatal("expected generated role id")
	}
}

func TestAssign(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+account_roles`).
		WithArgs("a-1", "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Assign(context.Background(), "a-1", "r-1"); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
}

func TestSelectByAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name"}).AddRow(models.RoleUser)
	mock.ExpectQuery(`SELECT\s+r\.name\s+FROM\s+roles`).
		WithArgs("a-1").
		WillReturnRows(rows)

	names, err := repo.SelectByAccount(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("SelectByAccount error: %v", err)
	}
	if len(names) != 1 || names[0] != models.RoleUser {
		t.Fatalf("unexpected roles: %+v", names)
	}
}
