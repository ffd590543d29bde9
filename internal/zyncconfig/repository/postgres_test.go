package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"zync/backend/internal/zyncconfig/domain"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestPostgresRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT deployer_url, deployer_secret FROM zync_config WHERE id = \\$1").
		WithArgs(domain.SingletonID).
		WillReturnRows(sqlmock.NewRows([]string{"deployer_url", "deployer_secret"}).AddRow("https://i.example", "s3cret"))

	got, err := NewPostgresRepository(db).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil config")
	}
	if got.DeployerURL != "https://i.example" || got.JWTSecret != "s3cret" {
		t.Errorf("Get = %+v", got)
	}
}

func TestPostgresRepository_Get_NullColumns(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT deployer_url, deployer_secret FROM zync_config").
		WithArgs(domain.SingletonID).
		WillReturnRows(sqlmock.NewRows([]string{"deployer_url", "deployer_secret"}).AddRow("https://i.example", nil))

	got, err := NewPostgresRepository(db).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.JWTSecret != "" {
		t.Errorf("JWTSecret = %q, want empty for NULL", got.JWTSecret)
	}
}

func TestPostgresRepository_Get_NoRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT deployer_url, deployer_secret FROM zync_config").
		WithArgs(domain.SingletonID).
		WillReturnError(sql.ErrNoRows)

	got, err := NewPostgresRepository(db).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil", got)
	}
}

func TestPostgresRepository_Get_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT deployer_url, deployer_secret FROM zync_config").
		WithArgs(domain.SingletonID).
		WillReturnError(errors.New("connection reset"))

	if _, err := NewPostgresRepository(db).Get(context.Background()); err == nil {
		t.Fatal("Get should return database errors")
	}
}

func TestPostgresRepository_Put(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO zync_config \\(id, deployer_url, deployer_secret\\) VALUES \\(\\$1, \\$2, \\$3\\)").
		WithArgs(domain.SingletonID, "https://i.example", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewPostgresRepository(db).Put(context.Background(), &domain.Config{DeployerURL: "https://i.example"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
}
