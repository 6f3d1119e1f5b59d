package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/models"
)

// newTestDB returns a *DB backed by sqlmock, configured the way the
// PostgreSQL connector configures a real connection.
func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return &DB{
		DB:         mockDB,
		driver:     DriverPostgres,
		sb:         sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		classifier: NewPostgresErrorClassifier(),
		logger:     logger.Nop(),
	}, mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRows(id int64, email, name string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "email", "name", "password_hash", "is_active", "is_staff", "is_superuser", "last_login", "created_at"}).
		AddRow(id, email, name, "hash", true, false, false, nil, time.Now())
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()
	user := models.User{
		Email:        "john@example.com",
		Name:         "John",
		PasswordHash: "hash",
		IsActive:     true,
	}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.Name, user.PasswordHash, user.IsActive, user.IsStaff, user.IsSuperuser).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected ID=1, got %d", created.ID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()
	user := models.User{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("john@example.com").
		WillReturnRows(userRows(1, "john@example.com", "John"))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != 1 || found.Email != "john@example.com" {
		t.Errorf("unexpected user returned: %+v", found)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindUserByEmail(ctx, "ghost@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs(int64(7)).
		WillReturnRows(userRows(7, "ann@example.com", "Ann"))

	found, err := repo.FindUserByID(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != 7 {
		t.Errorf("expected ID=7, got %d", found.ID)
	}
}

func TestUpdateUser_SetsOnlyProvidedFields(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()
	newName := "Johnny"

	mock.ExpectQuery("UPDATE users SET name").
		WithArgs(newName, int64(1)).
		WillReturnRows(userRows(1, "john@example.com", newName))

	updated, err := repo.UpdateUser(ctx, 1, UserUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("expected name %q, got %q", newName, updated.Name)
	}
}

func TestUpdateUser_NoFieldsDegradesToLookup(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs(int64(1)).
		WillReturnRows(userRows(1, "john@example.com", "John"))

	current, err := repo.UpdateUser(ctx, 1, UserUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.ID != 1 {
		t.Errorf("expected ID=1, got %d", current.ID)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()
	newName := "Johnny"

	mock.ExpectQuery("UPDATE users SET name").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateUser(ctx, 404, UserUpdate{Name: &newName})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestTouchLastLogin_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET last_login").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastLogin(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTouchLastLogin_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET last_login").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.TouchLastLogin(ctx, 404); !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
