package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/models"
)

// userColumns is the full column list of the "users" table, in scan order.
var userColumns = []string{
	"id", "email", "name", "password_hash",
	"is_active", "is_staff", "is_superuser",
	"last_login", "created_at",
}

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles user account creation, lookup, and profile updates against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (ID, CreatedAt).
//
// The INSERT carries a RETURNING clause, so the caller receives the
// canonical database representation of the newly created account.
//
// Error handling:
//   - unique-constraint violation on email → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Insert(user.TableName()).
		Columns("email", "name", "password_hash", "is_active", "is_staff", "is_superuser").
		Values(user.Email, user.Name, user.PasswordHash, user.IsActive, user.IsStaff, user.IsSuperuser).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to build insert query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	// create user in db and scan back server-assigned fields
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Str("email", user.Email).Msg("error inserting user")

		if r.db.IsUniqueViolation(err) {
			return models.User{}, ErrEmailAlreadyExists
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// FindUserByEmail retrieves a user record whose Email matches.
//
// Error handling:
//   - empty result set → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUserBy(ctx, "email", email)
}

// FindUserByID retrieves a user record by primary key.
//
// Error handling mirrors [userRepository.FindUserByEmail].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUserBy(ctx, "id", userID)
}

func (r *userRepository) findUserBy(ctx context.Context, column string, value any) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(map[string]any{column: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUserBy").Msg("failed to build select query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var foundUser models.User
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&foundUser.ID,
		&foundUser.Email,
		&foundUser.Name,
		&foundUser.PasswordHash,
		&foundUser.IsActive,
		&foundUser.IsStaff,
		&foundUser.IsSuperuser,
		&foundUser.LastLogin,
		&foundUser.CreatedAt,
	)
	if scanErr != nil {
		if isNoRows(scanErr) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(scanErr).Str("func", "*userRepository.findUserBy").Str("column", column).Msg("error scanning user row")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", scanErr)
	}

	return foundUser, nil
}

// UpdateUser applies the non-nil fields of update to the user row and
// returns the updated record.
//
// When update carries no fields at all the method degrades to a plain
// lookup, so callers always receive the current state of the account.
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, update UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Name == nil && update.PasswordHash == nil {
		log.Debug().Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("no fields to update, returning current state")
		return r.FindUserByID(ctx, userID)
	}

	builder := r.db.Builder().
		Update(models.User{}.TableName()).
		Where(map[string]any{"id": userID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.PasswordHash != nil {
		builder = builder.Set("password_hash", *update.PasswordHash)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("failed to build update query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updatedUser models.User
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&updatedUser.ID,
		&updatedUser.Email,
		&updatedUser.Name,
		&updatedUser.PasswordHash,
		&updatedUser.IsActive,
		&updatedUser.IsStaff,
		&updatedUser.IsSuperuser,
		&updatedUser.LastLogin,
		&updatedUser.CreatedAt,
	)
	if scanErr != nil {
		if isNoRows(scanErr) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(scanErr).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("error executing update query")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
	}

	return updatedUser, nil
}

// TouchLastLogin stamps the user's last_login column with the current time.
// Invoked whenever a token is successfully issued.
func (r *userRepository) TouchLastLogin(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Update(models.User{}.TableName()).
		Set("last_login", time.Now().UTC()).
		Where(map[string]any{"id": userID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.TouchLastLogin").Msg("failed to build update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.TouchLastLogin").Int64("user_id", userID).Msg("error stamping last login")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
