package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/dberrors"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

const userColumns = "id, username, email, password, first_name, last_name, is_staff, is_superuser, is_active, date_joined, last_login"

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.IsStaff, &user.IsSuperuser,
		&user.IsActive, &user.DateJoined, &user.LastLogin)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "first_name", "last_name",
			"is_staff", "is_superuser", "is_active", "date_joined").
		Values(user.Username, user.Email, user.Password, user.FirstName, user.LastName,
			user.IsStaff, user.IsSuperuser, user.IsActive, time.Now()).
		Suffix("RETURNING id, date_joined").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.DateJoined); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrUsernameExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("username", username).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return user, nil
}

// GetAll retrieves all users, optionally filtered by a free-text query over
// username, names, and email.
func (r *UserRepository) GetAll(ctx context.Context, query string) ([]*models.User, error) {
	qb := r.sb.Select(userColumns).
		From("users").
		OrderBy("username ASC")
	if query != "" {
		pattern := "%" + query + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Update persists changes to a user's mutable fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("email", user.Email).
		Set("password", user.Password).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("is_staff", user.IsStaff).
		Set("is_superuser", user.IsSuperuser).
		Set("is_active", user.IsActive).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin stamps a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login")
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}

// GetPermissions collects the distinct permission codenames granted to a
// user through group membership. Superusers are handled by the caller.
func (r *UserRepository) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT gp.permission").
		From("group_permissions gp").
		Join("user_groups ug ON ug.group_id = gp.group_id").
		Where(squirrel.Eq{"ug.user_id": userID}).
		OrderBy("gp.permission ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get permissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing get permissions query")
		return nil, fmt.Errorf("error querying user permissions: %w", err)
	}
	defer rows.Close()

	permissions := []string{}
	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return nil, fmt.Errorf("error scanning permission row: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permission rows: %w", err)
	}

	return permissions, nil
}

// GetGroupSlugs lists the slugs of the groups a user belongs to.
func (r *UserRepository) GetGroupSlugs(ctx context.Context, userID int64) ([]string, error) {
	sql, args, err := r.sb.Select("pg.slug").
		From("permission_groups pg").
		Join("user_groups ug ON ug.group_id = pg.id").
		Where(squirrel.Eq{"ug.user_id": userID}).
		OrderBy("pg.slug ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group slugs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing get group slugs query")
		return nil, fmt.Errorf("error querying user groups: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("error scanning group slug row: %w", err)
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group slug rows: %w", err)
	}

	return slugs, nil
}

// SetGroups replaces a user's group memberships with the groups named by the
// given slugs. Unknown slugs map to ErrGroupNotFound.
func (r *UserRepository) SetGroups(ctx context.Context, userID int64, groupSlugs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin set groups transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteSQL, deleteArgs, err := r.sb.Delete("user_groups").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear groups query: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error clearing user groups")
		return fmt.Errorf("error clearing user groups: %w", err)
	}

	for _, slug := range groupSlugs {
		insertSQL := `INSERT INTO user_groups (user_id, group_id)
			SELECT $1, id FROM permission_groups WHERE slug = $2`
		cmdTag, err := tx.Exec(ctx, insertSQL, userID, slug)
		if err != nil {
			logger.Error().Err(err).Int64("userID", userID).Str("group", slug).
				Msg("Error adding user to group")
			return fmt.Errorf("error adding user to group: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrGroupNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit set groups transaction: %w", err)
	}

	return nil
}
