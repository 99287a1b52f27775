package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/dberrors"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// GroupRepository handles permission group database operations
type GroupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new permission group
func (r *GroupRepository) Create(ctx context.Context, group *models.PermissionGroup) error {
	sql, args, err := r.sb.Insert("permission_groups").
		Columns("name", "slug", "description").
		Values(group.Name, group.Slug, group.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create group query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrGroupAlreadyExists
		}
		logger.Error().Err(err).Str("slug", group.Slug).Msg("Error executing create group query")
		return fmt.Errorf("error creating group: %w", err)
	}

	return nil
}

// GetBySlug retrieves a group and its permissions by slug
func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.PermissionGroup, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "description").
		From("permission_groups").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	group := &models.PermissionGroup{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&group.ID, &group.Name, &group.Slug, &group.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group: %w", err)
	}

	permissions, err := r.GetPermissions(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Permissions = permissions

	return group, nil
}

// GetAll retrieves every group with its permissions, alphabetically
func (r *GroupRepository) GetAll(ctx context.Context) ([]*models.PermissionGroup, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "description").
		From("permission_groups").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list groups query")
		return nil, fmt.Errorf("error querying groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.PermissionGroup{}
	for rows.Next() {
		group := &models.PermissionGroup{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Slug, &group.Description); err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	for _, group := range groups {
		permissions, err := r.GetPermissions(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Permissions = permissions
	}

	return groups, nil
}

// Update renames a group or changes its description. The slug is immutable.
func (r *GroupRepository) Update(ctx context.Context, group *models.PermissionGroup) error {
	sql, args, err := r.sb.Update("permission_groups").
		Set("name", group.Name).
		Set("description", group.Description).
		Where(squirrel.Eq{"id": group.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrGroupAlreadyExists
		}
		logger.Error().Err(err).Int64("groupID", group.ID).Msg("Error executing update group query")
		return fmt.Errorf("error updating group: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// Delete removes a group. Memberships and grants go with it.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("permission_groups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", id).Msg("Error executing delete group query")
		return fmt.Errorf("error deleting group: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// GetPermissions lists the codenames granted by a group
func (r *GroupRepository) GetPermissions(ctx context.Context, groupID int64) ([]string, error) {
	sql, args, err := r.sb.Select("permission").
		From("group_permissions").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("permission ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group permissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error executing get group permissions query")
		return nil, fmt.Errorf("error querying group permissions: %w", err)
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

// SetPermissions replaces a group's grants with the given codenames
func (r *GroupRepository) SetPermissions(ctx context.Context, groupID int64, permissions []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin set permissions transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteSQL, deleteArgs, err := r.sb.Delete("group_permissions").
		Where(squirrel.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear permissions query: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error clearing group permissions")
		return fmt.Errorf("error clearing group permissions: %w", err)
	}

	if len(permissions) > 0 {
		qb := r.sb.Insert("group_permissions").Columns("group_id", "permission")
		for _, permission := range permissions {
			qb = qb.Values(groupID, permission)
		}
		insertSQL, insertArgs, err := qb.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build grant permissions query: %w", err)
		}
		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			logger.Error().Err(err).Int64("groupID", groupID).Msg("Error granting group permissions")
			return fmt.Errorf("error granting group permissions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit set permissions transaction: %w", err)
	}

	return nil
}
