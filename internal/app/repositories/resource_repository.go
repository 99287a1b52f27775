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

// ResourceRepository handles resource database operations
type ResourceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const resourceColumns = "id, name, slug, description, low_codes_threshold, low_codes_email"

func scanResource(row pgx.Row) (*models.Resource, error) {
	r := &models.Resource{}
	err := row.Scan(&r.ID, &r.Name, &r.Slug, &r.Description, &r.LowCodesThreshold, &r.LowCodesEmail)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a resource and returns its ID
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) (int64, error) {
	sql, args, err := r.sb.Insert("resources").
		Columns("name", "slug", "description", "low_codes_threshold", "low_codes_email").
		Values(resource.Name, resource.Slug, resource.Description, resource.LowCodesThreshold, resource.LowCodesEmail).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create resource query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("slug", resource.Slug).Msg("Error executing create resource query")
		return 0, fmt.Errorf("error creating resource: %w", err)
	}

	return id, nil
}

// GetBySlug retrieves a resource by slug
func (r *ResourceRepository) GetBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	sql, args, err := r.sb.Select(resourceColumns).
		From("resources").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resource query: %w", err)
	}

	resource, err := scanResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning resource row")
		return nil, fmt.Errorf("error getting resource by slug: %w", err)
	}

	return resource, nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	sql, args, err := r.sb.Select(resourceColumns).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resource query: %w", err)
	}

	resource, err := scanResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error scanning resource row")
		return nil, fmt.Errorf("error getting resource by ID: %w", err)
	}

	return resource, nil
}

// GetAll retrieves all resources ordered by name
func (r *ResourceRepository) GetAll(ctx context.Context) ([]*models.Resource, error) {
	sql, args, err := r.sb.Select(resourceColumns).
		From("resources").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all resources query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all resources query")
		return nil, fmt.Errorf("error querying resources: %w", err)
	}
	defer rows.Close()

	resources := []*models.Resource{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning resource row: %w", err)
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}

	return resources, nil
}

// Update updates a resource. The slug is never touched.
func (r *ResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	sql, args, err := r.sb.Update("resources").
		SetMap(map[string]interface{}{
			"name":                resource.Name,
			"description":         resource.Description,
			"low_codes_threshold": resource.LowCodesThreshold,
			"low_codes_email":     resource.LowCodesEmail,
		}).
		Where(squirrel.Eq{"id": resource.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update resource query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Int64("resourceID", resource.ID).Msg("Error executing update resource query")
		return fmt.Errorf("error updating resource: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// Delete deletes a resource. Resources with agreements are protected.
func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	var hasAgreements bool
	checkSql, checkArgs, err := r.sb.Select("1").
		From("agreements").
		Where(squirrel.Eq{"resource_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check agreements query: %w", err)
	}

	err = r.db.QueryRow(ctx, checkSql, checkArgs...).Scan(&hasAgreements)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error checking associated agreements")
		return fmt.Errorf("error checking associated agreements: %w", err)
	}

	if hasAgreements {
		return apperrors.ErrResourceHasAgreements
	}

	sql, args, err := r.sb.Delete("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete resource query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			// Agreement created between the check and the delete.
			return apperrors.ErrResourceHasAgreements
		}
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error executing delete resource query")
		return fmt.Errorf("error deleting resource: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
