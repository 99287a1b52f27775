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

// AgreementRepository handles agreement database operations
type AgreementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAgreementRepository creates a new AgreementRepository
func NewAgreementRepository(db *pgxpool.Pool) *AgreementRepository {
	return &AgreementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AgreementRepository) selectWithResource() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.title", "a.slug", "a.resource_id", "a.created",
		"a.start_at", "a.end_at", "a.body", "a.redirect_url", "a.redirect_text", "a.hidden",
		"r.id", "r.name", "r.slug", "r.description", "r.low_codes_threshold", "r.low_codes_email",
	).
		From("agreements a").
		Join("resources r ON r.id = a.resource_id")
}

func scanAgreementWithResource(row pgx.Row) (*models.Agreement, error) {
	a := &models.Agreement{Resource: &models.Resource{}}
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.ResourceID, &a.Created,
		&a.Start, &a.End, &a.Body, &a.RedirectURL, &a.RedirectText, &a.Hidden,
		&a.Resource.ID, &a.Resource.Name, &a.Resource.Slug, &a.Resource.Description,
		&a.Resource.LowCodesThreshold, &a.Resource.LowCodesEmail,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// validNow filters to agreements that are currently signable: started, not
// ended, not hidden.
func validNow(now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.LtOrEq{"a.start_at": now},
		squirrel.Or{
			squirrel.GtOrEq{"a.end_at": now},
			squirrel.Eq{"a.end_at": nil},
		},
		squirrel.Eq{"a.hidden": false},
	}
}

// Create inserts an agreement and returns its ID
func (r *AgreementRepository) Create(ctx context.Context, agreement *models.Agreement) (int64, error) {
	sql, args, err := r.sb.Insert("agreements").
		Columns("title", "slug", "resource_id", "created", "start_at", "end_at",
			"body", "redirect_url", "redirect_text", "hidden").
		Values(agreement.Title, agreement.Slug, agreement.ResourceID, time.Now(),
			agreement.Start, agreement.End, agreement.Body,
			agreement.RedirectURL, agreement.RedirectText, agreement.Hidden).
		Suffix("RETURNING id, created").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create agreement query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id, &agreement.Created)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrAgreementAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("slug", agreement.Slug).Msg("Error executing create agreement query")
		return 0, fmt.Errorf("error creating agreement: %w", err)
	}

	return id, nil
}

// GetBySlug retrieves an agreement with its resource by slug
func (r *AgreementRepository) GetBySlug(ctx context.Context, slug string) (*models.Agreement, error) {
	sql, args, err := r.selectWithResource().
		Where(squirrel.Eq{"a.slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get agreement query: %w", err)
	}

	agreement, err := scanAgreementWithResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAgreementNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning agreement row")
		return nil, fmt.Errorf("error getting agreement by slug: %w", err)
	}

	return agreement, nil
}

// GetAll retrieves agreements newest-first. When validOnly is set, hidden
// agreements and agreements outside their validity window are excluded.
func (r *AgreementRepository) GetAll(ctx context.Context, validOnly bool) ([]*models.Agreement, error) {
	qb := r.selectWithResource().OrderBy("a.created DESC", "a.id DESC")
	if validOnly {
		qb = qb.Where(validNow(time.Now()))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all agreements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all agreements query")
		return nil, fmt.Errorf("error querying agreements: %w", err)
	}
	defer rows.Close()

	agreements := []*models.Agreement{}
	for rows.Next() {
		agreement, err := scanAgreementWithResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning agreement row: %w", err)
		}
		agreements = append(agreements, agreement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agreement rows: %w", err)
	}

	return agreements, nil
}

// GetForResource retrieves the agreements of a resource newest-first, with
// the same validity filter as GetAll.
func (r *AgreementRepository) GetForResource(ctx context.Context, resourceID int64, validOnly bool) ([]*models.Agreement, error) {
	qb := r.selectWithResource().
		Where(squirrel.Eq{"a.resource_id": resourceID}).
		OrderBy("a.created DESC", "a.id DESC")
	if validOnly {
		qb = qb.Where(validNow(time.Now()))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get agreements for resource query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error executing get agreements for resource query")
		return nil, fmt.Errorf("error querying agreements for resource: %w", err)
	}
	defer rows.Close()

	agreements := []*models.Agreement{}
	for rows.Next() {
		agreement, err := scanAgreementWithResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning agreement row: %w", err)
		}
		agreements = append(agreements, agreement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agreement rows: %w", err)
	}

	return agreements, nil
}

// Update updates an agreement. The slug and created date are never touched.
func (r *AgreementRepository) Update(ctx context.Context, agreement *models.Agreement) error {
	sql, args, err := r.sb.Update("agreements").
		SetMap(map[string]interface{}{
			"title":         agreement.Title,
			"resource_id":   agreement.ResourceID,
			"start_at":      agreement.Start,
			"end_at":        agreement.End,
			"body":          agreement.Body,
			"redirect_url":  agreement.RedirectURL,
			"redirect_text": agreement.RedirectText,
			"hidden":        agreement.Hidden,
		}).
		Where(squirrel.Eq{"id": agreement.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update agreement query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrAgreementAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("agreementID", agreement.ID).Msg("Error executing update agreement query")
		return fmt.Errorf("error updating agreement: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAgreementNotFound
	}

	return nil
}

// Delete deletes an agreement; its signatures cascade.
func (r *AgreementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("agreements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete agreement query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("agreementID", id).Msg("Error executing delete agreement query")
		return fmt.Errorf("error deleting agreement: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAgreementNotFound
	}

	return nil
}
