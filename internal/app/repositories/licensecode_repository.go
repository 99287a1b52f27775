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

// LicenseCodeRepository handles license code database operations
type LicenseCodeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLicenseCodeRepository creates a new LicenseCodeRepository
func NewLicenseCodeRepository(db *pgxpool.Pool) *LicenseCodeRepository {
	return &LicenseCodeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBatch inserts codes for a resource in one statement. A duplicate
// within the resource maps to ErrDuplicateCode.
func (r *LicenseCodeRepository) CreateBatch(ctx context.Context, resourceID int64, codes []string) error {
	if len(codes) == 0 {
		return nil
	}

	qb := r.sb.Insert("license_codes").Columns("resource_id", "code", "added")
	now := time.Now()
	for _, code := range codes {
		qb = qb.Values(resourceID, code, now)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create codes query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateCode
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("resourceID", resourceID).Int("count", len(codes)).
			Msg("Error executing create codes query")
		return fmt.Errorf("error creating license codes: %w", err)
	}

	return nil
}

// GetAllByResource retrieves a resource's codes, unassigned first and oldest
// first within each half, with the claiming signature attached where one
// exists.
func (r *LicenseCodeRepository) GetAllByResource(ctx context.Context, resourceID int64) ([]*models.LicenseCode, error) {
	sql, args, err := r.sb.Select(
		"lc.id", "lc.resource_id", "lc.code", "lc.added", "lc.signature_id",
		"s.username", "s.first_name", "s.last_name", "s.email", "s.signed_at",
	).
		From("license_codes lc").
		LeftJoin("signatures s ON s.id = lc.signature_id").
		Where(squirrel.Eq{"lc.resource_id": resourceID}).
		OrderBy("lc.signature_id IS NOT NULL", "lc.added ASC", "lc.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get codes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error executing get codes query")
		return nil, fmt.Errorf("error querying license codes: %w", err)
	}
	defer rows.Close()

	codes := []*models.LicenseCode{}
	for rows.Next() {
		code := &models.LicenseCode{}
		var username, firstName, lastName, email *string
		var signedAt *time.Time

		err := rows.Scan(&code.ID, &code.ResourceID, &code.Code, &code.Added, &code.SignatureID,
			&username, &firstName, &lastName, &email, &signedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning license code row: %w", err)
		}

		if code.SignatureID != nil {
			code.Signature = &models.Signature{
				ID:        *code.SignatureID,
				Username:  *username,
				FirstName: *firstName,
				LastName:  *lastName,
				Email:     *email,
				SignedAt:  *signedAt,
			}
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating license code rows: %w", err)
	}

	return codes, nil
}

// CountUnassigned counts a resource's codes not yet claimed by a signature.
func (r *LicenseCodeRepository) CountUnassigned(ctx context.Context, resourceID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("license_codes").
		Where(squirrel.Eq{"resource_id": resourceID, "signature_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count unassigned query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error counting unassigned codes")
		return 0, fmt.Errorf("error counting unassigned codes: %w", err)
	}

	return count, nil
}

// Delete removes a code, refusing when it has already been claimed.
func (r *LicenseCodeRepository) Delete(ctx context.Context, resourceID, codeID int64) error {
	checkSQL, checkArgs, err := r.sb.Select("signature_id").
		From("license_codes").
		Where(squirrel.Eq{"id": codeID, "resource_id": resourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check code query: %w", err)
	}

	var signatureID *int64
	if err := r.db.QueryRow(ctx, checkSQL, checkArgs...).Scan(&signatureID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLicenseCodeNotFound
		}
		logger.Error().Err(err).Int64("codeID", codeID).Msg("Error checking license code")
		return fmt.Errorf("error checking license code: %w", err)
	}
	if signatureID != nil {
		return apperrors.ErrLicenseCodeAssigned
	}

	sql, args, err := r.sb.Delete("license_codes").
		Where(squirrel.Eq{"id": codeID, "resource_id": resourceID, "signature_id": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete code query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("codeID", codeID).Msg("Error executing delete code query")
		return fmt.Errorf("error deleting license code: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Claimed between the check and the delete.
		return apperrors.ErrLicenseCodeAssigned
	}

	return nil
}
