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
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/dberrors"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// SignatureRepository handles signature database operations
type SignatureRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSignatureRepository creates a new SignatureRepository
func NewSignatureRepository(db *pgxpool.Pool) *SignatureRepository {
	return &SignatureRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// claimOldestCodeSQL assigns the oldest unassigned license code of a
// resource to a signature. SKIP LOCKED keeps concurrent signings from
// claiming the same code.
const claimOldestCodeSQL = `
UPDATE license_codes SET signature_id = $1
WHERE id = (
	SELECT id FROM license_codes
	WHERE resource_id = $2 AND signature_id IS NULL
	ORDER BY added ASC, id ASC
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, resource_id, code, added`

// CreateWithCodeClaim inserts a signature and, in the same transaction,
// claims the oldest unassigned license code of resourceID for it. It returns
// the number of unassigned codes remaining after the claim. The signature's
// ID, SignedAt, and LicenseCode fields are filled in.
func (r *SignatureRepository) CreateWithCodeClaim(ctx context.Context, signature *models.Signature, resourceID int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin signing transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertSQL, args, err := r.sb.Insert("signatures").
		Columns("agreement_id", "signatory_id", "username", "first_name", "last_name",
			"email", "department_id", "signed_at").
		Values(signature.AgreementID, signature.SignatoryID, signature.Username,
			signature.FirstName, signature.LastName, signature.Email,
			signature.DepartmentID, time.Now()).
		Suffix("RETURNING id, signed_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create signature query: %w", err)
	}

	err = tx.QueryRow(ctx, insertSQL, args...).Scan(&signature.ID, &signature.SignedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrAlreadySigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Int64("agreementID", signature.AgreementID).
			Int64("signatoryID", signature.SignatoryID).Msg("Error executing create signature query")
		return 0, fmt.Errorf("error creating signature: %w", err)
	}

	code := &models.LicenseCode{}
	err = tx.QueryRow(ctx, claimOldestCodeSQL, signature.ID, resourceID).
		Scan(&code.ID, &code.ResourceID, &code.Code, &code.Added)
	switch {
	case err == nil:
		sigID := signature.ID
		code.SignatureID = &sigID
		signature.LicenseCode = code
	case errors.Is(err, pgx.ErrNoRows):
		// No codes left for this resource; the signature stands on its own.
	default:
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error claiming license code")
		return 0, fmt.Errorf("error claiming license code: %w", err)
	}

	var remaining int64
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("license_codes").
		Where(squirrel.Eq{"resource_id": resourceID, "signature_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count codes query: %w", err)
	}
	if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("error counting remaining codes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit signing transaction: %w", err)
	}

	return remaining, nil
}

func (r *SignatureRepository) selectRows() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.agreement_id", "s.signatory_id", "s.username", "s.first_name",
		"s.last_name", "s.email", "s.department_id", "s.signed_at",
		"d.name", "d.slug", "f.id", "f.name", "f.slug",
		"lc.id", "lc.resource_id", "lc.code", "lc.added",
	).
		From("signatures s").
		Join("departments d ON d.id = s.department_id").
		Join("faculties f ON f.id = d.faculty_id").
		LeftJoin("license_codes lc ON lc.signature_id = s.id")
}

func scanSignatureRow(row pgx.Row) (*models.Signature, error) {
	s := &models.Signature{Department: &models.Department{Faculty: &models.Faculty{}}}
	var codeID, codeResourceID *int64
	var code *string
	var codeAdded *time.Time

	err := row.Scan(
		&s.ID, &s.AgreementID, &s.SignatoryID, &s.Username, &s.FirstName,
		&s.LastName, &s.Email, &s.DepartmentID, &s.SignedAt,
		&s.Department.Name, &s.Department.Slug,
		&s.Department.Faculty.ID, &s.Department.Faculty.Name, &s.Department.Faculty.Slug,
		&codeID, &codeResourceID, &code, &codeAdded,
	)
	if err != nil {
		return nil, err
	}

	s.Department.ID = s.DepartmentID
	s.Department.FacultyID = s.Department.Faculty.ID
	if codeID != nil {
		sigID := s.ID
		s.LicenseCode = &models.LicenseCode{
			ID:          *codeID,
			ResourceID:  *codeResourceID,
			Code:        *code,
			Added:       *codeAdded,
			SignatureID: &sigID,
		}
	}

	return s, nil
}

// searchFilter matches the free-text search of the original signature
// listing: username, names, email, department and faculty names.
func searchFilter(query string) squirrel.Sqlizer {
	pattern := "%" + query + "%"
	return squirrel.Or{
		squirrel.ILike{"s.username": pattern},
		squirrel.ILike{"s.first_name": pattern},
		squirrel.ILike{"s.last_name": pattern},
		squirrel.ILike{"s.email": pattern},
		squirrel.ILike{"d.name": pattern},
		squirrel.ILike{"f.name": pattern},
	}
}

// GetByAgreementAndSignatory retrieves one user's signature on an agreement
func (r *SignatureRepository) GetByAgreementAndSignatory(ctx context.Context, agreementID, signatoryID int64) (*models.Signature, error) {
	sql, args, err := r.selectRows().
		Where(squirrel.Eq{"s.agreement_id": agreementID, "s.signatory_id": signatoryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get signature query: %w", err)
	}

	signature, err := scanSignatureRow(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSignatureNotFound
		}
		logger.Error().Err(err).Int64("agreementID", agreementID).
			Int64("signatoryID", signatoryID).Msg("Error scanning signature row")
		return nil, fmt.Errorf("error getting signature: %w", err)
	}

	return signature, nil
}

// SearchByAgreement retrieves one page of an agreement's signatures, newest
// first, filtered by the free-text query when non-empty.
func (r *SignatureRepository) SearchByAgreement(ctx context.Context, agreementID int64, query string, offset uint64, limit int) ([]*models.Signature, error) {
	qb := r.selectRows().
		Where(squirrel.Eq{"s.agreement_id": agreementID}).
		OrderBy("s.signed_at DESC", "s.id DESC").
		Offset(offset).
		Limit(uint64(limit))
	if query != "" {
		qb = qb.Where(searchFilter(query))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search signatures query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("agreementID", agreementID).Msg("Error executing search signatures query")
		return nil, fmt.Errorf("error querying signatures: %w", err)
	}
	defer rows.Close()

	signatures := []*models.Signature{}
	for rows.Next() {
		signature, err := scanSignatureRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning signature row: %w", err)
		}
		signatures = append(signatures, signature)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signature rows: %w", err)
	}

	return signatures, nil
}

// CountByAgreement counts an agreement's signatures under the same filter as
// SearchByAgreement.
func (r *SignatureRepository) CountByAgreement(ctx context.Context, agreementID int64, query string) (int64, error) {
	qb := r.sb.Select("COUNT(*)").
		From("signatures s").
		Join("departments d ON d.id = s.department_id").
		Join("faculties f ON f.id = d.faculty_id").
		Where(squirrel.Eq{"s.agreement_id": agreementID})
	if query != "" {
		qb = qb.Where(searchFilter(query))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count signatures query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("agreementID", agreementID).Msg("Error counting signatures")
		return 0, fmt.Errorf("error counting signatures: %w", err)
	}

	return count, nil
}

// GetAllByAgreement retrieves every signature of an agreement, oldest first,
// for export.
func (r *SignatureRepository) GetAllByAgreement(ctx context.Context, agreementID int64) ([]*models.Signature, error) {
	sql, args, err := r.selectRows().
		Where(squirrel.Eq{"s.agreement_id": agreementID}).
		OrderBy("s.signed_at ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build export signatures query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("agreementID", agreementID).Msg("Error executing export signatures query")
		return nil, fmt.Errorf("error querying signatures for export: %w", err)
	}
	defer rows.Close()

	signatures := []*models.Signature{}
	for rows.Next() {
		signature, err := scanSignatureRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning signature row: %w", err)
		}
		signatures = append(signatures, signature)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signature rows: %w", err)
	}

	return signatures, nil
}

// CountPerDepartment groups an agreement's signatures by department name,
// largest first.
func (r *SignatureRepository) CountPerDepartment(ctx context.Context, agreementID int64) ([]dto.NameCount, error) {
	sql, args, err := r.sb.Select("d.name", "COUNT(*) AS signatures").
		From("signatures s").
		Join("departments d ON d.id = s.department_id").
		Where(squirrel.Eq{"s.agreement_id": agreementID}).
		GroupBy("d.name").
		OrderBy("signatures DESC", "d.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count per department query: %w", err)
	}

	return r.queryNameCounts(ctx, sql, args)
}

// CountPerFaculty groups an agreement's signatures by faculty name, largest
// first.
func (r *SignatureRepository) CountPerFaculty(ctx context.Context, agreementID int64) ([]dto.NameCount, error) {
	sql, args, err := r.sb.Select("f.name", "COUNT(*) AS signatures").
		From("signatures s").
		Join("departments d ON d.id = s.department_id").
		Join("faculties f ON f.id = d.faculty_id").
		Where(squirrel.Eq{"s.agreement_id": agreementID}).
		GroupBy("f.name").
		OrderBy("signatures DESC", "f.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count per faculty query: %w", err)
	}

	return r.queryNameCounts(ctx, sql, args)
}

func (r *SignatureRepository) queryNameCounts(ctx context.Context, sql string, args []interface{}) ([]dto.NameCount, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing signature aggregate query")
		return nil, fmt.Errorf("error querying signature aggregates: %w", err)
	}
	defer rows.Close()

	counts := []dto.NameCount{}
	for rows.Next() {
		var nc dto.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("error scanning aggregate row: %w", err)
		}
		counts = append(counts, nc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregate rows: %w", err)
	}

	return counts, nil
}
