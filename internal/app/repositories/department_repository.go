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

// DepartmentRepository handles department database operations
type DepartmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *DepartmentRepository) selectWithFaculty() squirrel.SelectBuilder {
	return r.sb.Select(
		"d.id", "d.faculty_id", "d.name", "d.slug",
		"f.id", "f.name", "f.slug",
	).
		From("departments d").
		Join("faculties f ON f.id = d.faculty_id")
}

func scanDepartmentWithFaculty(row pgx.Row) (*models.Department, error) {
	d := &models.Department{Faculty: &models.Faculty{}}
	err := row.Scan(&d.ID, &d.FacultyID, &d.Name, &d.Slug,
		&d.Faculty.ID, &d.Faculty.Name, &d.Faculty.Slug)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a department and returns its ID
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) (int64, error) {
	sql, args, err := r.sb.Insert("departments").
		Columns("faculty_id", "name", "slug").
		Values(department.FacultyID, department.Name, department.Slug).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create department query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrDepartmentAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Str("slug", department.Slug).Msg("Error executing create department query")
		return 0, fmt.Errorf("error creating department: %w", err)
	}

	return id, nil
}

// GetBySlug retrieves a department with its faculty by slug
func (r *DepartmentRepository) GetBySlug(ctx context.Context, slug string) (*models.Department, error) {
	sql, args, err := r.selectWithFaculty().
		Where(squirrel.Eq{"d.slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department, err := scanDepartmentWithFaculty(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning department row")
		return nil, fmt.Errorf("error getting department by slug: %w", err)
	}

	return department, nil
}

// GetByID retrieves a department with its faculty by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	sql, args, err := r.selectWithFaculty().
		Where(squirrel.Eq{"d.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department, err := scanDepartmentWithFaculty(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error scanning department row")
		return nil, fmt.Errorf("error getting department by ID: %w", err)
	}

	return department, nil
}

// GetAll retrieves departments with their faculties, optionally filtered by
// faculty. Results are ordered faculty-first so grouped presentation (the
// signing form's department picker) falls out of the ordering.
func (r *DepartmentRepository) GetAll(ctx context.Context, facultyID int64) ([]*models.Department, error) {
	qb := r.selectWithFaculty().
		OrderBy("f.name ASC", "d.name ASC")
	if facultyID > 0 {
		qb = qb.Where(squirrel.Eq{"d.faculty_id": facultyID})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all departments query")
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		department, err := scanDepartmentWithFaculty(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department rows: %w", err)
	}

	return departments, nil
}

// Update updates a department. The slug is never touched.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Update("departments").
		SetMap(map[string]interface{}{
			"name":       department.Name,
			"faculty_id": department.FacultyID,
		}).
		Where(squirrel.Eq{"id": department.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update department query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("departmentID", department.ID).Msg("Error executing update department query")
		return fmt.Errorf("error updating department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// Delete deletes a department. Signatures protect their department, so the
// delete fails while any exist.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete department query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentHasSignatures
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error executing delete department query")
		return fmt.Errorf("error deleting department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}
