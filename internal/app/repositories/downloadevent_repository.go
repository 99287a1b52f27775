package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// DownloadEventRepository handles file download event database operations
type DownloadEventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDownloadEventRepository creates a new DownloadEventRepository
func NewDownloadEventRepository(db *pgxpool.Pool) *DownloadEventRepository {
	return &DownloadEventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// recordEventSQL inserts a download event unless the same session already
// downloaded the same path within the dedup window, so refreshes and
// double-clicks don't inflate the stats.
const recordEventSQL = `
INSERT INTO file_download_events (resource_id, path, session_key, at)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (
	SELECT 1 FROM file_download_events
	WHERE resource_id = $1 AND path = $2 AND session_key = $3 AND at > $5
)`

// Record stores a download event for stats, suppressing duplicates from the
// same session within FileDownloadEventWindow.
func (r *DownloadEventRepository) Record(ctx context.Context, resourceID int64, path, sessionKey string) error {
	now := time.Now()
	cutoff := now.Add(-models.FileDownloadEventWindow)

	_, err := r.db.Exec(ctx, recordEventSQL, resourceID, path, sessionKey, now, cutoff)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Str("path", path).
			Msg("Error recording download event")
		return fmt.Errorf("error recording download event: %w", err)
	}

	return nil
}

// CountPerPath aggregates a resource's download events by path, most
// downloaded first.
func (r *DownloadEventRepository) CountPerPath(ctx context.Context, resourceID int64) ([]models.PathDownloadCount, error) {
	sql, args, err := r.sb.Select("path", "COUNT(*) AS downloads").
		From("file_download_events").
		Where(squirrel.Eq{"resource_id": resourceID}).
		GroupBy("path").
		OrderBy("downloads DESC", "path ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count per path query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error executing count per path query")
		return nil, fmt.Errorf("error querying download counts: %w", err)
	}
	defer rows.Close()

	counts := []models.PathDownloadCount{}
	for rows.Next() {
		var pc models.PathDownloadCount
		if err := rows.Scan(&pc.Path, &pc.Downloads); err != nil {
			return nil, fmt.Errorf("error scanning download count row: %w", err)
		}
		counts = append(counts, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating download count rows: %w", err)
	}

	return counts, nil
}
