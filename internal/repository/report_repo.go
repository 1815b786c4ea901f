package repository

import (
	"context"
	"fmt"
	"time"

	"smartpass/internal/model"

	"gorm.io/gorm"
)

// Growth bucket formats understood by PostgreSQL TO_CHAR
const (
	BucketDay   = "YYYY-MM-DD"
	BucketMonth = "YYYY-MM"
)

type ReportRepository interface {
	EmployeeGrowth(ctx context.Context, since time.Time, bucket string) ([]model.GrowthPoint, error)
}

type reportRepository struct {
	store
}

func NewReportRepository(db *gorm.DB, timeout time.Duration) ReportRepository {
	return &reportRepository{store: newStore(db, timeout)}
}

// EmployeeGrowth counts employees created since the given time, grouped by bucket, ascending
func (r *reportRepository) EmployeeGrowth(ctx context.Context, since time.Time, bucket string) ([]model.GrowthPoint, error) {
	if bucket != BucketDay && bucket != BucketMonth {
		return nil, fmt.Errorf("%w: unknown growth bucket %q", ErrInvalidFilter, bucket)
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	query := `
		SELECT
			TO_CHAR(e.created_at, ?) AS period,
			COUNT(*) AS employees
		FROM employees e
		WHERE e.created_at >= ?
		GROUP BY period
		ORDER BY period
	`

	var rows []model.GrowthPoint
	if err := db.Raw(query, bucket, since).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query employee growth: %w", err)
	}
	return rows, nil
}
