package repository

import (
	"context"
	"time"

	"smartpass/internal/model"
	"smartpass/pkg/pagination"

	"gorm.io/gorm"
)

// ActivityColumns lists the activity columns a Filter may reference
var ActivityColumns = NewColumns("user_id", "action", "target", "target_id", "created_at")

// ActivityRepository is append-only: there is no Update or Delete
type ActivityRepository interface {
	Log(ctx context.Context, entry *model.Activity) error
	List(ctx context.Context, filter Filter, page, limit int) ([]model.Activity, int64, error)
	All(ctx context.Context) ([]model.Activity, error)
}

type activityRepository struct {
	store
}

func NewActivityRepository(db *gorm.DB, timeout time.Duration) ActivityRepository {
	return &activityRepository{store: newStore(db, timeout)}
}

func (r *activityRepository) Log(ctx context.Context, entry *model.Activity) error {
	db, cancel := r.conn(ctx)
	defer cancel()
	return translate(db.Create(entry).Error)
}

func (r *activityRepository) List(ctx context.Context, filter Filter, page, limit int) ([]model.Activity, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.Activity{}), ActivityColumns)
	if err != nil {
		return nil, 0, err
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var logs []model.Activity
	if err := query.Preload("User").Order("created_at desc").Offset(pagination.Offset(page, limit)).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, translate(err)
	}
	return logs, total, nil
}

// All returns the complete log, newest first
func (r *activityRepository) All(ctx context.Context) ([]model.Activity, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var logs []model.Activity
	if err := db.Preload("User").Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, translate(err)
	}
	return logs, nil
}
