package repository

import (
	"context"
	"time"

	"smartpass/internal/model"
	"smartpass/pkg/pagination"

	"gorm.io/gorm"
)

// UserColumns lists the user columns a Filter may reference
var UserColumns = NewColumns("id", "first_name", "last_name", "email", "role", "cargo", "created_at")

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter Filter, page, limit int) ([]model.User, int64, error)
	ListIDs(ctx context.Context, filter Filter) ([]string, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	store
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &userRepository{store: newStore(db, timeout)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()
	return translate(db.Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user model.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter Filter, page, limit int) ([]model.User, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.User{}), UserColumns)
	if err != nil {
		return nil, 0, err
	}
	// reusable for both the count and the page fetch
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var users []model.User
	if err := query.Order("created_at DESC").Offset(pagination.Offset(page, limit)).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (r *userRepository) ListIDs(ctx context.Context, filter Filter) ([]string, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.User{}), UserColumns)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (r *userRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.User{}), UserColumns)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// Update writes every column of user. Concurrent writers are last-write-wins.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(user).Select("*").Omit("id", "created_at").Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
