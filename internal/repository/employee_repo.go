package repository

import (
	"context"
	"time"

	"smartpass/internal/model"
	"smartpass/pkg/pagination"

	"gorm.io/gorm"
)

// EmployeeColumns lists the employee columns a Filter may reference
var EmployeeColumns = NewColumns(
	"id", "name", "email", "mobile", "cargo", "department", "company",
	"office_location", "status", "employee_id", "created_at", "id_card_expiration_date",
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error)
	List(ctx context.Context, filter Filter, page, limit int) ([]model.Employee, int64, error)
	FindAll(ctx context.Context, filter Filter) ([]model.Employee, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type employeeRepository struct {
	store
}

func NewEmployeeRepository(db *gorm.DB, timeout time.Duration) EmployeeRepository {
	return &employeeRepository{store: newStore(db, timeout)}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	db, cancel := r.conn(ctx)
	defer cancel()
	return translate(db.Create(employee).Error)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var employee model.Employee
	if err := db.First(&employee, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var employee model.Employee
	if err := db.First(&employee, "employee_id = ?", employeeID).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter Filter, page, limit int) ([]model.Employee, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.Employee{}), EmployeeColumns)
	if err != nil {
		return nil, 0, err
	}
	// reusable for both the count and the page fetch
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var employees []model.Employee
	if err := query.Order("created_at DESC").Offset(pagination.Offset(page, limit)).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, translate(err)
	}
	return employees, total, nil
}

// FindAll returns every matching employee without the QR payload, newest first
func (r *employeeRepository) FindAll(ctx context.Context, filter Filter) ([]model.Employee, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.Employee{}), EmployeeColumns)
	if err != nil {
		return nil, err
	}
	var employees []model.Employee
	if err := query.Omit("qr_code").Order("created_at DESC").Find(&employees).Error; err != nil {
		return nil, translate(err)
	}
	return employees, nil
}

func (r *employeeRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query, err := filter.Apply(db.Model(&model.Employee{}), EmployeeColumns)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// Update writes every mutable column. employee_id and created_at are never rewritten.
func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(employee).Select("*").Omit("id", "employee_id", "created_at").Updates(employee)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Where("id = ?", id).Delete(&model.Employee{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
