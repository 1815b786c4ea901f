package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/qrcode"
	"smartpass/internal/repository"
)

// DTOs for Request validation
type CreateEmployeeRequest struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"omitempty,email"`
	Mobile               string `json:"mobile"`
	Cargo                string `json:"cargo"`
	Department           string `json:"department"`
	Company              string `json:"company"`
	OfficeLocation       string `json:"officeLocation"`
	Status               string `json:"status"`
	IDCardExpirationDate string `json:"idCardExpirationDate"`
	Photo                string `json:"photo"`
}

// UpdateEmployeeRequest only changes the fields that are present.
// An empty idCardExpirationDate clears the date.
type UpdateEmployeeRequest struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email" binding:"omitempty,email"`
	Mobile               *string `json:"mobile"`
	Cargo                *string `json:"cargo"`
	Department           *string `json:"department"`
	Company              *string `json:"company"`
	OfficeLocation       *string `json:"officeLocation"`
	Status               *string `json:"status"`
	IDCardExpirationDate *string `json:"idCardExpirationDate"`
	Photo                *string `json:"photo"`
}

type EmployeeFilter struct {
	Company   string
	Status    string
	Search    string
	DateRange string
}

// maxEmployeeIDAttempts bounds how often a colliding employeeId is redrawn
const maxEmployeeIDAttempts = 5

var employeeSearchColumns = []string{"name", "email", "cargo", "department", "company", "employee_id"}

// EmployeeService defines the interface for business logic related to Employee
type EmployeeService interface {
	ListEmployees(ctx context.Context, actorID string, filter EmployeeFilter, page, limit int) ([]model.Employee, int64, error)
	GetEmployee(ctx context.Context, actorID, id string) (*model.Employee, error)
	CreateEmployee(ctx context.Context, actorID string, req CreateEmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, actorID, id string, req UpdateEmployeeRequest) (*model.Employee, error)
	SetEmployeeStatus(ctx context.Context, actorID, id, status string) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, actorID, id string) error
	GenerateQRCode(ctx context.Context, actorID, id string) (*model.Employee, error)
	RevokeQRCode(ctx context.Context, actorID, id string) (*model.Employee, error)
	GetPublicEmployee(ctx context.Context, slug string) (*model.PublicEmployee, error)
}

type employeeService struct {
	repo     repository.EmployeeRepository
	access   access
	qr       qrcode.Generator
	activity ActivityRecorder
	now      func() time.Time
}

// NewEmployeeService returns a new instance of EmployeeService
func NewEmployeeService(repo repository.EmployeeRepository, users repository.UserRepository, qr qrcode.Generator, activity ActivityRecorder) EmployeeService {
	return &employeeService{
		repo:     repo,
		access:   access{users: users},
		qr:       qr,
		activity: activity,
		now:      time.Now,
	}
}

func (s *employeeService) ListEmployees(ctx context.Context, actorID string, filter EmployeeFilter, page, limit int) ([]model.Employee, int64, error) {
	if _, err := s.access.require(ctx, actorID, model.CapViewEmployees); err != nil {
		return nil, 0, err
	}

	var f repository.Filter
	if filter.Company != "" {
		f = append(f, repository.Eq("company", filter.Company))
	}
	if filter.Status != "" {
		f = append(f, repository.Eq("status", filter.Status))
	}
	f = append(f, repository.Search(filter.Search, employeeSearchColumns...))

	start, err := dateRangeStart(filter.DateRange, s.now())
	if err != nil {
		return nil, 0, err
	}
	if start != nil {
		f = append(f, repository.Since("created_at", *start))
	}

	employees, total, err := s.repo.List(ctx, f, page, limit)
	if err != nil {
		return nil, 0, storeError(err, "employee")
	}
	return employees, total, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, actorID, id string) (*model.Employee, error) {
	if _, err := s.access.require(ctx, actorID, model.CapViewEmployees); err != nil {
		return nil, err
	}
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee")
	}
	return employee, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actorID string, req CreateEmployeeRequest) (*model.Employee, error) {
	actor, err := s.access.require(ctx, actorID, model.CapAddEmployees)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, validationError("name is required")
	}
	status := req.Status
	if status == "" {
		status = model.EmployeeStatusActive
	}
	if !model.ValidEmployeeStatus(status) {
		return nil, validationError("status must be %s or %s", model.EmployeeStatusActive, model.EmployeeStatusInactive)
	}

	now := s.now()
	employee := &model.Employee{
		ID:             model.NewObjectID(),
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		Mobile:         req.Mobile,
		Cargo:          req.Cargo,
		Department:     req.Department,
		Company:        req.Company,
		OfficeLocation: req.OfficeLocation,
		Status:         status,
		EmployeeID:     model.NewEmployeeID(now),
		Photo:          req.Photo,
	}
	if employee.Photo == "" {
		employee.Photo = model.DefaultEmployeePhoto
	}
	if req.IDCardExpirationDate != "" {
		exp, err := parseDay("idCardExpirationDate", req.IDCardExpirationDate)
		if err != nil {
			return nil, err
		}
		employee.IDCardExpirationDate = &exp
	}

	if model.Authorize(actor, model.CapGenerateQRCodes) {
		code, err := s.qr.Generate(employee.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate qr code: %w", err)
		}
		employee.QRCode = code
	}

	if err := s.create(ctx, employee); err != nil {
		return nil, storeError(err, "Employee")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionCreateEmployee,
		Target:   employee.Name,
		TargetID: employee.ID,
		Details:  map[string]interface{}{"employeeId": employee.EmployeeID},
	})
	return employee, nil
}

// create stores employee, drawing a fresh employeeId when the clock derived one is taken
func (s *employeeService) create(ctx context.Context, employee *model.Employee) error {
	var err error
	for attempt := 0; attempt < maxEmployeeIDAttempts; attempt++ {
		if attempt > 0 {
			employee.EmployeeID = model.RandomEmployeeID()
		}
		if err = s.repo.Create(ctx, employee); !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return err
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actorID, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	actor, err := s.access.require(ctx, actorID, model.CapEditEmployees)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee")
	}

	changed := map[string]interface{}{}
	setString := func(field string, dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed[field] = *src
		}
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, validationError("name cannot be empty")
	}
	setString("name", &employee.Name, req.Name)
	setString("email", &employee.Email, req.Email)
	setString("mobile", &employee.Mobile, req.Mobile)
	setString("cargo", &employee.Cargo, req.Cargo)
	setString("department", &employee.Department, req.Department)
	setString("company", &employee.Company, req.Company)
	setString("officeLocation", &employee.OfficeLocation, req.OfficeLocation)
	setString("photo", &employee.Photo, req.Photo)

	if req.Status != nil && *req.Status != employee.Status {
		if !model.ValidEmployeeStatus(*req.Status) {
			return nil, validationError("status must be %s or %s", model.EmployeeStatusActive, model.EmployeeStatusInactive)
		}
		if !model.Authorize(actor, model.CapDeactivateEmployees) {
			return nil, newError(ErrForbidden, "Forbidden")
		}
		employee.Status = *req.Status
		changed["status"] = *req.Status
	}

	if req.IDCardExpirationDate != nil {
		if *req.IDCardExpirationDate == "" {
			employee.IDCardExpirationDate = nil
		} else {
			exp, err := parseDay("idCardExpirationDate", *req.IDCardExpirationDate)
			if err != nil {
				return nil, err
			}
			employee.IDCardExpirationDate = &exp
		}
		changed["idCardExpirationDate"] = *req.IDCardExpirationDate
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, storeError(err, "Employee")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionUpdateEmployee,
		Target:   employee.Name,
		TargetID: employee.ID,
		Details:  changed,
	})
	return employee, nil
}

func (s *employeeService) SetEmployeeStatus(ctx context.Context, actorID, id, status string) (*model.Employee, error) {
	actor, err := s.access.require(ctx, actorID, model.CapDeactivateEmployees)
	if err != nil {
		return nil, err
	}
	if !model.ValidEmployeeStatus(status) {
		return nil, validationError("status must be %s or %s", model.EmployeeStatusActive, model.EmployeeStatusInactive)
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee")
	}
	employee.Status = status
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, storeError(err, "Employee")
	}

	action := model.ActionActivateEmployee
	if status == model.EmployeeStatusInactive {
		action = model.ActionDeactivateEmployee
	}
	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   action,
		Target:   employee.Name,
		TargetID: employee.ID,
	})
	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, actorID, id string) error {
	actor, err := s.access.require(ctx, actorID, model.CapDeactivateEmployees)
	if err != nil {
		return err
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Employee")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Employee")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionDeleteEmployee,
		Target:   employee.Name,
		TargetID: employee.ID,
		Details:  map[string]interface{}{"employeeId": employee.EmployeeID},
	})
	return nil
}

func (s *employeeService) GenerateQRCode(ctx context.Context, actorID, id string) (*model.Employee, error) {
	actor, err := s.access.require(ctx, actorID, model.CapGenerateQRCodes)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee")
	}
	code, err := s.qr.Generate(employee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	employee.QRCode = code
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, storeError(err, "Employee")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionGenerateQRCode,
		Target:   employee.Name,
		TargetID: employee.ID,
	})
	return employee, nil
}

func (s *employeeService) RevokeQRCode(ctx context.Context, actorID, id string) (*model.Employee, error) {
	actor, err := s.access.require(ctx, actorID, model.CapRevokeQRCodes)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee")
	}
	employee.QRCode = ""
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, storeError(err, "Employee")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionRevokeQRCode,
		Target:   employee.Name,
		TargetID: employee.ID,
	})
	return employee, nil
}

// GetPublicEmployee resolves slug as an object id first, then as an employeeId
func (s *employeeService) GetPublicEmployee(ctx context.Context, slug string) (*model.PublicEmployee, error) {
	if model.IsObjectID(slug) {
		employee, err := s.repo.GetByID(ctx, slug)
		if err == nil {
			public := employee.Public()
			return &public, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	employee, err := s.repo.GetByEmployeeID(ctx, slug)
	if err != nil {
		return nil, storeError(err, "Employee")
	}
	public := employee.Public()
	return &public, nil
}
