package service

import (
	"context"
	"fmt"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"

	"github.com/shopspring/decimal"
)

// Growth ranges accepted by GetGrowth
const (
	GrowthRange7Days   = "7days"
	GrowthRange30Days  = "30days"
	GrowthRangeQuarter = "quarter"
)

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
)

// ReportStatusAll disables the status filter of a custom report
const ReportStatusAll = "All"

type CustomReportRequest struct {
	Status   string `json:"status"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

type CustomReportResponse struct {
	Summary model.ReportSummary `json:"summary"`
	Results []model.Employee    `json:"results"`
	Filters CustomReportRequest `json:"filters"`
}

type ReportService interface {
	GetStats(ctx context.Context) (*model.EmployeeStats, error)
	GetGrowth(ctx context.Context, growthRange string) ([]model.GrowthPoint, error)
	GetRecentActivity(ctx context.Context, limit int) ([]model.RecentActivityItem, error)
	GenerateCustomReport(ctx context.Context, req CustomReportRequest) (*CustomReportResponse, error)
}

type reportService struct {
	reports   repository.ReportRepository
	employees repository.EmployeeRepository
	users     repository.UserRepository
	now       func() time.Time
}

func NewReportService(reports repository.ReportRepository, employees repository.EmployeeRepository, users repository.UserRepository) ReportService {
	return &reportService{
		reports:   reports,
		employees: employees,
		users:     users,
		now:       time.Now,
	}
}

// activeRate is active/total as a percentage rounded to two places, zero for an empty set
func activeRate(active, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(active).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2)
}

func (s *reportService) GetStats(ctx context.Context) (*model.EmployeeStats, error) {
	total, err := s.employees.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	active, err := s.employees.Count(ctx, repository.Filter{repository.Eq("status", model.EmployeeStatusActive)})
	if err != nil {
		return nil, fmt.Errorf("failed to count active employees: %w", err)
	}
	inactive, err := s.employees.Count(ctx, repository.Filter{repository.Eq("status", model.EmployeeStatusInactive)})
	if err != nil {
		return nil, fmt.Errorf("failed to count inactive employees: %w", err)
	}
	users, err := s.users.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &model.EmployeeStats{
		TotalEmployees:    total,
		ActiveEmployees:   active,
		InactiveEmployees: inactive,
		TotalUsers:        users,
		ActiveRate:        activeRate(active, total),
		Timestamp:         s.now(),
	}, nil
}

// GetGrowth buckets by day for 7days and 30days, by month for quarter.
// Unrecognized ranges fall back to 30days.
func (s *reportService) GetGrowth(ctx context.Context, growthRange string) ([]model.GrowthPoint, error) {
	now := s.now()
	since, bucket := now.AddDate(0, 0, -30), repository.BucketDay
	switch growthRange {
	case GrowthRange7Days:
		since = now.AddDate(0, 0, -7)
	case GrowthRangeQuarter:
		since, bucket = now.AddDate(0, -3, 0), repository.BucketMonth
	}

	points, err := s.reports.EmployeeGrowth(ctx, since, bucket)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.GrowthPoint{}
	}
	return points, nil
}

func (s *reportService) GetRecentActivity(ctx context.Context, limit int) ([]model.RecentActivityItem, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	employees, _, err := s.employees.List(ctx, nil, 1, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent employees: %w", err)
	}

	items := make([]model.RecentActivityItem, 0, len(employees))
	for _, e := range employees {
		items = append(items, model.RecentActivityItem{
			User:      "System/Admin",
			Name:      e.Name,
			Action:    "New Employee Added: " + e.Name,
			Timestamp: e.CreatedAt,
		})
	}
	return items, nil
}

// GenerateCustomReport treats dateTo as inclusive of its whole day
func (s *reportService) GenerateCustomReport(ctx context.Context, req CustomReportRequest) (*CustomReportResponse, error) {
	var f repository.Filter
	if req.Status != "" && req.Status != ReportStatusAll {
		if !model.ValidEmployeeStatus(req.Status) {
			return nil, validationError("status must be %s, %s or %s", ReportStatusAll, model.EmployeeStatusActive, model.EmployeeStatusInactive)
		}
		f = append(f, repository.Eq("status", req.Status))
	}
	if req.DateFrom != "" {
		from, err := parseDay("dateFrom", req.DateFrom)
		if err != nil {
			return nil, err
		}
		f = append(f, repository.Since("created_at", from))
	}
	if req.DateTo != "" {
		to, err := parseDay("dateTo", req.DateTo)
		if err != nil {
			return nil, err
		}
		f = append(f, repository.Before("created_at", to.AddDate(0, 0, 1)))
	}

	employees, err := s.employees.FindAll(ctx, f)
	if err != nil {
		return nil, storeError(err, "employee")
	}
	if employees == nil {
		employees = []model.Employee{}
	}

	var active, inactive int
	for _, e := range employees {
		switch e.Status {
		case model.EmployeeStatusActive:
			active++
		case model.EmployeeStatusInactive:
			inactive++
		}
	}

	return &CustomReportResponse{
		Summary: model.ReportSummary{
			Total:      len(employees),
			Active:     active,
			Inactive:   inactive,
			ActiveRate: activeRate(int64(active), int64(len(employees))),
		},
		Results: employees,
		Filters: req,
	}, nil
}
