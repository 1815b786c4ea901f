package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeStats is the dashboard headline counters
type EmployeeStats struct {
	TotalEmployees    int64           `json:"totalEmployees"`
	ActiveEmployees   int64           `json:"activeEmployees"`
	InactiveEmployees int64           `json:"inactiveEmployees"`
	TotalUsers        int64           `json:"totalUsers"`
	ActiveRate        decimal.Decimal `json:"activeRate"`
	Timestamp         time.Time       `json:"timestamp"`
}

// GrowthPoint is one bucket of the employee growth series
type GrowthPoint struct {
	Date      string `gorm:"column:period" json:"date"`
	Employees int64  `gorm:"column:employees" json:"employees"`
}

// RecentActivityItem describes a recent employee addition for the dashboard feed
type RecentActivityItem struct {
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportSummary counts employees of a custom report by status
type ReportSummary struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Inactive   int             `json:"inactive"`
	ActiveRate decimal.Decimal `json:"activeRate"`
}
