package model

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// Employee status values
const (
	EmployeeStatusActive   = "Active"
	EmployeeStatusInactive = "Inactive"
)

// DefaultEmployeePhoto is used when an employee is created without a photo
const DefaultEmployeePhoto = "https://via.placeholder.com/150"

// EmployeeIDPrefix prefixes every human readable employee identifier
const EmployeeIDPrefix = "EMP"

// ValidEmployeeStatus reports whether status is Active or Inactive
func ValidEmployeeStatus(status string) bool {
	return status == EmployeeStatusActive || status == EmployeeStatusInactive
}

// NewEmployeeID derives the human readable identifier from the last six
// digits of the Unix millisecond clock
func NewEmployeeID(now time.Time) string {
	return fmt.Sprintf("%s%06d", EmployeeIDPrefix, now.UnixMilli()%1_000_000)
}

// RandomEmployeeID draws the six digit suffix at random. Used when the clock
// derived identifier is already taken.
func RandomEmployeeID() string {
	return fmt.Sprintf("%s%06d", EmployeeIDPrefix, rand.IntN(1_000_000))
}

// Employee is a managed ID-card holder. It is not an account.
type Employee struct {
	ID                   string     `gorm:"type:varchar(24);primaryKey" json:"id"`
	Name                 string     `gorm:"type:varchar(255);not null" json:"name"`
	Email                string     `gorm:"type:varchar(255)" json:"email"`
	Mobile               string     `gorm:"type:varchar(50)" json:"mobile"`
	Cargo                string     `gorm:"type:varchar(100)" json:"cargo"` // position
	Department           string     `gorm:"type:varchar(100);index" json:"department"`
	Company              string     `gorm:"type:varchar(255);index" json:"company"`
	OfficeLocation       string     `gorm:"type:varchar(255)" json:"officeLocation"`
	Status               string     `gorm:"type:varchar(20);not null;index" json:"status"`
	EmployeeID           string     `gorm:"column:employee_id;type:varchar(20);uniqueIndex;not null" json:"employeeId"`
	QRCode               string     `gorm:"column:qr_code;type:text" json:"qrCode"`
	IDCardExpirationDate *time.Time `gorm:"column:id_card_expiration_date" json:"idCardExpirationDate"`
	Photo                string     `gorm:"type:text" json:"photo"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns an object id when the caller did not
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewObjectID()
	}
	return nil
}

// PublicEmployee is the only projection exposed without authentication
type PublicEmployee struct {
	Name                 string     `json:"name"`
	Cargo                string     `json:"cargo"`
	Department           string     `json:"department"`
	Status               string     `json:"status"`
	Photo                string     `json:"photo"`
	Company              string     `json:"company"`
	IDCardExpirationDate *time.Time `json:"idCardExpirationDate"`
}

// Public returns the restricted projection of e
func (e *Employee) Public() PublicEmployee {
	return PublicEmployee{
		Name:                 e.Name,
		Cargo:                e.Cargo,
		Department:           e.Department,
		Status:               e.Status,
		Photo:                e.Photo,
		Company:              e.Company,
		IDCardExpirationDate: e.IDCardExpirationDate,
	}
}

// NewObjectID returns a fresh 24 character hex object id
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}

// IsObjectID reports whether s is a 24 character hex object id
func IsObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
