package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold
const (
	RoleAdministrator = "Administrator"
	RoleManager       = "Manager"
	RoleViewer        = "Viewer"
)

// Settings defaults applied to newly created accounts
const (
	DefaultLanguage = "English (United States)"
	DefaultTimezone = "(GMT+01:00) West Africa Time (Luanda)"
)

// ValidRole reports whether role is one of the enumerated account roles
func ValidRole(role string) bool {
	return role == RoleAdministrator || role == RoleManager || role == RoleViewer
}

// UserSettings holds per-user UI preferences
type UserSettings struct {
	DarkMode bool   `gorm:"not null" json:"darkMode"`
	Language string `gorm:"type:varchar(100)" json:"language"`
	Timezone string `gorm:"type:varchar(100)" json:"timezone"`
}

// DefaultSettings returns the settings a freshly provisioned account starts with
func DefaultSettings() UserSettings {
	return UserSettings{Language: DefaultLanguage, Timezone: DefaultTimezone}
}

// User is the credential store entity
type User struct {
	ID                  string       `gorm:"type:varchar(24);primaryKey" json:"id"`
	FirstName           string       `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName            string       `gorm:"type:varchar(100);not null" json:"lastName"`
	Email               string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Cargo               string       `gorm:"type:varchar(100)" json:"cargo"`
	Photo               string       `gorm:"type:text" json:"photo"`
	Role                string       `gorm:"type:varchar(20);not null;default:Viewer" json:"role"`
	ForcePasswordChange bool         `gorm:"not null" json:"forcePasswordChange"`
	Permissions         Permissions  `gorm:"embedded;embeddedPrefix:perm_" json:"permissions"`
	Settings            UserSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	Password            string       `gorm:"type:varchar(255);not null" json:"-"` // never serialized
	CreatedAt           time.Time    `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns an object id when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewObjectID()
	}
	return nil
}

// Name joins first and last name, skipping blanks
func (u *User) Name() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
