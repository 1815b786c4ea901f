package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionCreateEmployee     = "Created employee"
	ActionUpdateEmployee     = "Updated employee"
	ActionDeleteEmployee     = "Deleted employee"
	ActionActivateEmployee   = "Activated employee"
	ActionDeactivateEmployee = "Deactivated employee"
	ActionGenerateQRCode     = "Generated QR code"
	ActionRevokeQRCode       = "Revoked QR code"

	ActionCreateUser     = "Created user"
	ActionUpdateUser     = "Updated user"
	ActionDeleteUser     = "Deleted user"
	ActionChangePassword = "Changed password"
)

// Activity is an append-only record of who did what, and when.
// Rows are never updated after insert.
type Activity struct {
	ID        string            `gorm:"type:varchar(24);primaryKey" json:"id"`
	UserID    string            `gorm:"column:user_id;type:varchar(24);not null;index" json:"-"`
	User      *User             `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Target    string            `gorm:"type:varchar(255)" json:"target,omitempty"`
	TargetID  string            `gorm:"column:target_id;type:varchar(24);index" json:"targetId,omitempty"`
	Details   datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time         `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns an object id when the caller did not
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewObjectID()
	}
	return nil
}

// ActivityActor is the populated view of the user behind an activity
type ActivityActor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}
