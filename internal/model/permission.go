package model

// Capability names a single permission flag on a user
type Capability string

const (
	CapAddEmployees        Capability = "addEmployees"
	CapEditEmployees       Capability = "editEmployees"
	CapDeactivateEmployees Capability = "deactivateEmployees"
	CapViewEmployees       Capability = "viewEmployees"
	CapGenerateQRCodes     Capability = "generateQRCodes"
	CapRevokeQRCodes       Capability = "revokeQRCodes"
	CapManageUsers         Capability = "manageUsers"
)

// AllCapabilities lists every capability in a stable order
var AllCapabilities = []Capability{
	CapAddEmployees,
	CapEditEmployees,
	CapDeactivateEmployees,
	CapViewEmployees,
	CapGenerateQRCodes,
	CapRevokeQRCodes,
	CapManageUsers,
}

// Permissions holds the seven independent capability flags of a user
type Permissions struct {
	AddEmployees        bool `gorm:"not null" json:"addEmployees"`
	EditEmployees       bool `gorm:"not null" json:"editEmployees"`
	DeactivateEmployees bool `gorm:"not null" json:"deactivateEmployees"`
	ViewEmployees       bool `gorm:"not null" json:"viewEmployees"`
	GenerateQRCodes     bool `gorm:"not null" json:"generateQRCodes"`
	RevokeQRCodes       bool `gorm:"not null" json:"revokeQRCodes"`
	ManageUsers         bool `gorm:"not null" json:"manageUsers"`
}

// DefaultPermissions grants read access to employees and nothing else
func DefaultPermissions() Permissions {
	return Permissions{ViewEmployees: true}
}

// FullPermissions grants every capability
func FullPermissions() Permissions {
	return Permissions{
		AddEmployees:        true,
		EditEmployees:       true,
		DeactivateEmployees: true,
		ViewEmployees:       true,
		GenerateQRCodes:     true,
		RevokeQRCodes:       true,
		ManageUsers:         true,
	}
}

// Allows reports whether the flag for capability is set. Unknown capabilities are denied.
func (p Permissions) Allows(capability Capability) bool {
	switch capability {
	case CapAddEmployees:
		return p.AddEmployees
	case CapEditEmployees:
		return p.EditEmployees
	case CapDeactivateEmployees:
		return p.DeactivateEmployees
	case CapViewEmployees:
		return p.ViewEmployees
	case CapGenerateQRCodes:
		return p.GenerateQRCodes
	case CapRevokeQRCodes:
		return p.RevokeQRCodes
	case CapManageUsers:
		return p.ManageUsers
	}
	return false
}

// Authorize reports whether user holds capability. A nil user holds nothing.
func Authorize(user *User, capability Capability) bool {
	if user == nil {
		return false
	}
	return user.Permissions.Allows(capability)
}

// PermissionsPatch carries optional flag updates; nil fields are left untouched
type PermissionsPatch struct {
	AddEmployees        *bool `json:"addEmployees"`
	EditEmployees       *bool `json:"editEmployees"`
	DeactivateEmployees *bool `json:"deactivateEmployees"`
	ViewEmployees       *bool `json:"viewEmployees"`
	GenerateQRCodes     *bool `json:"generateQRCodes"`
	RevokeQRCodes       *bool `json:"revokeQRCodes"`
	ManageUsers         *bool `json:"manageUsers"`
}

// ApplyTo overlays the set flags of the patch onto base
func (pp *PermissionsPatch) ApplyTo(base Permissions) Permissions {
	if pp == nil {
		return base
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.AddEmployees, pp.AddEmployees)
	set(&base.EditEmployees, pp.EditEmployees)
	set(&base.DeactivateEmployees, pp.DeactivateEmployees)
	set(&base.ViewEmployees, pp.ViewEmployees)
	set(&base.GenerateQRCodes, pp.GenerateQRCodes)
	set(&base.RevokeQRCodes, pp.RevokeQRCodes)
	set(&base.ManageUsers, pp.ManageUsers)
	return base
}
