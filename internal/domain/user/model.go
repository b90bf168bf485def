package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCEO      Role = "CEO"
	RoleEmployee Role = "Employee"
)

func (r Role) IsValid() bool {
	return r == RoleCEO || r == RoleEmployee
}

// SubRole is the department classification for employees. Tasks and cards
// without a specific assignee target a sub role instead.
type SubRole string

const (
	SubRoleDeveloper     SubRole = "Developer"
	SubRoleDesigner      SubRole = "Designer"
	SubRoleContentWriter SubRole = "ContentWriter"
	SubRoleSEO           SubRole = "SEO"
	SubRoleMarketing     SubRole = "Marketing"
)

func (s SubRole) IsValid() bool {
	switch s {
	case SubRoleDeveloper, SubRoleDesigner, SubRoleContentWriter, SubRoleSEO, SubRoleMarketing:
		return true
	}
	return false
}

// User represents an account in the system. Exactly one CEO is expected,
// created by the bootstrap seed.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex:idx_user_email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;default:'Employee';index:idx_user_role"`
	SubRole      *SubRole  `json:"sub_role,omitempty" gorm:"index:idx_user_subrole"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

func (User) TableName() string {
	return "users"
}

// DisplayRole is the role string recorded in the activity log: the CEO shows
// as "CEO", employees show as their department when they have one.
func (u *User) DisplayRole() string {
	if u.Role == RoleCEO {
		return string(RoleCEO)
	}
	if u.SubRole != nil {
		return string(*u.SubRole)
	}
	return string(RoleEmployee)
}
