package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// Workspace partitions a user's programs, sessions and chat into the
// professional and personal contexts.
type Workspace string

const (
	WorkspaceProfessional Workspace = "professional"
	WorkspacePersonal     Workspace = "personal"
)

func (w Workspace) Valid() bool {
	return w == WorkspaceProfessional || w == WorkspacePersonal
}

// swagger:model User
type User struct {
	BaseModel
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:100;unique;not null" json:"email"`
	Password         string    `gorm:"size:100;not null" json:"-"`
	Role             UserRole  `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	Points           int       `gorm:"default:0" json:"points"`
	Level            int       `gorm:"default:1" json:"level"` // derived: points/threshold+1, kept consistent on every award
	CurrentWorkspace Workspace `gorm:"type:enum('professional','personal');default:'professional'" json:"currentWorkspace"`
	Avatar           string    `gorm:"size:255" json:"avatar"`
	OrganizationID   *uint     `gorm:"index" json:"organizationId,omitempty"`
	TeamID           *uint     `gorm:"index" json:"teamId,omitempty"`
	Disabled         bool      `gorm:"default:false" json:"disabled"`
	LastLogin        time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen         time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
