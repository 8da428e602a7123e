package model

import "time"

// swagger:model Organization
type Organization struct {
	BaseModel
	Name   string `gorm:"size:100;not null" json:"name"`
	Domain string `gorm:"size:100" json:"domain"`
	Logo   string `gorm:"size:255" json:"logo"`
}

func (Organization) TableName() string {
	return "organizations"
}

// swagger:model Team
type Team struct {
	BaseModel
	OrganizationID uint   `gorm:"index;type:bigint unsigned;not null" json:"organizationId"`
	Name           string `gorm:"size:100;not null" json:"name"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// Invitation is a single-use, expiring token inviting an email address into
// an organization (and optionally a team).
// swagger:model Invitation
type Invitation struct {
	UUIDBase
	OrganizationID uint       `gorm:"index;type:bigint unsigned;not null" json:"organizationId"`
	TeamID         *uint      `gorm:"index" json:"teamId,omitempty"`
	Email          string     `gorm:"size:100;not null" json:"email"`
	Role           UserRole   `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	Token          string     `gorm:"size:36;uniqueIndex;not null" json:"-"`
	InvitedBy      uint       `gorm:"type:bigint unsigned" json:"invitedBy"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expiresAt"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty"`
}

func (Invitation) TableName() string {
	return "invitations"
}
