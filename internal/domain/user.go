package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User accounts are provisioned out-of-band (see cmd/seed); there is no
// registration endpoint.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string         `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	Role         Role           `json:"role" gorm:"size:20;not null;default:user"`
	Email        *string        `json:"email,omitempty" gorm:"size:255"`
	Verified     bool           `json:"verified" gorm:"not null;default:false"`
	AvatarURL    *string        `json:"avatarUrl,omitempty"`
	SocialLinks  datatypes.JSON `json:"socialLinks,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
