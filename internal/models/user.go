package models

import "time"

const (
	RoleAdmin        = "admin"
	RoleCollaborator = "collaborator"
)

// Permissions is the fixed-shape area permission record. One column per
// area keeps the set closed: there is no way to store an unknown area flag.
type Permissions struct {
	Copywriting bool `gorm:"column:copywriting;not null;default:false" json:"copywriting"`
	Video       bool `gorm:"column:video;not null;default:false" json:"video"`
	Adv         bool `gorm:"column:adv;not null;default:false" json:"adv"`
	Grafica     bool `gorm:"column:grafica;not null;default:false" json:"grafica"`
}

// Allows reports whether the flag for the given area is set. Unknown areas
// are never allowed.
func (permissions Permissions) Allows(area string) bool {
	switch area {
	case AreaCopywriting:
		return permissions.Copywriting
	case AreaVideo:
		return permissions.Video
	case AreaAdv:
		return permissions.Adv
	case AreaGrafica:
		return permissions.Grafica
	}
	return false
}

// AllPermissions returns the record with every area flag set.
func AllPermissions() Permissions {
	return Permissions{Copywriting: true, Video: true, Adv: true, Grafica: true}
}

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Name         string      `gorm:"not null" json:"name"`
	Role         string      `gorm:"not null;default:collaborator" json:"role"`
	Permissions  Permissions `gorm:"embedded;embeddedPrefix:perm_" json:"permissions"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (user *User) IsAdmin() bool {
	return user != nil && user.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCollaborator
}
