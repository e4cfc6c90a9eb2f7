package model

import (
	"encoding/json"
	"time"
)

// User represents an application account that can sign in.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	FirstName    string     `json:"first_name" gorm:"size:150;not null;default:''"`
	LastName     string     `json:"last_name" gorm:"size:150;not null;default:''"`
	Email        string     `json:"email" gorm:"size:254;not null;default:''"`
	PasswordHash string     `json:"-" gorm:"size:255;not null;default:''"` // empty means no usable password
	IsSuperuser  bool       `json:"is_superuser" gorm:"not null;default:false"`
	IsStaff      bool       `json:"is_staff" gorm:"not null;default:false;index"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Role derives the display role from the stored flags.
func (u *User) Role() Role {
	return RoleFromFlags(u.IsSuperuser, u.IsStaff)
}

// SetRole writes the flag pair for r.
func (u *User) SetRole(r Role) {
	u.IsSuperuser, u.IsStaff = r.Flags()
}

// MarshalJSON adds the derived role to the payload.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		Role Role `json:"role"`
	}{plain: plain(u), Role: u.Role()})
}
