package model

import (
	"strings"
	"time"
)

// ImageNamespace is the storage prefix customer photos are written under.
const ImageNamespace = "customers/"

// Customer is a contact managed by staff. Imports never merge into existing rows,
// so duplicate emails and phones are expected.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:100;not null;index"`
	LastName  string    `json:"last_name" gorm:"size:100;not null;default:''"`
	Email     string    `json:"email" gorm:"size:254;not null;default:''"`
	Phone     string    `json:"phone" gorm:"size:30;not null;default:''"`
	City      string    `json:"city" gorm:"size:100;not null;default:''"`
	State     string    `json:"state" gorm:"size:100;not null;default:''"`
	Country   string    `json:"country" gorm:"size:100;not null;default:''"`
	Image     *string   `json:"image" gorm:"size:255"` // path relative to the media root, nil when absent
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasImage reports whether a photo reference is set.
func (c *Customer) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}
