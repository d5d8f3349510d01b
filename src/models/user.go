package models

import (
	"gsc/src/types"
	"strings"
	"time"
)

type User struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Email      string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role       types.Role `gorm:"type:text;default:'client'" json:"role,omitempty"`
	UID        string     `json:"uid,omitempty"`
	ClientID   *uint      `json:"client_id,omitempty"`
	LastActive *time.Time `json:"last_active,omitempty"`

	Client *Client `gorm:"foreignKey:client_id" json:"client,omitempty"`

	types.Timestamps
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
