package models

import (
	"gsc/src/types"
	"strings"
	"time"
)

type Client struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	LastName    string     `json:"nom"`
	FirstName   string     `json:"prenom"`
	Email       string     `gorm:"uniqueIndex" json:"email"`
	Phone       string     `json:"telephone"`
	IDType      string     `json:"type_piece"`
	IDNumber    string     `gorm:"uniqueIndex" json:"numero_piece"`
	DateOfBirth *time.Time `json:"date_naissance,omitempty"`
	Country     string     `gorm:"default:'Cameroun'" json:"pays"`
	UserID      *uint      `json:"user_id,omitempty"`

	types.Timestamps
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
