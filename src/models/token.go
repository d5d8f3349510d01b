package models

import (
	"gsc/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenType string

const (
	TokenTypeCalendar TokenType = "calendar"
)

// Token stores third party credentials, such as the OAuth token used to
// mirror appointments to the agency calendar.
type Token struct {
	ID          uuid.UUID   `gorm:"primarykey;type:uuid" json:"-"`
	RequestedBy uint        `gorm:"->;<-:create" json:"-"`
	Type        TokenType   `gorm:"->;<-:create;type:text" json:"-"`
	TokenName   string      `gorm:"->;<-:create" json:"-"`
	TokenValue  types.JSONB `gorm:"->;<-:create;type:jsonb" json:"-"`
	TTL         uint        `gorm:"->;<-:create" json:"-"`
	ExpiresAt   time.Time   `gorm:"-"`
	Status      string      `gorm:"default:'active'" json:"-"`

	types.Timestamps
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Token) AfterFind(tx *gorm.DB) error {
	t.ExpiresAt = t.CreatedAt.Add(time.Duration(t.TTL) * time.Second)
	return nil
}

// LatestToken returns the most recent active token of the given type.
func LatestToken(tx *gorm.DB, tokenType TokenType) (*Token, error) {
	var token Token
	err := tx.Where("type = ? AND status = ?", tokenType, "active").Order("created_at DESC").First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}
