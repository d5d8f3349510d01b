package models

import (
	"gsc/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	ID         uuid.UUID              `gorm:"primarykey;type:uuid" json:"id"`
	ClientID   *uint                  `gorm:"index" json:"client_id,omitempty"`
	UserID     *uint                  `gorm:"index" json:"user_id,omitempty"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Type       types.NotificationType `gorm:"type:text" json:"type"`
	EntityKind types.EntityKind       `gorm:"type:text" json:"entity_kind,omitempty"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	IsRead     bool                   `gorm:"not null;default:false" json:"is_read"`
	ReadAt     *time.Time             `json:"read_at,omitempty"`
	Metadata   datatypes.JSON         `json:"metadata,omitempty"`
	CreatedAt  time.Time              `gorm:"autoCreateTime:nano;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// MarkAsRead flips IsRead once; an already read notification keeps its ReadAt.
func (n *Notification) MarkAsRead(tx *gorm.DB) error {
	if n.IsRead {
		return nil
	}
	now := time.Now().UTC()
	res := tx.Model(n).Where("is_read = ?", false).Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.First(n, "id = ?", n.ID).Error
	}
	n.IsRead = true
	n.ReadAt = &now
	return nil
}
