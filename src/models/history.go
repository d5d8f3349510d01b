package models

import (
	"errors"
	"gsc/src/types"
	"time"

	"gorm.io/gorm"
)

var ErrHistoryImmutable = errors.New("history entries cannot be modified")

// HistoryEntry is one row of the append-only transition log.
type HistoryEntry struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	EntityKind    types.EntityKind    `gorm:"type:text;index:idx_history_entity" json:"entity_kind"`
	EntityID      uint                `gorm:"index:idx_history_entity" json:"entity_id"`
	Action        types.HistoryAction `gorm:"type:text" json:"action"`
	OldStatus     string              `json:"old_status"`
	NewStatus     string              `json:"new_status"`
	Notes         string              `json:"notes,omitempty"`
	PerformedByID *uint               `json:"performed_by_id,omitempty"`
	PerformedAt   time.Time           `gorm:"index" json:"performed_at"`

	PerformedBy *User `gorm:"foreignKey:performed_by_id" json:"performed_by,omitempty"`
}

func (h *HistoryEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

func (h *HistoryEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

// ListHistory returns the entries of one entity, oldest first.
func ListHistory(tx *gorm.DB, kind types.EntityKind, id uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := tx.Preload("PerformedBy").
		Where("entity_kind = ? AND entity_id = ?", kind, id).
		Order("performed_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
