package models

import (
	"gsc/src/types"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SETTINGS_GROUP_LIFECYCLE = "lifecycle"

type Setting struct {
	ID           uuid.UUID      `gorm:"primarykey;type:uuid" json:"id"`
	SettingKey   string         `gorm:"uniqueIndex:name" json:"setting_key"`
	SettingValue types.JSONBAny `gorm:"type:jsonb" json:"setting_value"`
	Group        string         `gorm:"uniqueIndex:name" json:"group,omitempty"`

	types.Timestamps
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SettingInt reads a numeric setting, falling back when it is absent or not a number.
func SettingInt(tx *gorm.DB, group string, key string, fallback int) int {
	var setting Setting
	if err := tx.Where("setting_key = ? AND \"group\" = ?", key, group).First(&setting).Error; err != nil {
		return fallback
	}
	switch v := setting.SettingValue.Inner.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
