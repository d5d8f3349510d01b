package models

import (
	"gsc/src/types"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VisaType struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `json:"name"`
	Slug           string          `gorm:"uniqueIndex" json:"slug"`
	CountryID      uint            `json:"country_id"`
	Category       string          `json:"category"`
	DurationDays   uint            `json:"duration_days"`
	ProcessingDays uint            `json:"processing_days,omitempty"`
	ServiceFee     decimal.Decimal `gorm:"type:decimal(12,2)" json:"service_fee"`
	Currency       string          `gorm:"default:'XAF'" json:"currency"`
	IsActive       bool            `json:"is_active"`

	Country           *Country           `gorm:"foreignKey:country_id" json:"country,omitempty"`
	RequiredDocuments []RequiredDocument `gorm:"foreignKey:visa_type_id" json:"required_documents,omitempty"`

	types.Timestamps
}

func (v *VisaType) BeforeCreate(tx *gorm.DB) error {
	if v.Slug == "" {
		v.Slug = slug.Make(v.Name + " " + v.Category + " " + countryCode(tx, v.CountryID))
	}
	return nil
}

func countryCode(tx *gorm.DB, id uint) string {
	var code string
	tx.Session(&gorm.Session{NewDB: true}).Model(&Country{}).Where("id = ?", id).Select("code").Scan(&code)
	return code
}

type RequiredDocument struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	VisaTypeID     uint   `gorm:"index" json:"visa_type_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	DocumentType   string `json:"document_type"`
	IsMandatory    bool   `json:"is_mandatory"`
	MaxFileSizeMB  uint   `json:"max_file_size_mb,omitempty"`
	AllowedFormats string `json:"allowed_formats,omitempty"`
	Position       int    `json:"position"`

	types.Timestamps
}

func (d *RequiredDocument) BeforeSave(tx *gorm.DB) error {
	if d.DocumentType == "" {
		d.DocumentType = "other"
	}
	return nil
}
