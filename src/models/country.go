package models

import "gsc/src/types"

type Country struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `json:"name"`
	Code string `gorm:"uniqueIndex;size:3" json:"code"`

	types.Timestamps
}
