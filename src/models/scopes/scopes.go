package scopes

import (
	"gsc/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

// VisibleTo restricts client actors to rows they own. Staff see everything.
func VisibleTo(role types.Role, clientID *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if role.IsStaff() {
			return db
		}
		if clientID == nil {
			return db.Where("1 = 0")
		}
		return db.Where("client_id = ?", *clientID)
	}
}

func AssignedTo(agentID *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if agentID == nil {
			return db
		}
		return db.Where("assigned_agent_id = ?", *agentID)
	}
}

func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
