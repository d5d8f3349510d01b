package notifications

import (
	"gsc/src/models"
	"gsc/src/types"
)

// Event is emitted by the lifecycle engine after a committed change.
type Event struct {
	Type      types.NotificationType
	Kind      types.EntityKind
	EntityID  uint
	OldStatus string
	NewStatus string
	Notes     string

	// exactly one recipient is set
	ClientID *uint
	UserID   *uint

	Entity any
	Agent  *models.User
}

type Recipient struct {
	Name  string
	Email string
}

// Content is what a template produces for one event.
type Content struct {
	Title   string
	Message string
	Subject string
	Body    string
}
