package models

import (
	"encoding/json"
	"gsc/src/types"
	"time"

	"gorm.io/datatypes"
)

type Appointment struct {
	ID                uint                    `gorm:"primarykey" json:"id"`
	ClientID          uint                    `gorm:"not null;index" json:"client_id"`
	AgentID           *uint                   `json:"agent_id,omitempty"`
	Reason            string                  `json:"reason"`
	Date              time.Time               `gorm:"index" json:"date"`
	Location          string                  `json:"location"`
	Message           string                  `json:"message,omitempty"`
	RequiredDocuments datatypes.JSON          `json:"required_documents,omitempty"`
	Status            types.AppointmentStatus `gorm:"type:text;default:'scheduled'" json:"status"`
	NewDate           *time.Time              `json:"new_date,omitempty"`
	VisaApplicationID *uint                   `json:"visa_application_id,omitempty"`
	TravelBookingID   *uint                   `json:"travel_booking_id,omitempty"`
	CalendarEventID   string                  `json:"calendar_event_id,omitempty"`

	Client *Client `gorm:"foreignKey:client_id" json:"client,omitempty"`
	Agent  *User   `gorm:"foreignKey:agent_id" json:"agent,omitempty"`

	types.Timestamps
}

func (a *Appointment) DocumentList() []string {
	var docs []string
	if len(a.RequiredDocuments) == 0 {
		return docs
	}
	if err := json.Unmarshal(a.RequiredDocuments, &docs); err != nil {
		return nil
	}
	return docs
}
