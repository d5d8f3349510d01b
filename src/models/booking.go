package models

import (
	"gsc/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type TravelBooking struct {
	ID                 uint                `gorm:"primarykey" json:"id"`
	Reference          *string             `gorm:"uniqueIndex" json:"reference"`
	ClientID           uint                `gorm:"not null;index" json:"client_id"`
	VisaApplicationID  *uint               `json:"visa_application_id,omitempty"`
	TripType           string              `json:"trip_type"`
	DepartureCity      string              `json:"departure_city"`
	Destination        string              `json:"destination"`
	DepartureDate      time.Time           `json:"departure_date"`
	ReturnDate         *time.Time          `json:"return_date,omitempty"`
	TravelClass        string              `gorm:"default:'economy'" json:"travel_class"`
	Price              decimal.Decimal     `gorm:"type:decimal(12,2)" json:"price"`
	Currency           string              `gorm:"default:'XAF'" json:"currency"`
	Status             types.BookingStatus `gorm:"type:text;default:'draft';index" json:"status"`
	Notes              string              `json:"notes,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	AssignedAgentID    *uint               `json:"assigned_agent_id,omitempty"`

	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	PaymentValidatedAt *time.Time `json:"payment_validated_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	TicketSentAt       *time.Time `json:"ticket_sent_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	Client        *Client          `gorm:"foreignKey:client_id" json:"client,omitempty"`
	AssignedAgent *User            `gorm:"foreignKey:assigned_agent_id" json:"assigned_agent,omitempty"`
	Passengers    []Passenger      `gorm:"foreignKey:travel_booking_id" json:"passengers,omitempty"`
	Documents     []TravelDocument `gorm:"foreignKey:travel_booking_id" json:"documents,omitempty"`

	types.Timestamps
}

func (b *TravelBooking) EntityKind() types.EntityKind { return types.KIND_TRAVEL_BOOKING }
func (b *TravelBooking) EntityID() uint               { return b.ID }
func (b *TravelBooking) CurrentStatus() string        { return string(b.Status) }
func (b *TravelBooking) OwnerID() uint                { return b.ClientID }
func (b *TravelBooking) AgentID() *uint               { return b.AssignedAgentID }
func (b *TravelBooking) ReferenceColumn() string      { return "reference" }
func (b *TravelBooking) ReferenceValue() *string      { return b.Reference }

type Passenger struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	TravelBookingID uint       `gorm:"index" json:"travel_booking_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	PassportNumber  string     `json:"passport_number,omitempty"`

	types.Timestamps
}

type TravelDocument struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	TravelBookingID uint   `gorm:"index" json:"travel_booking_id"`
	Name            string `json:"name"`
	DocumentType    string `json:"document_type"`
	FileKey         string `json:"file_key"`
	FileName        string `json:"file_name"`
	UploadedByID    *uint  `json:"uploaded_by_id,omitempty"`

	types.Timestamps
}
