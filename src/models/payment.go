package models

import (
	"gsc/src/types"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Payment struct {
	ID                uint                `gorm:"primarykey" json:"id"`
	Reference         *string             `gorm:"uniqueIndex" json:"reference"`
	ClientID          uint                `gorm:"not null;index" json:"client_id"`
	PaymentType       string              `json:"payment_type"`
	Amount            decimal.Decimal     `gorm:"type:decimal(12,2)" json:"amount"`
	Currency          string              `gorm:"default:'XAF'" json:"currency"`
	PaymentMethod     string              `json:"payment_method"`
	Status            types.PaymentStatus `gorm:"type:text;default:'pending';index" json:"status"`
	TravelBookingID   *uint               `json:"travel_booking_id,omitempty"`
	VisaApplicationID *uint               `json:"visa_application_id,omitempty"`
	AssignedAgentID   *uint               `json:"assigned_agent_id,omitempty"`
	Description       string              `json:"description,omitempty"`
	FailureReason     string              `json:"failure_reason,omitempty"`
	ProviderReference string              `json:"provider_reference,omitempty"`
	Metadata          datatypes.JSON      `json:"metadata,omitempty"`

	InitiatedAt time.Time  `json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	Client        *Client        `gorm:"foreignKey:client_id" json:"client,omitempty"`
	TravelBooking *TravelBooking `gorm:"foreignKey:travel_booking_id" json:"travel_booking,omitempty"`

	types.Timestamps
}

func (p *Payment) EntityKind() types.EntityKind { return types.KIND_PAYMENT }
func (p *Payment) EntityID() uint               { return p.ID }
func (p *Payment) CurrentStatus() string        { return string(p.Status) }
func (p *Payment) OwnerID() uint                { return p.ClientID }
func (p *Payment) AgentID() *uint               { return p.AssignedAgentID }
func (p *Payment) ReferenceColumn() string      { return "reference" }
func (p *Payment) ReferenceValue() *string      { return p.Reference }
