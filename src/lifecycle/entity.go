package lifecycle

import (
	"fmt"
	"gsc/src/models"
	"gsc/src/types"
)

// Entity is implemented by every model that moves through a status workflow.
type Entity interface {
	EntityKind() types.EntityKind
	EntityID() uint
	CurrentStatus() string
	OwnerID() uint
	AgentID() *uint
	ReferenceColumn() string
	ReferenceValue() *string
}

// Ref points at an entity without loading it.
type Ref struct {
	Kind types.EntityKind
	ID   uint
}

func RefOf(e Entity) Ref {
	return Ref{Kind: e.EntityKind(), ID: e.EntityID()}
}

func newEntity(kind types.EntityKind) (Entity, error) {
	switch kind {
	case types.KIND_VISA_APPLICATION:
		return &models.VisaApplication{}, nil
	case types.KIND_TRAVEL_BOOKING:
		return &models.TravelBooking{}, nil
	case types.KIND_PAYMENT:
		return &models.Payment{}, nil
	case types.KIND_CURRENCY_EXCHANGE:
		return &models.CurrencyExchangeRequest{}, nil
	}
	return nil, fmt.Errorf("%w: unknown entity kind %q", ErrValidation, kind)
}

// milestones maps a target status to the timestamp columns stamped the
// first time an entity reaches it.
var milestones = map[types.EntityKind]map[string][]string{
	types.KIND_VISA_APPLICATION: {
		string(types.VISA_SUBMITTED):                {"submitted_at"},
		string(types.VISA_PAYMENT_RECEIVED):         {"payment_received_at"},
		string(types.VISA_UNDER_REVIEW):             {"under_review_at"},
		string(types.VISA_ADDITIONAL_INFO_REQUIRED): {"additional_info_requested_at"},
		string(types.VISA_APPROVED):                 {"approved_at", "reviewed_at"},
		string(types.VISA_REJECTED):                 {"rejected_at", "reviewed_at"},
		string(types.VISA_COMPLETED):                {"completed_at"},
	},
	types.KIND_TRAVEL_BOOKING: {
		string(types.BOOKING_PENDING_PAYMENT):          {"submitted_at"},
		string(types.BOOKING_PAYMENT_VALIDATED):        {"payment_validated_at"},
		string(types.BOOKING_PENDING_AGENT_VALIDATION): {"payment_validated_at"},
		string(types.BOOKING_CONFIRMED):                {"confirmed_at"},
		string(types.BOOKING_TICKET_SENT):              {"ticket_sent_at"},
		string(types.BOOKING_CANCELLED):                {"cancelled_at"},
	},
	types.KIND_PAYMENT: {
		string(types.PAYMENT_COMPLETED): {"completed_at"},
		string(types.PAYMENT_FAILED):    {"failed_at"},
		string(types.PAYMENT_CANCELLED): {"cancelled_at"},
		string(types.PAYMENT_REFUNDED):  {"refunded_at"},
	},
	types.KIND_CURRENCY_EXCHANGE: {
		string(types.EXCHANGE_PROCESSING): {"processed_at"},
		string(types.EXCHANGE_COMPLETED):  {"completed_at"},
		string(types.EXCHANGE_CANCELLED):  {"cancelled_at"},
		string(types.EXCHANGE_REJECTED):   {"rejected_at"},
	},
}

func MilestoneColumns(kind types.EntityKind, to string) []string {
	return milestones[kind][to]
}
