package lifecycle

import (
	"gsc/src/types"
	"slices"
)

type table struct {
	statuses []string
	edges    map[string][]string
	terminal map[string]bool
	initial  string
}

var registry = map[types.EntityKind]*table{
	types.KIND_VISA_APPLICATION:  visaTable(),
	types.KIND_TRAVEL_BOOKING:    bookingTable(),
	types.KIND_PAYMENT:           paymentTable(),
	types.KIND_CURRENCY_EXCHANGE: exchangeTable(),
}

func visaTable() *table {
	s := func(v types.VisaStatus) string { return string(v) }
	reviewOutcomes := []string{s(types.VISA_APPROVED), s(types.VISA_REJECTED)}
	t := &table{
		initial: s(types.VISA_DRAFT),
		statuses: []string{
			s(types.VISA_DRAFT), s(types.VISA_SUBMITTED), s(types.VISA_PAYMENT_PENDING), s(types.VISA_PAYMENT_RECEIVED),
			s(types.VISA_UNDER_REVIEW), s(types.VISA_ADDITIONAL_INFO_REQUIRED), s(types.VISA_DOCUMENT_VERIFICATION),
			s(types.VISA_BIOMETRICS_REQUIRED), s(types.VISA_INTERVIEW_REQUIRED), s(types.VISA_APPROVED), s(types.VISA_REJECTED),
			s(types.VISA_EMBASSY_SUBMITTED), s(types.VISA_PROCESSING), s(types.VISA_PRINTED), s(types.VISA_READY_FOR_PICKUP),
			s(types.VISA_DELIVERED), s(types.VISA_COMPLETED), s(types.VISA_CANCELLED), s(types.VISA_EXPIRED),
		},
		edges: map[string][]string{
			s(types.VISA_DRAFT):            {s(types.VISA_SUBMITTED)},
			s(types.VISA_SUBMITTED):        {s(types.VISA_PAYMENT_PENDING)},
			s(types.VISA_PAYMENT_PENDING):  {s(types.VISA_PAYMENT_RECEIVED)},
			s(types.VISA_PAYMENT_RECEIVED): {s(types.VISA_UNDER_REVIEW)},
			s(types.VISA_UNDER_REVIEW): {
				s(types.VISA_ADDITIONAL_INFO_REQUIRED), s(types.VISA_DOCUMENT_VERIFICATION),
				s(types.VISA_BIOMETRICS_REQUIRED), s(types.VISA_INTERVIEW_REQUIRED),
			},
			s(types.VISA_ADDITIONAL_INFO_REQUIRED): reviewOutcomes,
			s(types.VISA_DOCUMENT_VERIFICATION):    reviewOutcomes,
			s(types.VISA_BIOMETRICS_REQUIRED):      reviewOutcomes,
			s(types.VISA_INTERVIEW_REQUIRED):       reviewOutcomes,
			s(types.VISA_APPROVED):                 {s(types.VISA_EMBASSY_SUBMITTED)},
			s(types.VISA_EMBASSY_SUBMITTED):        {s(types.VISA_PROCESSING)},
			s(types.VISA_PROCESSING):               {s(types.VISA_PRINTED)},
			s(types.VISA_PRINTED):                  {s(types.VISA_READY_FOR_PICKUP)},
			s(types.VISA_READY_FOR_PICKUP):         {s(types.VISA_DELIVERED)},
			s(types.VISA_DELIVERED):                {s(types.VISA_COMPLETED)},
		},
		terminal: map[string]bool{
			s(types.VISA_REJECTED):  true,
			s(types.VISA_COMPLETED): true,
			s(types.VISA_CANCELLED): true,
			s(types.VISA_EXPIRED):   true,
		},
	}
	// any non-terminal state may be cancelled or expire
	for _, status := range t.statuses {
		if t.terminal[status] {
			continue
		}
		t.edges[status] = append(slices.Clone(t.edges[status]), s(types.VISA_CANCELLED), s(types.VISA_EXPIRED))
	}
	return t
}

func bookingTable() *table {
	s := func(v types.BookingStatus) string { return string(v) }
	return &table{
		initial: s(types.BOOKING_DRAFT),
		statuses: []string{
			s(types.BOOKING_DRAFT), s(types.BOOKING_PENDING_PAYMENT), s(types.BOOKING_PROCESSING), s(types.BOOKING_PAYMENT_VALIDATED),
			s(types.BOOKING_PENDING_AGENT_VALIDATION), s(types.BOOKING_CONFIRMED), s(types.BOOKING_TICKET_SENT), s(types.BOOKING_CANCELLED),
		},
		edges: map[string][]string{
			s(types.BOOKING_DRAFT):           {s(types.BOOKING_PENDING_PAYMENT), s(types.BOOKING_CANCELLED)},
			s(types.BOOKING_PENDING_PAYMENT): {s(types.BOOKING_PROCESSING), s(types.BOOKING_CANCELLED)},
			// a settled payment skips payment_validated, a failed one sends the booking back
			s(types.BOOKING_PROCESSING):               {s(types.BOOKING_PAYMENT_VALIDATED), s(types.BOOKING_PENDING_AGENT_VALIDATION), s(types.BOOKING_PENDING_PAYMENT)},
			s(types.BOOKING_PAYMENT_VALIDATED):        {s(types.BOOKING_PENDING_AGENT_VALIDATION)},
			s(types.BOOKING_PENDING_AGENT_VALIDATION): {s(types.BOOKING_CONFIRMED)},
			s(types.BOOKING_CONFIRMED):                {s(types.BOOKING_TICKET_SENT)},
		},
		terminal: map[string]bool{
			s(types.BOOKING_TICKET_SENT): true,
			s(types.BOOKING_CANCELLED):   true,
		},
	}
}

func paymentTable() *table {
	s := func(v types.PaymentStatus) string { return string(v) }
	return &table{
		initial: s(types.PAYMENT_PENDING),
		statuses: []string{
			s(types.PAYMENT_PENDING), s(types.PAYMENT_PROCESSING), s(types.PAYMENT_COMPLETED),
			s(types.PAYMENT_FAILED), s(types.PAYMENT_CANCELLED), s(types.PAYMENT_REFUNDED),
		},
		edges: map[string][]string{
			s(types.PAYMENT_PENDING):    {s(types.PAYMENT_PROCESSING)},
			s(types.PAYMENT_PROCESSING): {s(types.PAYMENT_COMPLETED), s(types.PAYMENT_FAILED), s(types.PAYMENT_CANCELLED), s(types.PAYMENT_REFUNDED)},
		},
		terminal: map[string]bool{
			s(types.PAYMENT_COMPLETED): true,
			s(types.PAYMENT_FAILED):    true,
			s(types.PAYMENT_CANCELLED): true,
			s(types.PAYMENT_REFUNDED):  true,
		},
	}
}

func exchangeTable() *table {
	s := func(v types.ExchangeStatus) string { return string(v) }
	return &table{
		initial: s(types.EXCHANGE_PENDING),
		statuses: []string{
			s(types.EXCHANGE_PENDING), s(types.EXCHANGE_PROCESSING), s(types.EXCHANGE_COMPLETED),
			s(types.EXCHANGE_CANCELLED), s(types.EXCHANGE_REJECTED),
		},
		edges: map[string][]string{
			s(types.EXCHANGE_PENDING):    {s(types.EXCHANGE_PROCESSING)},
			s(types.EXCHANGE_PROCESSING): {s(types.EXCHANGE_COMPLETED), s(types.EXCHANGE_CANCELLED), s(types.EXCHANGE_REJECTED)},
		},
		terminal: map[string]bool{
			s(types.EXCHANGE_COMPLETED): true,
			s(types.EXCHANGE_CANCELLED): true,
			s(types.EXCHANGE_REJECTED):  true,
		},
	}
}

func Kinds() []types.EntityKind {
	return []types.EntityKind{
		types.KIND_VISA_APPLICATION,
		types.KIND_TRAVEL_BOOKING,
		types.KIND_PAYMENT,
		types.KIND_CURRENCY_EXCHANGE,
	}
}

// Statuses lists every status of a kind in workflow order.
func Statuses(kind types.EntityKind) []string {
	t, ok := registry[kind]
	if !ok {
		return nil
	}
	return slices.Clone(t.statuses)
}

func InitialStatus(kind types.EntityKind) string {
	if t, ok := registry[kind]; ok {
		return t.initial
	}
	return ""
}

func AllowedTransitions(kind types.EntityKind, from string) []string {
	t, ok := registry[kind]
	if !ok {
		return nil
	}
	return slices.Clone(t.edges[from])
}

func IsTerminal(kind types.EntityKind, status string) bool {
	t, ok := registry[kind]
	return ok && t.terminal[status]
}

func IsValid(kind types.EntityKind, status string) bool {
	t, ok := registry[kind]
	return ok && slices.Contains(t.statuses, status)
}

func CanTransition(kind types.EntityKind, from string, to string) bool {
	if from == to || !IsValid(kind, to) {
		return false
	}
	return slices.Contains(AllowedTransitions(kind, from), to)
}
