package types

type Role string

const (
	ROLE_ADMIN  Role = "admin"
	ROLE_AGENT  Role = "agent"
	ROLE_CLIENT Role = "client"
)

func (r Role) IsStaff() bool {
	return r == ROLE_ADMIN || r == ROLE_AGENT
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case ROLE_ADMIN, ROLE_AGENT, ROLE_CLIENT:
		return Role(s), true
	}
	return "", false
}

type EntityKind string

const (
	KIND_VISA_APPLICATION  EntityKind = "visa_application"
	KIND_TRAVEL_BOOKING    EntityKind = "travel_booking"
	KIND_PAYMENT           EntityKind = "payment"
	KIND_CURRENCY_EXCHANGE EntityKind = "currency_exchange"
)

type VisaStatus string

const (
	VISA_DRAFT                    VisaStatus = "draft"
	VISA_SUBMITTED                VisaStatus = "submitted"
	VISA_PAYMENT_PENDING          VisaStatus = "payment_pending"
	VISA_PAYMENT_RECEIVED         VisaStatus = "payment_received"
	VISA_UNDER_REVIEW             VisaStatus = "under_review"
	VISA_ADDITIONAL_INFO_REQUIRED VisaStatus = "additional_info_required"
	VISA_DOCUMENT_VERIFICATION    VisaStatus = "document_verification"
	VISA_BIOMETRICS_REQUIRED      VisaStatus = "biometrics_required"
	VISA_INTERVIEW_REQUIRED       VisaStatus = "interview_required"
	VISA_APPROVED                 VisaStatus = "approved"
	VISA_REJECTED                 VisaStatus = "rejected"
	VISA_EMBASSY_SUBMITTED        VisaStatus = "embassy_submitted"
	VISA_PROCESSING               VisaStatus = "visa_processing"
	VISA_PRINTED                  VisaStatus = "visa_printed"
	VISA_READY_FOR_PICKUP         VisaStatus = "ready_for_pickup"
	VISA_DELIVERED                VisaStatus = "delivered"
	VISA_COMPLETED                VisaStatus = "completed"
	VISA_CANCELLED                VisaStatus = "cancelled"
	VISA_EXPIRED                  VisaStatus = "expired"
)

type BookingStatus string

const (
	BOOKING_DRAFT                    BookingStatus = "draft"
	BOOKING_PENDING_PAYMENT          BookingStatus = "pending_payment"
	BOOKING_PROCESSING               BookingStatus = "processing"
	BOOKING_PAYMENT_VALIDATED        BookingStatus = "payment_validated"
	BOOKING_PENDING_AGENT_VALIDATION BookingStatus = "pending_agent_validation"
	BOOKING_CONFIRMED                BookingStatus = "confirmed"
	BOOKING_TICKET_SENT              BookingStatus = "ticket_sent"
	BOOKING_CANCELLED                BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING    PaymentStatus = "pending"
	PAYMENT_PROCESSING PaymentStatus = "processing"
	PAYMENT_COMPLETED  PaymentStatus = "completed"
	PAYMENT_FAILED     PaymentStatus = "failed"
	PAYMENT_CANCELLED  PaymentStatus = "cancelled"
	PAYMENT_REFUNDED   PaymentStatus = "refunded"
)

type ExchangeStatus string

const (
	EXCHANGE_PENDING    ExchangeStatus = "pending"
	EXCHANGE_PROCESSING ExchangeStatus = "processing"
	EXCHANGE_COMPLETED  ExchangeStatus = "completed"
	EXCHANGE_CANCELLED  ExchangeStatus = "cancelled"
	EXCHANGE_REJECTED   ExchangeStatus = "rejected"
)

type DocumentStatus string

const (
	DOCUMENT_PENDING           DocumentStatus = "pending"
	DOCUMENT_SUBMITTED         DocumentStatus = "submitted"
	DOCUMENT_APPROVED          DocumentStatus = "approved"
	DOCUMENT_REJECTED          DocumentStatus = "rejected"
	DOCUMENT_REVISION_REQUIRED DocumentStatus = "revision_required"
)

// Provided reports whether a document in this status counts toward
// submission and completeness.
func (s DocumentStatus) Provided() bool {
	return s == DOCUMENT_SUBMITTED || s == DOCUMENT_APPROVED
}

type AppointmentStatus string

const (
	APPOINTMENT_SCHEDULED   AppointmentStatus = "scheduled"
	APPOINTMENT_CONFIRMED   AppointmentStatus = "confirmed"
	APPOINTMENT_COMPLETED   AppointmentStatus = "completed"
	APPOINTMENT_CANCELLED   AppointmentStatus = "cancelled"
	APPOINTMENT_RESCHEDULED AppointmentStatus = "rescheduled"
)

type HistoryAction string

const (
	HISTORY_STATUS_CHANGED HistoryAction = "status_changed"
	HISTORY_ASSIGNED       HistoryAction = "assigned"
)

type NotificationType string

const (
	NOTIFICATION_STATUS_CHANGE NotificationType = "status_change"
	NOTIFICATION_ASSIGNMENT    NotificationType = "assignment"
	NOTIFICATION_APPOINTMENT   NotificationType = "appointment"
	NOTIFICATION_CREATED       NotificationType = "created"
)

func ParseVisaStatus(s string) (VisaStatus, bool) {
	switch v := VisaStatus(s); v {
	case VISA_DRAFT, VISA_SUBMITTED, VISA_PAYMENT_PENDING, VISA_PAYMENT_RECEIVED, VISA_UNDER_REVIEW,
		VISA_ADDITIONAL_INFO_REQUIRED, VISA_DOCUMENT_VERIFICATION, VISA_BIOMETRICS_REQUIRED, VISA_INTERVIEW_REQUIRED,
		VISA_APPROVED, VISA_REJECTED, VISA_EMBASSY_SUBMITTED, VISA_PROCESSING, VISA_PRINTED, VISA_READY_FOR_PICKUP,
		VISA_DELIVERED, VISA_COMPLETED, VISA_CANCELLED, VISA_EXPIRED:
		return v, true
	}
	return "", false
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch v := BookingStatus(s); v {
	case BOOKING_DRAFT, BOOKING_PENDING_PAYMENT, BOOKING_PROCESSING, BOOKING_PAYMENT_VALIDATED,
		BOOKING_PENDING_AGENT_VALIDATION, BOOKING_CONFIRMED, BOOKING_TICKET_SENT, BOOKING_CANCELLED:
		return v, true
	}
	return "", false
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch v := PaymentStatus(s); v {
	case PAYMENT_PENDING, PAYMENT_PROCESSING, PAYMENT_COMPLETED, PAYMENT_FAILED, PAYMENT_CANCELLED, PAYMENT_REFUNDED:
		return v, true
	}
	return "", false
}

func ParseExchangeStatus(s string) (ExchangeStatus, bool) {
	switch v := ExchangeStatus(s); v {
	case EXCHANGE_PENDING, EXCHANGE_PROCESSING, EXCHANGE_COMPLETED, EXCHANGE_CANCELLED, EXCHANGE_REJECTED:
		return v, true
	}
	return "", false
}

// ParseStatus validates a status string against the closed set of its kind.
func ParseStatus(kind EntityKind, s string) (string, bool) {
	var ok bool
	switch kind {
	case KIND_VISA_APPLICATION:
		_, ok = ParseVisaStatus(s)
	case KIND_TRAVEL_BOOKING:
		_, ok = ParseBookingStatus(s)
	case KIND_PAYMENT:
		_, ok = ParsePaymentStatus(s)
	case KIND_CURRENCY_EXCHANGE:
		_, ok = ParseExchangeStatus(s)
	}
	if !ok {
		return "", false
	}
	return s, true
}
