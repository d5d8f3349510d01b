package lifecycle

import (
	"context"
	"fmt"
	"gsc/src/models"
	"gsc/src/types"
	"log"
	"strings"

	"gorm.io/gorm"
)

// ProcessPayment starts processing a payment and moves a booking waiting
// on it to processing in the same transaction.
func (e *Engine) ProcessPayment(ctx context.Context, paymentID uint, actor Actor) (*Result, error) {
	return e.RequestTransition(ctx, Ref{Kind: types.KIND_PAYMENT, ID: paymentID}, actor, string(types.PAYMENT_PROCESSING), "")
}

// ApprovePayment completes a payment and advances the booking and visa
// application it pays for.
func (e *Engine) ApprovePayment(ctx context.Context, paymentID uint, actor Actor) (*Result, error) {
	return e.RequestTransition(ctx, Ref{Kind: types.KIND_PAYMENT, ID: paymentID}, actor, string(types.PAYMENT_COMPLETED), "")
}

// RejectPayment fails a payment and sends its booking back to pending_payment.
func (e *Engine) RejectPayment(ctx context.Context, paymentID uint, actor Actor, reason string) (*Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		err := fmt.Errorf("%w: a rejection reason is required", ErrValidation)
		e.rejected(types.KIND_PAYMENT, err)
		return nil, err
	}
	return e.RequestTransition(ctx, Ref{Kind: types.KIND_PAYMENT, ID: paymentID}, actor, string(types.PAYMENT_FAILED), reason)
}

// settlePayment runs the linked steps of a payment transition inside the
// transaction that applied it, whichever entry point requested it.
func (e *Engine) settlePayment(tx *gorm.DB, r *Result, actor Actor, notes string) error {
	p, ok := r.Entity.(*models.Payment)
	if !ok {
		return nil
	}
	switch p.Status {
	case types.PAYMENT_PROCESSING:
		return e.followBooking(tx, p, r, actor, types.BOOKING_PROCESSING, fmt.Sprintf("Paiement %s en cours de traitement", paymentRef(p)))
	case types.PAYMENT_FAILED:
		note := fmt.Sprintf("Paiement %s rejeté", paymentRef(p))
		if notes = strings.TrimSpace(notes); notes != "" {
			note += ": " + notes
		}
		return e.followBooking(tx, p, r, actor, types.BOOKING_PENDING_PAYMENT, note)
	case types.PAYMENT_COMPLETED:
		note := fmt.Sprintf("Paiement %s approuvé", paymentRef(p))
		if err := e.followBooking(tx, p, r, actor, types.BOOKING_PENDING_AGENT_VALIDATION, note); err != nil {
			return err
		}
		return e.followVisa(tx, p, r, actor, note)
	}
	return nil
}

// followBooking moves the payment's booking when the registry allows it.
// The payment edge has already been authorized.
func (e *Engine) followBooking(tx *gorm.DB, p *models.Payment, r *Result, actor Actor, to types.BookingStatus, note string) error {
	if p.TravelBookingID == nil {
		return nil
	}
	booking, err := e.lock(tx, Ref{Kind: types.KIND_TRAVEL_BOOKING, ID: *p.TravelBookingID})
	if err != nil {
		return err
	}
	if !CanTransition(types.KIND_TRAVEL_BOOKING, booking.CurrentStatus(), string(to)) {
		log.Printf("Booking %d is %s, leaving it after payment %d\n", booking.EntityID(), booking.CurrentStatus(), p.ID)
		return nil
	}
	related, err := e.apply(tx, booking, actor, string(to), note, false)
	if err != nil {
		return err
	}
	r.Related = append(r.Related, related)
	return nil
}

func (e *Engine) followVisa(tx *gorm.DB, p *models.Payment, r *Result, actor Actor, note string) error {
	if p.VisaApplicationID == nil {
		return nil
	}
	app, err := e.lock(tx, Ref{Kind: types.KIND_VISA_APPLICATION, ID: *p.VisaApplicationID})
	if err != nil {
		return err
	}
	if app.CurrentStatus() != string(types.VISA_PAYMENT_PENDING) {
		log.Printf("Visa application %d is %s, leaving it after payment %d\n", app.EntityID(), app.CurrentStatus(), p.ID)
		return nil
	}
	related, err := e.apply(tx, app, actor, string(types.VISA_PAYMENT_RECEIVED), note, false)
	if err != nil {
		return err
	}
	r.Related = append(r.Related, related)
	return nil
}

func paymentRef(p *models.Payment) string {
	if p.Reference == nil {
		return fmt.Sprintf("#%d", p.ID)
	}
	return *p.Reference
}
