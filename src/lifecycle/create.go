package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"

	"gorm.io/gorm"
)

// resolveClient returns the owning client for a new entity. Clients always
// own what they create; staff must name an existing client.
func resolveClient(tx *gorm.DB, actor Actor, requested uint) (uint, error) {
	if actor.Role == types.ROLE_CLIENT {
		if actor.ClientID == nil {
			return 0, fmt.Errorf("%w: no client profile linked to this account", ErrPermissionDenied)
		}
		if requested != 0 && requested != *actor.ClientID {
			return 0, fmt.Errorf("%w: cannot create on behalf of another client", ErrPermissionDenied)
		}
		return *actor.ClientID, nil
	}
	if requested == 0 {
		return 0, fmt.Errorf("%w: client is required", ErrValidation)
	}
	var client models.Client
	if err := tx.Select("id").First(&client, requested).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: client %d", ErrNotFound, requested)
		}
		return 0, err
	}
	return client.ID, nil
}

// CreateVisaApplication stores a draft. Drafts get their number on submission.
func (e *Engine) CreateVisaApplication(ctx context.Context, actor Actor, app *models.VisaApplication) (*models.VisaApplication, error) {
	var created *models.VisaApplication
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clientID, err := resolveClient(tx, actor, app.ClientID)
		if err != nil {
			return err
		}
		app.ID = 0
		app.ClientID = clientID
		app.Status = types.VISA_DRAFT
		app.ApplicationNumber = nil
		if app.Priority == "" {
			app.Priority = "normal"
		}
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		fresh, err := e.reload(tx, RefOf(app))
		if err != nil {
			return err
		}
		created = fresh.(*models.VisaApplication)
		return nil
	})
	return created, err
}

func (e *Engine) CreateTravelBooking(ctx context.Context, actor Actor, booking *models.TravelBooking) (*models.TravelBooking, error) {
	if booking.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if booking.ReturnDate != nil && booking.ReturnDate.Before(booking.DepartureDate) {
		return nil, fmt.Errorf("%w: return date is before departure", ErrValidation)
	}
	var created *models.TravelBooking
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clientID, err := resolveClient(tx, actor, booking.ClientID)
		if err != nil {
			return err
		}
		booking.ID = 0
		booking.ClientID = clientID
		booking.Status = types.BOOKING_DRAFT
		booking.Reference = nil
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		fresh, err := e.reload(tx, RefOf(booking))
		if err != nil {
			return err
		}
		created = fresh.(*models.TravelBooking)
		return nil
	})
	return created, err
}

// CreatePayment registers a pending payment with its reference.
func (e *Engine) CreatePayment(ctx context.Context, actor Actor, payment *models.Payment) (*Result, error) {
	if !payment.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return e.register(ctx, payment, func(tx *gorm.DB) error {
		clientID, err := resolveClient(tx, actor, payment.ClientID)
		if err != nil {
			return err
		}
		if payment.TravelBookingID != nil {
			var booking models.TravelBooking
			if err := tx.First(&booking, *payment.TravelBookingID).Error; err != nil {
				return fmt.Errorf("%w: travel booking %d", ErrNotFound, *payment.TravelBookingID)
			}
			if booking.ClientID != clientID {
				return fmt.Errorf("%w: booking %d belongs to another client", ErrValidation, booking.ID)
			}
		}
		if payment.VisaApplicationID != nil {
			var app models.VisaApplication
			if err := tx.First(&app, *payment.VisaApplicationID).Error; err != nil {
				return fmt.Errorf("%w: visa application %d", ErrNotFound, *payment.VisaApplicationID)
			}
			if app.ClientID != clientID {
				return fmt.Errorf("%w: visa application %d belongs to another client", ErrValidation, app.ID)
			}
		}
		payment.ID = 0
		payment.ClientID = clientID
		payment.Status = types.PAYMENT_PENDING
		payment.Reference = nil
		payment.InitiatedAt = e.now()
		return tx.Create(payment).Error
	})
}

// CreateExchange registers a pending exchange request. Rates and amounts are
// expected to be filled by the caller.
func (e *Engine) CreateExchange(ctx context.Context, actor Actor, exchange *models.CurrencyExchangeRequest) (*Result, error) {
	if !exchange.AmountSent.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if exchange.FromCurrency == exchange.ToCurrency {
		return nil, fmt.Errorf("%w: currencies must differ", ErrValidation)
	}
	return e.register(ctx, exchange, func(tx *gorm.DB) error {
		clientID, err := resolveClient(tx, actor, exchange.ClientID)
		if err != nil {
			return err
		}
		exchange.ID = 0
		exchange.ClientID = clientID
		exchange.Status = types.EXCHANGE_PENDING
		exchange.Reference = nil
		exchange.SubmittedAt = e.now()
		return tx.Create(exchange).Error
	})
}

// register creates an entity that starts outside any draft state and assigns
// its reference. Creation is not a transition and leaves the ledger untouched.
func (e *Engine) register(ctx context.Context, entity Entity, create func(tx *gorm.DB) error) (*Result, error) {
	var result *Result
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := create(tx); err != nil {
			return err
		}
		if _, err := e.numbers.Assign(tx, entity); err != nil {
			return err
		}
		fresh, err := e.reload(tx, RefOf(entity))
		if err != nil {
			return err
		}
		owner := fresh.OwnerID()
		result = &Result{
			Entity: fresh,
			event: &notifications.Event{
				Type:      types.NOTIFICATION_CREATED,
				Kind:      fresh.EntityKind(),
				EntityID:  fresh.EntityID(),
				NewStatus: fresh.CurrentStatus(),
				ClientID:  &owner,
				Entity:    fresh,
			},
		}
		return nil
	})
	if err != nil {
		e.rejected(entity.EntityKind(), err)
		return nil, err
	}
	e.finish(ctx, result)
	return result, nil
}
