package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"gsc/src/lib/metrics"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier receives transition events once the transaction has committed.
type Notifier interface {
	Dispatch(ctx context.Context, event notifications.Event) (*models.Notification, error)
}

type Engine struct {
	db       *gorm.DB
	numbers  *Generator
	notifier Notifier
	now      func() time.Time
}

func NewEngine(db *gorm.DB, notifier Notifier) *Engine {
	return &Engine{
		db:       db,
		numbers:  NewGenerator(),
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Result describes one mutated entity. Related holds the other aggregates
// changed by the same operation.
type Result struct {
	Entity       Entity               `json:"entity"`
	History      *models.HistoryEntry `json:"history"`
	Notification *models.Notification `json:"notification,omitempty"`
	Related      []*Result            `json:"related,omitempty"`

	event *notifications.Event
}

func (e *Engine) lock(tx *gorm.DB, ref Ref) (Entity, error) {
	entity, err := newEntity(ref.Kind)
	if err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(entity, ref.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, ref.Kind, ref.ID)
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (e *Engine) reload(tx *gorm.DB, ref Ref) (Entity, error) {
	entity, err := newEntity(ref.Kind)
	if err != nil {
		return nil, err
	}
	q := tx.Preload("Client")
	if ref.Kind == types.KIND_VISA_APPLICATION {
		q = q.Preload("VisaType.Country")
	}
	if err := q.First(entity, ref.ID).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// Load returns an entity the actor is allowed to see.
func (e *Engine) Load(ctx context.Context, ref Ref, actor Actor) (Entity, error) {
	entity, err := e.reload(e.db.WithContext(ctx), ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, ref.Kind, ref.ID)
	}
	if err != nil {
		return nil, err
	}
	if !CanView(actor, entity) {
		return nil, fmt.Errorf("%w: %s %d belongs to another client", ErrPermissionDenied, ref.Kind, ref.ID)
	}
	return entity, nil
}

// RequestTransition moves an entity to a new status on behalf of the actor.
func (e *Engine) RequestTransition(ctx context.Context, ref Ref, actor Actor, to string, notes string) (*Result, error) {
	var result *Result
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := e.lock(tx, ref)
		if err != nil {
			return err
		}
		result, err = e.apply(tx, entity, actor, to, notes, true)
		if err != nil {
			return err
		}
		return e.settlePayment(tx, result, actor, notes)
	})
	if err != nil {
		e.rejected(ref.Kind, err)
		return nil, err
	}
	e.finish(ctx, result)
	return result, nil
}

func (e *Engine) apply(tx *gorm.DB, entity Entity, actor Actor, to string, notes string, authorize bool) (*Result, error) {
	kind := entity.EntityKind()
	from := entity.CurrentStatus()
	if !CanTransition(kind, from, to) {
		return nil, fmt.Errorf("%w: %s cannot move from %q to %q", ErrInvalidTransition, kind, from, to)
	}
	if authorize {
		if err := Authorize(actor, entity, to); err != nil {
			return nil, err
		}
	}

	now := e.now()
	updates := map[string]any{"status": to, "updated_at": now}
	if err := e.guard(tx, entity, to, notes, updates); err != nil {
		return nil, err
	}
	if err := tx.Model(entity).Updates(updates).Error; err != nil {
		log.Printf("Error updating %s %d: %s\n", kind, entity.EntityID(), err.Error())
		return nil, err
	}
	for _, column := range MilestoneColumns(kind, to) {
		if err := tx.Model(entity).Where(column + " IS NULL").UpdateColumn(column, now).Error; err != nil {
			return nil, err
		}
	}
	if from == InitialStatus(kind) && entity.ReferenceValue() == nil {
		if _, err := e.numbers.Assign(tx, entity); err != nil {
			return nil, err
		}
	}

	entry := models.HistoryEntry{
		EntityKind:    kind,
		EntityID:      entity.EntityID(),
		Action:        types.HISTORY_STATUS_CHANGED,
		OldStatus:     from,
		NewStatus:     to,
		Notes:         notes,
		PerformedByID: actor.UserID,
		PerformedAt:   now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		log.Printf("Error writing history for %s %d: %s\n", kind, entity.EntityID(), err.Error())
		return nil, err
	}

	fresh, err := e.reload(tx, RefOf(entity))
	if err != nil {
		return nil, err
	}
	owner := fresh.OwnerID()
	return &Result{
		Entity:  fresh,
		History: &entry,
		event: &notifications.Event{
			Type:      types.NOTIFICATION_STATUS_CHANGE,
			Kind:      kind,
			EntityID:  fresh.EntityID(),
			OldStatus: from,
			NewStatus: to,
			Notes:     notes,
			ClientID:  &owner,
			Entity:    fresh,
		},
	}, nil
}

// guard runs the per-kind checks and adds the extra columns a transition writes.
func (e *Engine) guard(tx *gorm.DB, entity Entity, to string, notes string, updates map[string]any) error {
	switch ent := entity.(type) {
	case *models.VisaApplication:
		switch types.VisaStatus(to) {
		case types.VISA_SUBMITTED:
			return e.guardSubmission(tx, ent)
		case types.VISA_REJECTED:
			updates["rejection_reason"] = notes
		}
	case *models.TravelBooking:
		if types.BookingStatus(to) == types.BOOKING_CANCELLED {
			reason := strings.TrimSpace(notes)
			if ent.Status == types.BOOKING_PENDING_PAYMENT && reason == "" {
				return fmt.Errorf("%w: a cancellation reason is required", ErrValidation)
			}
			if reason != "" {
				updates["cancellation_reason"] = reason
			}
		}
	case *models.Payment:
		if types.PaymentStatus(to) == types.PAYMENT_FAILED && notes != "" {
			updates["failure_reason"] = notes
		}
	}
	return nil
}

func (e *Engine) guardSubmission(tx *gorm.DB, app *models.VisaApplication) error {
	if app.VisaTypeID == nil {
		return fmt.Errorf("%w: a visa type is required before submission", ErrValidation)
	}
	required, docs, err := LoadDocuments(tx, app)
	if err != nil {
		return err
	}
	if missing := MissingMandatory(required, docs); len(missing) > 0 {
		return &IncompleteDocumentsError{Missing: missing}
	}
	return nil
}

// AssignAgent is restricted to admins.
func (e *Engine) AssignAgent(ctx context.Context, ref Ref, actor Actor, agentID uint) (*Result, error) {
	if actor.Role != types.ROLE_ADMIN {
		err := fmt.Errorf("%w: only admins can assign agents", ErrPermissionDenied)
		e.rejected(ref.Kind, err)
		return nil, err
	}
	return e.assign(ctx, ref, actor, agentID)
}

// SelfAssign lets an agent take an entity.
func (e *Engine) SelfAssign(ctx context.Context, ref Ref, actor Actor) (*Result, error) {
	if actor.Role != types.ROLE_AGENT || actor.UserID == nil {
		err := fmt.Errorf("%w: only agents can assign themselves", ErrPermissionDenied)
		e.rejected(ref.Kind, err)
		return nil, err
	}
	return e.assign(ctx, ref, actor, *actor.UserID)
}

func (e *Engine) assign(ctx context.Context, ref Ref, actor Actor, agentID uint) (*Result, error) {
	var result *Result
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agent models.User
		if err := tx.First(&agent, agentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, agentID)
			}
			return err
		}
		if agent.Role != types.ROLE_AGENT {
			return fmt.Errorf("%w: user %d is not an agent", ErrValidation, agentID)
		}
		entity, err := e.lock(tx, ref)
		if err != nil {
			return err
		}

		now := e.now()
		if err := tx.Model(entity).Updates(map[string]any{"assigned_agent_id": agent.ID, "updated_at": now}).Error; err != nil {
			log.Printf("Error assigning agent to %s %d: %s\n", ref.Kind, ref.ID, err.Error())
			return err
		}
		status := entity.CurrentStatus()
		entry := models.HistoryEntry{
			EntityKind:    ref.Kind,
			EntityID:      ref.ID,
			Action:        types.HISTORY_ASSIGNED,
			OldStatus:     status,
			NewStatus:     status,
			Notes:         fmt.Sprintf("Agent assigné: %s", agent.FullName()),
			PerformedByID: actor.UserID,
			PerformedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		fresh, err := e.reload(tx, ref)
		if err != nil {
			return err
		}
		result = &Result{
			Entity:  fresh,
			History: &entry,
			event: &notifications.Event{
				Type:      types.NOTIFICATION_ASSIGNMENT,
				Kind:      ref.Kind,
				EntityID:  ref.ID,
				OldStatus: status,
				NewStatus: status,
				UserID:    &agent.ID,
				Entity:    fresh,
				Agent:     &agent,
			},
		}
		return nil
	})
	if err != nil {
		e.rejected(ref.Kind, err)
		return nil, err
	}
	e.finish(ctx, result)
	return result, nil
}

// ExpireDrafts moves visa drafts untouched since cutoff to expired.
func (e *Engine) ExpireDrafts(ctx context.Context, cutoff time.Time) (int, int, error) {
	var ids []uint
	err := e.db.WithContext(ctx).Model(&models.VisaApplication{}).
		Where("status = ? AND updated_at < ?", types.VISA_DRAFT, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, 0, err
	}
	processed, failed := 0, 0
	for _, id := range ids {
		ref := Ref{Kind: types.KIND_VISA_APPLICATION, ID: id}
		if _, err := e.RequestTransition(ctx, ref, SystemActor(), string(types.VISA_EXPIRED), "Brouillon expiré automatiquement"); err != nil {
			log.Printf("Failed to expire visa application %d: %s\n", id, err.Error())
			failed++
			continue
		}
		processed++
	}
	return processed, failed, nil
}

// finish records metrics and dispatches notifications for a committed result.
func (e *Engine) finish(ctx context.Context, result *Result) {
	if result == nil {
		return
	}
	if result.History != nil && result.History.Action == types.HISTORY_STATUS_CHANGED {
		metrics.Transitions.WithLabelValues(string(result.History.EntityKind), result.History.OldStatus, result.History.NewStatus).Inc()
	}
	if result.event != nil && e.notifier != nil {
		notification, err := e.notifier.Dispatch(ctx, *result.event)
		if err != nil {
			err = fmt.Errorf("%w: %s", ErrDispatch, err.Error())
			log.Printf("Failed to notify %s %d: %s\n", result.event.Kind, result.event.EntityID, err.Error())
		}
		result.Notification = notification
	}
	for _, related := range result.Related {
		e.finish(ctx, related)
	}
}

func (e *Engine) rejected(kind types.EntityKind, err error) {
	reason := "error"
	switch {
	case errors.Is(err, ErrInvalidTransition):
		reason = "invalid_transition"
	case errors.Is(err, ErrPermissionDenied):
		reason = "permission_denied"
	case errors.Is(err, ErrIncompleteDocuments):
		reason = "incomplete_documents"
	case errors.Is(err, ErrValidation):
		reason = "validation"
	case errors.Is(err, ErrNotFound):
		reason = "not_found"
	}
	metrics.TransitionFailures.WithLabelValues(string(kind), reason).Inc()
}
