package lifecycle

import (
	"context"
	"errors"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"gsc/src/utils"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type failingNotifier struct{}

func (failingNotifier) Dispatch(ctx context.Context, ev notifications.Event) (*models.Notification, error) {
	return nil, errors.New("smtp unavailable")
}

type EngineTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	f        *fixture
	notifier *recordingNotifier
	engine   *Engine
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = newTestDB(s.T())
	s.f = newFixture(s.T(), s.db)
	s.notifier = &recordingNotifier{}
	s.engine = NewEngine(s.db, s.notifier)
}

func (s *EngineTestSuite) draft() *models.VisaApplication {
	app, err := s.engine.CreateVisaApplication(s.ctx, s.f.clientActor(), &models.VisaApplication{VisaTypeID: &s.f.visaType.ID})
	s.Require().NoError(err)
	return app
}

func (s *EngineTestSuite) submitted() *models.VisaApplication {
	app := s.draft()
	provide(s.T(), s.db, app, s.f.required[0], s.f.required[1])
	result, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_SUBMITTED), "")
	s.Require().NoError(err)
	return result.Entity.(*models.VisaApplication)
}

func (s *EngineTestSuite) advance(e Entity, actor Actor, statuses ...string) Entity {
	for _, status := range statuses {
		result, err := s.engine.RequestTransition(s.ctx, RefOf(e), actor, status, "")
		s.Require().NoError(err, status)
		e = result.Entity
	}
	return e
}

func (s *EngineTestSuite) booking() *models.TravelBooking {
	booking, err := s.engine.CreateTravelBooking(s.ctx, s.f.clientActor(), &models.TravelBooking{
		TripType:      "one_way",
		DepartureCity: "Douala",
		Destination:   "Paris",
		DepartureDate: time.Now().AddDate(0, 1, 0),
		Price:         decimal.NewFromInt(450000),
	})
	s.Require().NoError(err)
	return booking
}

func (s *EngineTestSuite) awaitingPayment() *models.TravelBooking {
	return s.advance(s.booking(), s.f.clientActor(), string(types.BOOKING_PENDING_PAYMENT)).(*models.TravelBooking)
}

func (s *EngineTestSuite) payment(actor Actor, p *models.Payment) *models.Payment {
	if p.Amount.IsZero() {
		p.Amount = decimal.NewFromInt(450000)
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = "cash"
	}
	result, err := s.engine.CreatePayment(s.ctx, actor, p)
	s.Require().NoError(err)
	return result.Entity.(*models.Payment)
}

func (s *EngineTestSuite) history(e Entity) []models.HistoryEntry {
	entries, err := models.ListHistory(s.db, e.EntityKind(), e.EntityID())
	s.Require().NoError(err)
	return entries
}

func (s *EngineTestSuite) visa(id uint) *models.VisaApplication {
	var app models.VisaApplication
	s.Require().NoError(s.db.First(&app, id).Error)
	return &app
}

func (s *EngineTestSuite) TestCreateDraft() {
	app := s.draft()
	s.Equal(types.VISA_DRAFT, app.Status)
	s.Nil(app.ApplicationNumber)
	s.Equal("normal", app.Priority)
	s.Equal(s.f.client.ID, app.ClientID)
	s.Empty(s.history(app))
}

func (s *EngineTestSuite) TestCreateOnBehalfOfClient() {
	_, err := s.engine.CreateVisaApplication(s.ctx, s.f.agentActor(), &models.VisaApplication{})
	s.ErrorIs(err, ErrValidation)

	_, err = s.engine.CreateVisaApplication(s.ctx, s.f.clientActor(), &models.VisaApplication{ClientID: s.f.other.ID})
	s.ErrorIs(err, ErrPermissionDenied)

	_, err = s.engine.CreateVisaApplication(s.ctx, s.f.agentActor(), &models.VisaApplication{ClientID: 9999})
	s.ErrorIs(err, ErrNotFound)

	app, err := s.engine.CreateVisaApplication(s.ctx, s.f.agentActor(), &models.VisaApplication{ClientID: s.f.other.ID})
	s.Require().NoError(err)
	s.Equal(s.f.other.ID, app.ClientID)
}

func (s *EngineTestSuite) TestSubmitWithoutMandatoryDocuments() {
	app := s.draft()
	provide(s.T(), s.db, app, s.f.required[0])

	_, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_SUBMITTED), "")
	s.ErrorIs(err, ErrIncompleteDocuments)
	var incomplete *IncompleteDocumentsError
	s.Require().ErrorAs(err, &incomplete)
	s.Require().Len(incomplete.Missing, 1)
	s.Equal(s.f.required[1].ID, incomplete.Missing[0].ID)

	s.Equal(types.VISA_DRAFT, s.visa(app.ID).Status)
	s.Nil(s.visa(app.ID).ApplicationNumber)
	s.Empty(s.history(app))
	s.Empty(s.notifier.Events())
}

func (s *EngineTestSuite) TestSubmitWithoutVisaType() {
	app, err := s.engine.CreateVisaApplication(s.ctx, s.f.clientActor(), &models.VisaApplication{})
	s.Require().NoError(err)
	_, err = s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_SUBMITTED), "")
	s.ErrorIs(err, ErrValidation)
}

func (s *EngineTestSuite) TestSubmit() {
	app := s.submitted()

	s.Equal(types.VISA_SUBMITTED, app.Status)
	s.Require().NotNil(app.ApplicationNumber)
	s.Regexp(`^VA-[0-9A-F]{8}$`, *app.ApplicationNumber)
	s.NotNil(app.SubmittedAt)
	s.NotNil(app.Client)
	s.Require().NotNil(app.VisaType)
	s.Equal("France", app.VisaType.Country.Name)

	entries := s.history(app)
	s.Require().Len(entries, 1)
	s.Equal(types.HISTORY_STATUS_CHANGED, entries[0].Action)
	s.Equal("draft", entries[0].OldStatus)
	s.Equal("submitted", entries[0].NewStatus)
	s.Equal(&s.f.owner.ID, entries[0].PerformedByID)

	events := s.notifier.Events()
	s.Require().Len(events, 1)
	s.Equal(types.NOTIFICATION_STATUS_CHANGE, events[0].Type)
	s.Equal(s.f.client.ID, *events[0].ClientID)
	s.Nil(events[0].UserID)
}

func (s *EngineTestSuite) TestNumberSurvivesLaterTransitions() {
	app := s.submitted()
	number := *app.ApplicationNumber
	next := s.advance(app, s.f.agentActor(), string(types.VISA_PAYMENT_PENDING)).(*models.VisaApplication)
	s.Equal(number, *next.ApplicationNumber)
}

func (s *EngineTestSuite) TestInvalidTransition() {
	app := s.draft()
	_, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.adminActor(), string(types.VISA_APPROVED), "")
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.engine.RequestTransition(s.ctx, RefOf(app), s.f.adminActor(), "bogus", "")
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.engine.RequestTransition(s.ctx, Ref{Kind: types.KIND_VISA_APPLICATION, ID: 9999}, s.f.adminActor(), string(types.VISA_SUBMITTED), "")
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestClientCannotUseStaffEdges() {
	app := s.submitted()
	_, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_PAYMENT_PENDING), "")
	s.ErrorIs(err, ErrPermissionDenied)
	s.Equal(types.VISA_SUBMITTED, s.visa(app.ID).Status)

	s.advance(app, s.f.agentActor(), string(types.VISA_PAYMENT_PENDING))
}

func (s *EngineTestSuite) TestOtherClientIsLockedOut() {
	app := s.draft()
	stranger := Actor{UserID: &s.f.owner.ID, Role: types.ROLE_CLIENT, ClientID: &s.f.other.ID}

	_, err := s.engine.Load(s.ctx, RefOf(app), stranger)
	s.ErrorIs(err, ErrPermissionDenied)
	_, err = s.engine.RequestTransition(s.ctx, RefOf(app), stranger, string(types.VISA_CANCELLED), "")
	s.ErrorIs(err, ErrPermissionDenied)

	loaded, err := s.engine.Load(s.ctx, RefOf(app), s.f.clientActor())
	s.Require().NoError(err)
	s.Equal(app.ID, loaded.EntityID())
}

func (s *EngineTestSuite) TestRejectionStoresReason() {
	app := s.advance(s.submitted(), s.f.agentActor(),
		string(types.VISA_PAYMENT_PENDING),
		string(types.VISA_PAYMENT_RECEIVED),
		string(types.VISA_UNDER_REVIEW),
		string(types.VISA_INTERVIEW_REQUIRED),
	)
	result, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.agentActor(), string(types.VISA_REJECTED), "Justificatifs de ressources insuffisants")
	s.Require().NoError(err)

	rejected := result.Entity.(*models.VisaApplication)
	s.Equal("Justificatifs de ressources insuffisants", rejected.RejectionReason)
	s.NotNil(rejected.RejectedAt)
	s.NotNil(rejected.ReviewedAt)
	s.NotNil(rejected.UnderReviewAt)
	s.Nil(rejected.ApprovedAt)

	_, err = s.engine.RequestTransition(s.ctx, RefOf(app), s.f.adminActor(), string(types.VISA_CANCELLED), "")
	s.ErrorIs(err, ErrInvalidTransition)
	s.Len(s.history(app), 6)
}

func (s *EngineTestSuite) TestHistoryIsImmutable() {
	app := s.submitted()
	entry := s.history(app)[0]
	s.ErrorIs(s.db.Model(&entry).Update("notes", "edited").Error, models.ErrHistoryImmutable)
	s.ErrorIs(s.db.Delete(&entry).Error, models.ErrHistoryImmutable)
}

func (s *EngineTestSuite) TestDispatchFailureKeepsTransition() {
	s.engine.notifier = failingNotifier{}
	app := s.submitted()
	s.Equal(types.VISA_SUBMITTED, app.Status)
	s.Len(s.history(app), 1)
}

func (s *EngineTestSuite) TestBookingPaymentCascade() {
	booking := s.awaitingPayment()
	s.Require().NotNil(booking.Reference)
	s.Regexp(`^TB-[0-9A-F]{8}$`, *booking.Reference)
	s.NotNil(booking.SubmittedAt)

	p := s.payment(s.f.clientActor(), &models.Payment{TravelBookingID: &booking.ID, PaymentType: "ticket"})
	s.Equal(types.PAYMENT_PENDING, p.Status)
	s.Require().NotNil(p.Reference)
	s.Regexp(`^PAY-[0-9A-F]{8}$`, *p.Reference)
	s.Empty(s.history(p), "creation is not a transition")

	result, err := s.engine.ProcessPayment(s.ctx, p.ID, s.f.clientActor())
	s.Require().NoError(err)
	s.Equal(types.PAYMENT_PROCESSING, result.Entity.(*models.Payment).Status)
	s.Require().Len(result.Related, 1)
	s.Equal(types.BOOKING_PROCESSING, result.Related[0].Entity.(*models.TravelBooking).Status)

	_, err = s.engine.ApprovePayment(s.ctx, p.ID, s.f.clientActor())
	s.ErrorIs(err, ErrPermissionDenied)

	result, err = s.engine.ApprovePayment(s.ctx, p.ID, s.f.agentActor())
	s.Require().NoError(err)
	paid := result.Entity.(*models.Payment)
	s.Equal(types.PAYMENT_COMPLETED, paid.Status)
	s.NotNil(paid.CompletedAt)
	s.Require().Len(result.Related, 1)
	validated := result.Related[0].Entity.(*models.TravelBooking)
	s.Equal(types.BOOKING_PENDING_AGENT_VALIDATION, validated.Status)
	s.NotNil(validated.PaymentValidatedAt)
	s.Contains(result.Related[0].History.Notes, *p.Reference)

	// booking submission, payment creation, then two moves per settlement step
	s.Len(s.notifier.Events(), 6)
}

func (s *EngineTestSuite) TestVisaPaymentCascade() {
	app := s.advance(s.submitted(), s.f.agentActor(), string(types.VISA_PAYMENT_PENDING))
	p := s.payment(s.f.agentActor(), &models.Payment{ClientID: s.f.client.ID, VisaApplicationID: utils.Ptr(app.EntityID()), PaymentType: "visa_fee"})

	_, err := s.engine.ProcessPayment(s.ctx, p.ID, s.f.agentActor())
	s.Require().NoError(err)
	result, err := s.engine.ApprovePayment(s.ctx, p.ID, s.f.agentActor())
	s.Require().NoError(err)
	s.Require().Len(result.Related, 1)

	paid := s.visa(app.EntityID())
	s.Equal(types.VISA_PAYMENT_RECEIVED, paid.Status)
	s.NotNil(paid.PaymentReceivedAt)
}

func (s *EngineTestSuite) TestPaymentForAnotherClientsBooking() {
	booking := s.awaitingPayment()
	_, err := s.engine.CreatePayment(s.ctx, s.f.agentActor(), &models.Payment{
		ClientID:        s.f.other.ID,
		TravelBookingID: &booking.ID,
		Amount:          decimal.NewFromInt(10),
	})
	s.ErrorIs(err, ErrValidation)

	_, err = s.engine.CreatePayment(s.ctx, s.f.clientActor(), &models.Payment{Amount: decimal.Zero})
	s.ErrorIs(err, ErrValidation)
}

func (s *EngineTestSuite) TestRejectPayment() {
	booking := s.awaitingPayment()
	p := s.payment(s.f.clientActor(), &models.Payment{TravelBookingID: &booking.ID})
	_, err := s.engine.ProcessPayment(s.ctx, p.ID, s.f.clientActor())
	s.Require().NoError(err)

	_, err = s.engine.RejectPayment(s.ctx, p.ID, s.f.agentActor(), "  ")
	s.ErrorIs(err, ErrValidation)

	result, err := s.engine.RejectPayment(s.ctx, p.ID, s.f.agentActor(), "Virement introuvable")
	s.Require().NoError(err)
	failed := result.Entity.(*models.Payment)
	s.Equal(types.PAYMENT_FAILED, failed.Status)
	s.Equal("Virement introuvable", failed.FailureReason)
	s.NotNil(failed.FailedAt)
	s.Require().Len(result.Related, 1)
	s.Equal(types.BOOKING_PENDING_PAYMENT, result.Related[0].Entity.(*models.TravelBooking).Status)
}

func (s *EngineTestSuite) TestGenericPaymentTransitionsMoveTheBooking() {
	booking := s.awaitingPayment()
	p := s.payment(s.f.clientActor(), &models.Payment{TravelBookingID: &booking.ID})
	ref := RefOf(p)

	result, err := s.engine.RequestTransition(s.ctx, ref, s.f.clientActor(), string(types.PAYMENT_PROCESSING), "")
	s.Require().NoError(err)
	s.Require().Len(result.Related, 1)
	s.Equal(types.BOOKING_PROCESSING, result.Related[0].Entity.(*models.TravelBooking).Status)

	result, err = s.engine.RequestTransition(s.ctx, ref, s.f.agentActor(), string(types.PAYMENT_COMPLETED), "")
	s.Require().NoError(err)
	s.Require().Len(result.Related, 1)
	s.Equal(types.BOOKING_PENDING_AGENT_VALIDATION, result.Related[0].Entity.(*models.TravelBooking).Status)

	var stored models.TravelBooking
	s.Require().NoError(s.db.First(&stored, booking.ID).Error)
	s.Equal(types.BOOKING_PENDING_AGENT_VALIDATION, stored.Status)
	s.Len(s.history(&stored), 3)
}

func (s *EngineTestSuite) TestFailedPaymentReroutesBookingFromAnyEntryPoint() {
	booking := s.awaitingPayment()
	p := s.payment(s.f.clientActor(), &models.Payment{TravelBookingID: &booking.ID})
	_, err := s.engine.ProcessPayment(s.ctx, p.ID, s.f.clientActor())
	s.Require().NoError(err)

	result, err := s.engine.RequestTransition(s.ctx, RefOf(p), s.f.agentActor(), string(types.PAYMENT_FAILED), "Fonds insuffisants")
	s.Require().NoError(err)
	s.Equal("Fonds insuffisants", result.Entity.(*models.Payment).FailureReason)
	s.Require().Len(result.Related, 1)
	rerouted := result.Related[0]
	s.Equal(types.BOOKING_PENDING_PAYMENT, rerouted.Entity.(*models.TravelBooking).Status)
	s.Contains(rerouted.History.Notes, "Fonds insuffisants")

	// the booking can be paid again
	retry := s.payment(s.f.clientActor(), &models.Payment{TravelBookingID: &booking.ID})
	result, err = s.engine.ProcessPayment(s.ctx, retry.ID, s.f.clientActor())
	s.Require().NoError(err)
	s.Require().Len(result.Related, 1)
	s.Equal(types.BOOKING_PROCESSING, result.Related[0].Entity.(*models.TravelBooking).Status)
}

func (s *EngineTestSuite) TestClientCancelsOnlyDrafts() {
	app := s.submitted()
	_, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_CANCELLED), "")
	s.ErrorIs(err, ErrPermissionDenied)
	s.Equal(types.VISA_SUBMITTED, s.visa(app.ID).Status)

	draft := s.draft()
	result, err := s.engine.RequestTransition(s.ctx, RefOf(draft), s.f.clientActor(), string(types.VISA_CANCELLED), "")
	s.Require().NoError(err)
	s.Equal(types.VISA_CANCELLED, result.Entity.(*models.VisaApplication).Status)
}

func (s *EngineTestSuite) TestBookingCancellation() {
	booking := s.awaitingPayment()

	_, err := s.engine.RequestTransition(s.ctx, RefOf(booking), s.f.agentActor(), string(types.BOOKING_CANCELLED), "Annulé")
	s.ErrorIs(err, ErrPermissionDenied)

	_, err = s.engine.RequestTransition(s.ctx, RefOf(booking), s.f.clientActor(), string(types.BOOKING_CANCELLED), " ")
	s.ErrorIs(err, ErrValidation)

	result, err := s.engine.RequestTransition(s.ctx, RefOf(booking), s.f.clientActor(), string(types.BOOKING_CANCELLED), "Changement de programme")
	s.Require().NoError(err)
	cancelled := result.Entity.(*models.TravelBooking)
	s.Equal(types.BOOKING_CANCELLED, cancelled.Status)
	s.Equal("Changement de programme", cancelled.CancellationReason)
	s.NotNil(cancelled.CancelledAt)
}

func (s *EngineTestSuite) TestDraftBookingCancelsWithoutReason() {
	booking := s.booking()
	result, err := s.engine.RequestTransition(s.ctx, RefOf(booking), s.f.clientActor(), string(types.BOOKING_CANCELLED), "")
	s.Require().NoError(err)
	s.NotNil(result.Entity.(*models.TravelBooking).CancelledAt)
	s.Len(s.history(booking), 1)
}

func (s *EngineTestSuite) TestAssignAgent() {
	app := s.submitted()

	_, err := s.engine.AssignAgent(s.ctx, RefOf(app), s.f.agentActor(), s.f.agent.ID)
	s.ErrorIs(err, ErrPermissionDenied)
	_, err = s.engine.AssignAgent(s.ctx, RefOf(app), s.f.adminActor(), s.f.admin.ID)
	s.ErrorIs(err, ErrValidation)
	_, err = s.engine.AssignAgent(s.ctx, RefOf(app), s.f.adminActor(), 9999)
	s.ErrorIs(err, ErrNotFound)

	result, err := s.engine.AssignAgent(s.ctx, RefOf(app), s.f.adminActor(), s.f.agent.ID)
	s.Require().NoError(err)
	assigned := result.Entity.(*models.VisaApplication)
	s.Equal(&s.f.agent.ID, assigned.AssignedAgentID)
	s.Equal(types.VISA_SUBMITTED, assigned.Status)

	entries := s.history(app)
	s.Require().Len(entries, 2)
	s.Equal(types.HISTORY_ASSIGNED, entries[1].Action)
	s.Equal(entries[1].OldStatus, entries[1].NewStatus)

	events := s.notifier.Events()
	last := events[len(events)-1]
	s.Equal(types.NOTIFICATION_ASSIGNMENT, last.Type)
	s.Equal(s.f.agent.ID, *last.UserID)
	s.Nil(last.ClientID)
}

func (s *EngineTestSuite) TestSelfAssign() {
	app := s.submitted()
	_, err := s.engine.SelfAssign(s.ctx, RefOf(app), s.f.clientActor())
	s.ErrorIs(err, ErrPermissionDenied)
	_, err = s.engine.SelfAssign(s.ctx, RefOf(app), s.f.adminActor())
	s.ErrorIs(err, ErrPermissionDenied)

	result, err := s.engine.SelfAssign(s.ctx, RefOf(app), s.f.agentActor())
	s.Require().NoError(err)
	s.Equal(&s.f.agent.ID, result.Entity.AgentID())
}

func (s *EngineTestSuite) TestConcurrentSubmissionsHaveOneWinner() {
	app := s.draft()
	provide(s.T(), s.db, app, s.f.required[0], s.f.required[1])

	var wins, invalid atomic.Int32
	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			_, err := s.engine.RequestTransition(s.ctx, RefOf(app), s.f.clientActor(), string(types.VISA_SUBMITTED), "")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrInvalidTransition):
				invalid.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), wins.Load())
	s.Equal(int32(4), invalid.Load())
	s.Len(s.history(app), 1)
}

func (s *EngineTestSuite) TestConcurrentAssignmentsAreBothRecorded() {
	app := s.submitted()
	second := newUser(s.T(), s.db, types.ROLE_AGENT, nil)
	agents := []uint{s.f.agent.ID, second.ID}

	var g errgroup.Group
	for _, id := range agents {
		g.Go(func() error {
			_, err := s.engine.AssignAgent(s.ctx, RefOf(app), s.f.adminActor(), id)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	stored := s.visa(app.ID)
	s.Require().NotNil(stored.AssignedAgentID)
	s.Contains(agents, *stored.AssignedAgentID)
	s.Equal(types.VISA_SUBMITTED, stored.Status)
	s.Equal(app.ApplicationNumber, stored.ApplicationNumber)

	entries := s.history(app)
	s.Require().Len(entries, 3)
	s.Equal(types.HISTORY_ASSIGNED, entries[1].Action)
	s.Equal(types.HISTORY_ASSIGNED, entries[2].Action)
}

func (s *EngineTestSuite) TestExpireDrafts() {
	old := s.draft()
	recent := s.draft()
	stale := s.submitted()
	for _, id := range []uint{old.ID, stale.ID} {
		s.Require().NoError(s.db.Model(&models.VisaApplication{}).Where("id = ?", id).
			UpdateColumn("updated_at", time.Now().AddDate(0, 0, -45)).Error)
	}

	processed, failed, err := s.engine.ExpireDrafts(s.ctx, time.Now().AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Equal(1, processed)
	s.Equal(0, failed)

	s.Equal(types.VISA_EXPIRED, s.visa(old.ID).Status)
	s.Equal(types.VISA_DRAFT, s.visa(recent.ID).Status)
	s.Equal(types.VISA_SUBMITTED, s.visa(stale.ID).Status)

	entries := s.history(old)
	s.Require().Len(entries, 1)
	s.Nil(entries[0].PerformedByID)
	s.Equal("expired", entries[0].NewStatus)

	processed, _, err = s.engine.ExpireDrafts(s.ctx, time.Now().AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Zero(processed)
}

func (s *EngineTestSuite) TestExchangeReferences() {
	s.engine.numbers.now = fixedYear(2026)
	exchange := func() (*Result, error) {
		return s.engine.CreateExchange(s.ctx, s.f.clientActor(), &models.CurrencyExchangeRequest{
			FromCurrency: "EUR",
			ToCurrency:   "XAF",
			AmountSent:   decimal.NewFromInt(100),
		})
	}
	first, err := exchange()
	s.Require().NoError(err)
	second, err := exchange()
	s.Require().NoError(err)
	s.Equal("EXC2026001", *first.Entity.ReferenceValue())
	s.Equal("EXC2026002", *second.Entity.ReferenceValue())
	s.Equal(string(types.EXCHANGE_PENDING), second.Entity.CurrentStatus())

	_, err = s.engine.CreateExchange(s.ctx, s.f.clientActor(), &models.CurrencyExchangeRequest{
		FromCurrency: "EUR",
		ToCurrency:   "EUR",
		AmountSent:   decimal.NewFromInt(100),
	})
	s.ErrorIs(err, ErrValidation)
}
