package lifecycle

import (
	"errors"
	"gsc/src/models"
	"gsc/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, kind := range Kinds() {
		for _, status := range Statuses(kind) {
			if !IsTerminal(kind, status) {
				continue
			}
			assert.Empty(t, AllowedTransitions(kind, status), "%s %s", kind, status)
		}
	}
}

func TestEdgesStayInsideTheKind(t *testing.T) {
	for _, kind := range Kinds() {
		assert.True(t, IsValid(kind, InitialStatus(kind)), kind)
		for _, from := range Statuses(kind) {
			for _, to := range AllowedTransitions(kind, from) {
				assert.True(t, IsValid(kind, to), "%s: %s -> %s", kind, from, to)
				assert.NotEqual(t, from, to)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		kind types.EntityKind
		from string
		to   string
		want bool
	}{
		{types.KIND_VISA_APPLICATION, "draft", "submitted", true},
		{types.KIND_VISA_APPLICATION, "draft", "approved", false},
		{types.KIND_VISA_APPLICATION, "draft", "draft", false},
		{types.KIND_VISA_APPLICATION, "under_review", "interview_required", true},
		{types.KIND_VISA_APPLICATION, "interview_required", "approved", true},
		{types.KIND_VISA_APPLICATION, "interview_required", "rejected", true},
		{types.KIND_VISA_APPLICATION, "delivered", "cancelled", true},
		{types.KIND_VISA_APPLICATION, "rejected", "under_review", false},
		{types.KIND_VISA_APPLICATION, "completed", "cancelled", false},
		{types.KIND_VISA_APPLICATION, "draft", "bogus", false},
		{types.KIND_TRAVEL_BOOKING, "draft", "pending_payment", true},
		{types.KIND_TRAVEL_BOOKING, "processing", "pending_agent_validation", true},
		{types.KIND_TRAVEL_BOOKING, "processing", "pending_payment", true},
		{types.KIND_TRAVEL_BOOKING, "confirmed", "cancelled", false},
		{types.KIND_PAYMENT, "pending", "completed", false},
		{types.KIND_PAYMENT, "processing", "refunded", true},
		{types.KIND_CURRENCY_EXCHANGE, "pending", "processing", true},
		{types.KIND_CURRENCY_EXCHANGE, "pending", "completed", false},
		{"unknown", "draft", "submitted", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.kind, c.from, c.to), "%s: %s -> %s", c.kind, c.from, c.to)
	}
}

func TestNonTerminalVisaStatusesCanBeCancelledOrExpire(t *testing.T) {
	kind := types.KIND_VISA_APPLICATION
	for _, status := range Statuses(kind) {
		if IsTerminal(kind, status) {
			continue
		}
		assert.True(t, CanTransition(kind, status, string(types.VISA_CANCELLED)), status)
		assert.True(t, CanTransition(kind, status, string(types.VISA_EXPIRED)), status)
	}
}

func TestStatusesReturnsACopy(t *testing.T) {
	statuses := Statuses(types.KIND_PAYMENT)
	statuses[0] = "mutated"
	assert.Equal(t, "pending", Statuses(types.KIND_PAYMENT)[0])
	assert.Nil(t, Statuses("unknown"))
	assert.Equal(t, "", InitialStatus("unknown"))
}

func TestAllowedRoles(t *testing.T) {
	assert.ElementsMatch(t, anyone, AllowedRoles(types.KIND_VISA_APPLICATION, "draft", "submitted"))
	assert.ElementsMatch(t, staff, AllowedRoles(types.KIND_VISA_APPLICATION, "submitted", "payment_pending"))
	assert.ElementsMatch(t, ownerOnly, AllowedRoles(types.KIND_TRAVEL_BOOKING, "draft", "cancelled"))
	assert.ElementsMatch(t, anyone, AllowedRoles(types.KIND_PAYMENT, "pending", "processing"))
	assert.ElementsMatch(t, staff, AllowedRoles(types.KIND_PAYMENT, "processing", "completed"))
}

func TestAuthorize(t *testing.T) {
	clientID, otherID, userID := uint(1), uint(2), uint(9)
	app := &models.VisaApplication{ID: 5, ClientID: clientID, Status: types.VISA_DRAFT}
	owner := Actor{UserID: &userID, Role: types.ROLE_CLIENT, ClientID: &clientID}
	stranger := Actor{UserID: &userID, Role: types.ROLE_CLIENT, ClientID: &otherID}
	agent := Actor{UserID: &userID, Role: types.ROLE_AGENT}

	assert.NoError(t, Authorize(owner, app, "submitted"))
	assert.True(t, errors.Is(Authorize(stranger, app, "submitted"), ErrPermissionDenied))
	assert.NoError(t, Authorize(agent, app, "submitted"))

	app.Status = types.VISA_SUBMITTED
	assert.True(t, errors.Is(Authorize(owner, app, "payment_pending"), ErrPermissionDenied))
	assert.NoError(t, Authorize(agent, app, "payment_pending"))

	booking := &models.TravelBooking{ID: 3, ClientID: clientID, Status: types.BOOKING_DRAFT}
	assert.NoError(t, Authorize(owner, booking, "cancelled"))
	assert.True(t, errors.Is(Authorize(agent, booking, "cancelled"), ErrPermissionDenied))
}

func TestCanView(t *testing.T) {
	clientID, otherID := uint(1), uint(2)
	app := &models.VisaApplication{ID: 5, ClientID: clientID}

	assert.True(t, CanView(Actor{Role: types.ROLE_CLIENT, ClientID: &clientID}, app))
	assert.False(t, CanView(Actor{Role: types.ROLE_CLIENT, ClientID: &otherID}, app))
	assert.False(t, CanView(Actor{Role: types.ROLE_CLIENT}, app))
	assert.True(t, CanView(Actor{Role: types.ROLE_AGENT}, app))
	assert.True(t, CanView(SystemActor(), app))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, HTTPStatus(nil))
	assert.Equal(t, 404, HTTPStatus(ErrNotFound))
	assert.Equal(t, 403, HTTPStatus(ErrPermissionDenied))
	assert.Equal(t, 400, HTTPStatus(ErrInvalidTransition))
	assert.Equal(t, 400, HTTPStatus(&IncompleteDocumentsError{}))
	assert.Equal(t, 500, HTTPStatus(errors.New("boom")))
}
