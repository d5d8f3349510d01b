package notifications

import (
	"gsc/src/models"
	"gsc/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func visaApplication(status types.VisaStatus) *models.VisaApplication {
	number := "VA-1F2E3D4C"
	first, last := "Awa", "Mballa"
	return &models.VisaApplication{
		ID:                4,
		ApplicationNumber: &number,
		Status:            status,
		FirstName:         &first,
		LastName:          &last,
		Client:            &models.Client{FirstName: "Awa", LastName: "Mballa"},
		VisaType: &models.VisaType{
			Name:    "Visa Touriste",
			Country: &models.Country{Name: "France"},
		},
	}
}

func TestRenderVisaStatus(t *testing.T) {
	app := visaApplication(types.VISA_UNDER_REVIEW)
	content := Render(Event{
		Type:      types.NOTIFICATION_STATUS_CHANGE,
		Kind:      types.KIND_VISA_APPLICATION,
		NewStatus: "under_review",
		Entity:    app,
	}, Recipient{Name: "Client GSC"})

	assert.Equal(t, "Demande de visa VA-1F2E3D4C", content.Title)
	assert.Equal(t, "Votre demande de visa est maintenant: En cours d'examen", content.Message)
	assert.Equal(t, "Mise à jour de votre demande de visa - VA-1F2E3D4C", content.Subject)
	assert.Contains(t, content.Body, "Cher/Chère Awa Mballa,")
	assert.Contains(t, content.Body, "pour France")
	assert.NotContains(t, content.Body, "Raison du rejet")
}

func TestRenderVisaRejection(t *testing.T) {
	app := visaApplication(types.VISA_REJECTED)
	app.RejectionReason = "Dossier incomplet"
	app.FirstName, app.LastName = nil, nil

	content := Render(Event{Type: types.NOTIFICATION_STATUS_CHANGE, NewStatus: "rejected", Entity: app}, Recipient{Name: "Awa M."})
	assert.Contains(t, content.Body, "Cher/Chère Awa M.,")
	assert.Contains(t, content.Body, "Statut actuel: Rejetée")
	assert.Contains(t, content.Body, "Raison du rejet: Dossier incomplet")
}

func TestRenderVisaAssignment(t *testing.T) {
	app := visaApplication(types.VISA_SUBMITTED)
	content := Render(Event{Type: types.NOTIFICATION_ASSIGNMENT, Entity: app}, Recipient{Name: "Paul Ngono"})

	assert.Equal(t, "Demande de visa VA-1F2E3D4C assignée", content.Title)
	assert.Equal(t, "La demande de visa VA-1F2E3D4C de Awa Mballa vous a été assignée", content.Message)
	assert.Contains(t, content.Body, "Bonjour Paul,")
	assert.Contains(t, content.Body, "Type de visa: Visa Touriste")
}

func TestRenderDraftVisa(t *testing.T) {
	app := visaApplication(types.VISA_CANCELLED)
	app.ApplicationNumber = nil
	app.VisaType = nil
	content := Render(Event{Type: types.NOTIFICATION_STATUS_CHANGE, NewStatus: "cancelled", Entity: app}, Recipient{})
	assert.Equal(t, "Demande de visa (brouillon)", content.Title)
	assert.Contains(t, content.Body, "pour -")
}

func TestRenderPaymentFailure(t *testing.T) {
	ref := "PAY-99AA88BB"
	payment := &models.Payment{Reference: &ref, Status: types.PAYMENT_FAILED, FailureReason: "Fonds insuffisants"}

	content := Render(Event{Type: types.NOTIFICATION_STATUS_CHANGE, NewStatus: "failed", Entity: payment}, Recipient{Name: "Awa Mballa"})
	assert.Equal(t, "Paiement PAY-99AA88BB", content.Title)
	assert.Equal(t, "Statut: Échoué", content.Message)
	assert.Contains(t, content.Body, "Motif: Fonds insuffisants")

	content = Render(Event{Type: types.NOTIFICATION_CREATED, NewStatus: "pending", Entity: payment}, Recipient{Name: "Awa Mballa"})
	assert.Equal(t, "Paiement PAY-99AA88BB enregistré(e)", content.Title)
	assert.Contains(t, content.Body, "Statut actuel: En attente")
}

func TestRenderAppointment(t *testing.T) {
	appt := &models.Appointment{
		Reason:            "biometrics",
		Location:          "agency_douala",
		Date:              time.Date(2026, 11, 3, 9, 30, 0, 0, time.UTC),
		RequiredDocuments: datatypes.JSON(`["Passeport","Convocation"]`),
		Client:            &models.Client{FirstName: "Awa", LastName: "Mballa"},
	}
	agent := &models.User{FirstName: "Paul", LastName: "Ngono"}

	content := Render(Event{Type: types.NOTIFICATION_APPOINTMENT, Entity: appt, Agent: agent}, Recipient{})
	assert.Equal(t, "Rendez-vous: Prise de données biométriques", content.Title)
	assert.Equal(t, "Rendez-vous le 03/11/2026 à 09:30", content.Message)
	assert.Contains(t, content.Body, "Lieu: Agence de Douala")
	assert.Contains(t, content.Body, "Agent: Paul Ngono")
	assert.Contains(t, content.Body, "- Convocation")

	appt.RequiredDocuments = nil
	appt.Location = "somewhere"
	content = Render(Event{Type: types.NOTIFICATION_APPOINTMENT, Entity: appt}, Recipient{})
	assert.Contains(t, content.Body, "Aucun document spécifique requis")
	assert.Contains(t, content.Body, "Lieu: somewhere")
	assert.Contains(t, content.Body, "Agent: -")
}

func TestRenderFallback(t *testing.T) {
	content := Render(Event{Kind: types.KIND_CURRENCY_EXCHANGE, EntityID: 8, NewStatus: "completed"}, Recipient{})
	assert.Equal(t, "Notification", content.Title)
	assert.Equal(t, "currency_exchange 8: Terminé", content.Message)
	assert.Empty(t, content.Subject)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Paiement reçu", StatusLabel("payment_received"))
	assert.Equal(t, "unknown_status", StatusLabel("unknown_status"))
}
