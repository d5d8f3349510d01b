package notifications

import (
	"fmt"
	"gsc/src/models"
	"gsc/src/types"
	"strings"
)

const signature = "L'équipe Global Service Corporation"

// Render builds the in-app and email content for an event.
func Render(ev Event, to Recipient) Content {
	switch entity := ev.Entity.(type) {
	case *models.Appointment:
		return appointmentContent(entity, ev.Agent)
	case *models.VisaApplication:
		if ev.Type == types.NOTIFICATION_ASSIGNMENT {
			return visaAssignmentContent(entity, to)
		}
		return visaStatusContent(entity, ev, to)
	case *models.TravelBooking:
		return referenceContent("réservation", "Réservation", reference(entity.Reference), ev, to, entity.CancellationReason)
	case *models.Payment:
		return referenceContent("paiement", "Paiement", reference(entity.Reference), ev, to, entity.FailureReason)
	case *models.CurrencyExchangeRequest:
		return referenceContent("demande de change", "Demande de change", reference(entity.Reference), ev, to, "")
	}
	return Content{
		Title:   "Notification",
		Message: fmt.Sprintf("%s %d: %s", ev.Kind, ev.EntityID, StatusLabel(ev.NewStatus)),
	}
}

func reference(ref *string) string {
	if ref == nil {
		return "(brouillon)"
	}
	return *ref
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func applicantName(app *models.VisaApplication, to Recipient) string {
	name := strings.TrimSpace(deref(app.FirstName) + " " + deref(app.LastName))
	if name == "" {
		return to.Name
	}
	return name
}

func destination(app *models.VisaApplication) (visaType string, country string) {
	if app.VisaType == nil {
		return "-", "-"
	}
	visaType = app.VisaType.Name
	country = "-"
	if app.VisaType.Country != nil {
		country = app.VisaType.Country.Name
	}
	return visaType, country
}

func visaStatusContent(app *models.VisaApplication, ev Event, to Recipient) Content {
	number := app.DisplayNumber()
	_, country := destination(app)
	status := StatusLabel(ev.NewStatus)

	var b strings.Builder
	fmt.Fprintf(&b, "Cher/Chère %s,\n\n", applicantName(app, to))
	fmt.Fprintf(&b, "Votre demande de visa numéro %s pour %s a été mise à jour.\n\n", number, country)
	fmt.Fprintf(&b, "Statut actuel: %s\n", status)
	if app.Status == types.VISA_REJECTED && app.RejectionReason != "" {
		fmt.Fprintf(&b, "\nRaison du rejet: %s\n", app.RejectionReason)
	}
	b.WriteString("\nPour plus d'informations, connectez-vous à votre espace client.\n\n")
	b.WriteString("Cordialement,\n" + signature)

	return Content{
		Title:   fmt.Sprintf("Demande de visa %s", number),
		Message: fmt.Sprintf("Votre demande de visa est maintenant: %s", status),
		Subject: fmt.Sprintf("Mise à jour de votre demande de visa - %s", number),
		Body:    b.String(),
	}
}

func visaAssignmentContent(app *models.VisaApplication, to Recipient) Content {
	number := app.DisplayNumber()
	visaType, country := destination(app)
	client := "-"
	if app.Client != nil {
		client = app.Client.FullName()
	}
	firstName := strings.Fields(to.Name)
	greeting := "Bonjour"
	if len(firstName) > 0 {
		greeting = "Bonjour " + firstName[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s,\n\n", greeting)
	b.WriteString("Une nouvelle demande de visa vous a été assignée:\n\n")
	fmt.Fprintf(&b, "Numéro: %s\n", number)
	fmt.Fprintf(&b, "Client: %s\n", client)
	fmt.Fprintf(&b, "Type de visa: %s\n", visaType)
	fmt.Fprintf(&b, "Pays de destination: %s\n\n", country)
	b.WriteString("Cordialement,\nSystème de gestion GSC")

	return Content{
		Title:   fmt.Sprintf("Demande de visa %s assignée", number),
		Message: fmt.Sprintf("La demande de visa %s de %s vous a été assignée", number, client),
		Subject: fmt.Sprintf("Nouvelle demande de visa assignée - %s", number),
		Body:    b.String(),
	}
}

func referenceContent(noun string, title string, ref string, ev Event, to Recipient, reason string) Content {
	status := StatusLabel(ev.NewStatus)
	var b strings.Builder
	switch ev.Type {
	case types.NOTIFICATION_ASSIGNMENT:
		fmt.Fprintf(&b, "Bonjour %s,\n\n", to.Name)
		fmt.Fprintf(&b, "Le dossier %s (%s) vous a été assigné.\n\n", ref, noun)
		b.WriteString("Cordialement,\nSystème de gestion GSC")
		return Content{
			Title:   fmt.Sprintf("%s %s assigné(e)", title, ref),
			Message: fmt.Sprintf("Le dossier %s vous a été assigné", ref),
			Subject: fmt.Sprintf("Nouveau dossier assigné - %s", ref),
			Body:    b.String(),
		}
	case types.NOTIFICATION_CREATED:
		fmt.Fprintf(&b, "Bonjour %s,\n\n", to.Name)
		fmt.Fprintf(&b, "Votre %s %s a bien été enregistré(e).\n", noun, ref)
		fmt.Fprintf(&b, "Statut actuel: %s\n\n", status)
		b.WriteString("Cordialement,\n" + signature)
		return Content{
			Title:   fmt.Sprintf("%s %s enregistré(e)", title, ref),
			Message: fmt.Sprintf("Votre %s %s a été enregistré(e)", noun, ref),
			Subject: fmt.Sprintf("%s enregistré(e) - %s", title, ref),
			Body:    b.String(),
		}
	}
	fmt.Fprintf(&b, "Bonjour %s,\n\n", to.Name)
	fmt.Fprintf(&b, "Votre %s %s a été mise à jour.\n\n", noun, ref)
	fmt.Fprintf(&b, "Statut actuel: %s\n", status)
	if reason != "" {
		fmt.Fprintf(&b, "\nMotif: %s\n", reason)
	}
	b.WriteString("\nCordialement,\n" + signature)
	return Content{
		Title:   fmt.Sprintf("%s %s", title, ref),
		Message: fmt.Sprintf("Statut: %s", status),
		Subject: fmt.Sprintf("Mise à jour de votre %s - %s", noun, ref),
		Body:    b.String(),
	}
}

func appointmentContent(appt *models.Appointment, agent *models.User) Content {
	reason := label(appointmentReasons, appt.Reason)
	agentName := "-"
	if agent != nil {
		agentName = agent.FullName()
	}
	var b strings.Builder
	name := ""
	if appt.Client != nil {
		name = appt.Client.FullName()
	}
	fmt.Fprintf(&b, "Bonjour %s,\n\n", name)
	b.WriteString("Un nouveau rendez-vous a été programmé pour vous.\n\n")
	fmt.Fprintf(&b, "Motif: %s\n", reason)
	fmt.Fprintf(&b, "Date: %s\n", appt.Date.Format("02/01/2006 à 15:04"))
	fmt.Fprintf(&b, "Lieu: %s\n", label(appointmentLocations, appt.Location))
	fmt.Fprintf(&b, "Agent: %s\n", agentName)
	if appt.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s\n", appt.Message)
	}
	b.WriteString("\nDocuments requis:\n")
	docs := appt.DocumentList()
	if len(docs) == 0 {
		b.WriteString("Aucun document spécifique requis\n")
	}
	for _, doc := range docs {
		fmt.Fprintf(&b, "- %s\n", doc)
	}
	b.WriteString("\nCordialement,\n" + signature)

	return Content{
		Title:   fmt.Sprintf("Rendez-vous: %s", reason),
		Message: fmt.Sprintf("Rendez-vous le %s", appt.Date.Format("02/01/2006 à 15:04")),
		Subject: fmt.Sprintf("Nouveau rendez-vous programmé - %s", reason),
		Body:    b.String(),
	}
}
