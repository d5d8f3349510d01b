package notifications

var statusLabels = map[string]string{
	"draft":                    "Brouillon",
	"submitted":                "Soumise",
	"payment_pending":          "En attente de paiement",
	"payment_received":         "Paiement reçu",
	"under_review":             "En cours d'examen",
	"additional_info_required": "Informations supplémentaires requises",
	"document_verification":    "Vérification des documents",
	"biometrics_required":      "Biométrie requise",
	"interview_required":       "Entretien requis",
	"approved":                 "Approuvée",
	"rejected":                 "Rejetée",
	"embassy_submitted":        "Déposée à l'ambassade",
	"visa_processing":          "Visa en cours de traitement",
	"visa_printed":             "Visa imprimé",
	"ready_for_pickup":         "Prêt pour retrait",
	"delivered":                "Remis",
	"completed":                "Terminé",
	"cancelled":                "Annulé",
	"expired":                  "Expiré",
	"pending_payment":          "En attente de paiement",
	"processing":               "En cours de traitement",
	"payment_validated":        "Paiement validé",
	"pending_agent_validation": "En attente de validation agent",
	"confirmed":                "Confirmée",
	"ticket_sent":              "Billet envoyé",
	"pending":                  "En attente",
	"failed":                   "Échoué",
	"refunded":                 "Remboursé",
}

var appointmentReasons = map[string]string{
	"document_submission": "Dépôt de documents",
	"biometrics":          "Prise de données biométriques",
	"interview":           "Entretien",
	"consultation":        "Consultation",
	"document_pickup":     "Retrait de documents",
	"other":               "Autre",
}

var appointmentLocations = map[string]string{
	"agency_douala":  "Agence de Douala",
	"agency_yaounde": "Agence de Yaoundé",
	"embassy":        "Ambassade",
	"online":         "En ligne",
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func StatusLabel(status string) string {
	return label(statusLabels, status)
}
