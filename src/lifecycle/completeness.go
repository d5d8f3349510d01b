package lifecycle

import (
	"gsc/src/models"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"
)

const documentWeight = 20

// Report is the completeness of one application. TotalDocuments counts the
// uploaded documents, not the visa type's requirements.
type Report struct {
	Percentage         int               `json:"completion_percentage"`
	Missing            []MissingDocument `json:"missing_documents"`
	IsComplete         bool              `json:"is_complete"`
	DocumentsCompleted int               `json:"documents_completed"`
	TotalDocuments     int               `json:"total_documents"`
}

type section struct {
	name   string
	weight float64
	fields []func(a *models.VisaApplication) bool
}

func text(get func(a *models.VisaApplication) *string) func(a *models.VisaApplication) bool {
	return func(a *models.VisaApplication) bool {
		v := get(a)
		return v != nil && *v != ""
	}
}

func present[T any](get func(a *models.VisaApplication) *T) func(a *models.VisaApplication) bool {
	return func(a *models.VisaApplication) bool {
		return get(a) != nil
	}
}

// Section weights add up to 100 before documents; the total is capped after
// the document share is added.
var sections = []section{
	{"personal_info", 30, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.FirstName }),
		text(func(a *models.VisaApplication) *string { return a.LastName }),
		text(func(a *models.VisaApplication) *string { return a.Gender }),
		present(func(a *models.VisaApplication) *time.Time { return a.DateOfBirth }),
		text(func(a *models.VisaApplication) *string { return a.PlaceOfBirth }),
		text(func(a *models.VisaApplication) *string { return a.Nationality }),
		text(func(a *models.VisaApplication) *string { return a.MaritalStatus }),
	}},
	{"contact_info", 20, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.CurrentAddress }),
		text(func(a *models.VisaApplication) *string { return a.City }),
		text(func(a *models.VisaApplication) *string { return a.PostalCode }),
		present(func(a *models.VisaApplication) *uint { return a.CountryID }),
		text(func(a *models.VisaApplication) *string { return a.PhoneNumber }),
		text(func(a *models.VisaApplication) *string { return a.Email }),
	}},
	{"passport_info", 15, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.PassportNumber }),
		present(func(a *models.VisaApplication) *time.Time { return a.PassportIssueDate }),
		present(func(a *models.VisaApplication) *time.Time { return a.PassportExpiryDate }),
		present(func(a *models.VisaApplication) *uint { return a.PassportIssueCountryID }),
	}},
	{"travel_info", 15, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.PurposeOfVisit }),
		present(func(a *models.VisaApplication) *time.Time { return a.IntendedDateOfArrival }),
		present(func(a *models.VisaApplication) *time.Time { return a.IntendedDateOfDeparture }),
		present(func(a *models.VisaApplication) *int { return a.LengthOfStayDays }),
	}},
	{"employment_education", 10, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.OccupationType }),
		text(func(a *models.VisaApplication) *string { return a.Occupation }),
	}},
	{"emergency_contact", 10, []func(a *models.VisaApplication) bool{
		text(func(a *models.VisaApplication) *string { return a.EmergencyContactName }),
		text(func(a *models.VisaApplication) *string { return a.EmergencyRelationship }),
		text(func(a *models.VisaApplication) *string { return a.EmergencyPhone }),
	}},
}

// Completeness scores an application from its filled sections and the
// documents provided against its visa type's requirements.
func Completeness(app *models.VisaApplication, required []models.RequiredDocument, docs []models.ApplicationDocument) Report {
	report := Report{Missing: []MissingDocument{}}
	if app == nil || app.VisaTypeID == nil {
		return report
	}

	total := 0.0
	for _, s := range sections {
		filled := 0
		for _, f := range s.fields {
			if f(app) {
				filled++
			}
		}
		total += float64(filled) / float64(len(s.fields)) * s.weight
	}

	for _, d := range docs {
		if d.Provided() {
			report.DocumentsCompleted++
		}
	}
	report.TotalDocuments = len(docs)
	if len(required) > 0 {
		total += float64(report.DocumentsCompleted) / float64(len(required)) * documentWeight
	}
	// halves round to even
	report.Percentage = int(math.Min(100, math.RoundToEven(total)))

	report.Missing = MissingDocuments(required, docs)
	report.IsComplete = isComplete(required, report.Missing)
	return report
}

// MissingDocuments lists the required documents without a provided upload,
// in the visa type's document order.
func MissingDocuments(required []models.RequiredDocument, docs []models.ApplicationDocument) []MissingDocument {
	provided := map[uint]bool{}
	for _, d := range docs {
		if d.RequiredDocumentID != nil && d.Provided() {
			provided[*d.RequiredDocumentID] = true
		}
	}
	ordered := make([]models.RequiredDocument, len(required))
	copy(ordered, required)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].ID < ordered[j].ID
	})

	missing := []MissingDocument{}
	for _, r := range ordered {
		if provided[r.ID] {
			continue
		}
		docType := r.DocumentType
		if docType == "" {
			docType = "other"
		}
		missing = append(missing, MissingDocument{
			ID:           r.ID,
			Name:         r.Name,
			IsMandatory:  r.IsMandatory,
			DocumentType: docType,
		})
	}
	return missing
}

func MissingMandatory(required []models.RequiredDocument, docs []models.ApplicationDocument) []MissingDocument {
	mandatory := []MissingDocument{}
	for _, m := range MissingDocuments(required, docs) {
		if m.IsMandatory {
			mandatory = append(mandatory, m)
		}
	}
	return mandatory
}

// isComplete is false when the visa type defines no mandatory document.
func isComplete(required []models.RequiredDocument, missing []MissingDocument) bool {
	mandatory := 0
	for _, r := range required {
		if r.IsMandatory {
			mandatory++
		}
	}
	if mandatory == 0 {
		return false
	}
	for _, m := range missing {
		if m.IsMandatory {
			return false
		}
	}
	return true
}

// LoadDocuments fetches the required documents of the application's visa
// type and the documents uploaded against the application.
func LoadDocuments(tx *gorm.DB, app *models.VisaApplication) ([]models.RequiredDocument, []models.ApplicationDocument, error) {
	var required []models.RequiredDocument
	var docs []models.ApplicationDocument
	if app.VisaTypeID != nil {
		if err := tx.Where("visa_type_id = ?", *app.VisaTypeID).Order("position ASC, id ASC").Find(&required).Error; err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Where("application_id = ?", app.ID).Find(&docs).Error; err != nil {
		return nil, nil, err
	}
	return required, docs, nil
}

func LoadCompleteness(tx *gorm.DB, app *models.VisaApplication) (Report, error) {
	required, docs, err := LoadDocuments(tx, app)
	if err != nil {
		return Report{}, err
	}
	return Completeness(app, required, docs), nil
}
