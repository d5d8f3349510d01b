package models

import (
	"gsc/src/types"
	"time"
)

type VisaApplication struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	ApplicationNumber *string          `gorm:"uniqueIndex" json:"application_number"`
	ClientID          uint             `gorm:"not null;index" json:"client_id"`
	VisaTypeID        *uint            `json:"visa_type_id,omitempty"`
	Status            types.VisaStatus `gorm:"type:text;default:'draft';index" json:"status"`
	Priority          string           `gorm:"default:'normal'" json:"priority"`
	AssignedAgentID   *uint            `json:"assigned_agent_id,omitempty"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`

	// personal
	FirstName     *string    `json:"first_name,omitempty"`
	MiddleName    *string    `json:"middle_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	PlaceOfBirth  *string    `json:"place_of_birth,omitempty"`
	Nationality   *string    `json:"nationality,omitempty"`
	MaritalStatus *string    `json:"marital_status,omitempty"`

	// contact
	CurrentAddress *string `json:"current_address,omitempty"`
	City           *string `json:"city,omitempty"`
	PostalCode     *string `json:"postal_code,omitempty"`
	CountryID      *uint   `json:"country_id,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Email          *string `json:"email,omitempty"`

	// passport
	PassportNumber         *string    `json:"passport_number,omitempty"`
	PassportIssueDate      *time.Time `json:"passport_issue_date,omitempty"`
	PassportExpiryDate     *time.Time `json:"passport_expiry_date,omitempty"`
	PassportIssueCountryID *uint      `json:"passport_issue_country_id,omitempty"`

	// travel
	PurposeOfVisit          *string    `json:"purpose_of_visit,omitempty"`
	IntendedDateOfArrival   *time.Time `json:"intended_date_of_arrival,omitempty"`
	IntendedDateOfDeparture *time.Time `json:"intended_date_of_departure,omitempty"`
	LengthOfStayDays        *int       `json:"length_of_stay_days,omitempty"`

	OccupationType *string `json:"occupation_type,omitempty"`
	Occupation     *string `json:"occupation,omitempty"`

	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyRelationship *string `json:"emergency_relationship,omitempty"`
	EmergencyPhone        *string `json:"emergency_phone,omitempty"`

	SubmittedAt               *time.Time `json:"submitted_at,omitempty"`
	PaymentReceivedAt         *time.Time `json:"payment_received_at,omitempty"`
	UnderReviewAt             *time.Time `json:"under_review_at,omitempty"`
	AdditionalInfoRequestedAt *time.Time `json:"additional_info_requested_at,omitempty"`
	ReviewedAt                *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt                *time.Time `json:"approved_at,omitempty"`
	RejectedAt                *time.Time `json:"rejected_at,omitempty"`
	CompletedAt               *time.Time `json:"completed_at,omitempty"`

	Client        *Client               `gorm:"foreignKey:client_id" json:"client,omitempty"`
	VisaType      *VisaType             `gorm:"foreignKey:visa_type_id" json:"visa_type,omitempty"`
	AssignedAgent *User                 `gorm:"foreignKey:assigned_agent_id" json:"assigned_agent,omitempty"`
	Documents     []ApplicationDocument `gorm:"foreignKey:application_id" json:"documents,omitempty"`

	types.Timestamps
}

func (a *VisaApplication) EntityKind() types.EntityKind { return types.KIND_VISA_APPLICATION }
func (a *VisaApplication) EntityID() uint               { return a.ID }
func (a *VisaApplication) CurrentStatus() string        { return string(a.Status) }
func (a *VisaApplication) OwnerID() uint                { return a.ClientID }
func (a *VisaApplication) AgentID() *uint               { return a.AssignedAgentID }
func (a *VisaApplication) ReferenceColumn() string      { return "application_number" }
func (a *VisaApplication) ReferenceValue() *string      { return a.ApplicationNumber }

// DisplayNumber is the reference, or a placeholder for drafts that never left draft.
func (a *VisaApplication) DisplayNumber() string {
	if a.ApplicationNumber == nil {
		return "(brouillon)"
	}
	return *a.ApplicationNumber
}

type ApplicationDocument struct {
	ID                 uint                 `gorm:"primarykey" json:"id"`
	ApplicationID      uint                 `gorm:"not null;uniqueIndex:idx_application_required_document" json:"application_id"`
	RequiredDocumentID *uint                `gorm:"uniqueIndex:idx_application_required_document" json:"required_document_id,omitempty"`
	Name               string               `json:"name"`
	FileKey            string               `json:"file_key,omitempty"`
	FileName           string               `json:"file_name,omitempty"`
	ContentType        string               `json:"content_type,omitempty"`
	Status             types.DocumentStatus `gorm:"type:text;default:'pending'" json:"status"`
	ReviewNotes        string               `json:"review_notes,omitempty"`
	ReviewedByID       *uint                `json:"reviewed_by_id,omitempty"`
	ReviewedAt         *time.Time           `json:"reviewed_at,omitempty"`

	RequiredDocument *RequiredDocument `gorm:"foreignKey:required_document_id" json:"required_document,omitempty"`

	types.Timestamps
}

// Provided reports whether the document counts toward submission.
func (d *ApplicationDocument) Provided() bool {
	return d.FileKey != "" && d.Status.Provided()
}
