package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBAny struct {
	Inner any
}

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, errors.New("type assertion to []byte failed")
}

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBAny) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a.Inner)
	return string(valueString), err
}
func (a *JSONBAny) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	var inner any
	if err := json.Unmarshal(b, &inner); err != nil {
		return err
	}
	a.Inner = inner
	return nil
}

func (a JSONBAny) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Inner)
}

func (a *JSONBAny) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &a.Inner)
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateClientRequestBody struct {
	FirstName   string  `json:"prenom" binding:"required"`
	LastName    string  `json:"nom" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"telephone" binding:"required"`
	IDType      string  `json:"type_piece" binding:"required"`
	IDNumber    string  `json:"numero_piece" binding:"required"`
	DateOfBirth *string `json:"date_naissance,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Country     string  `json:"pays,omitempty"`
	UserID      *uint   `json:"user_id,omitempty"`
}

type VisaApplicationRequestBody struct {
	VisaTypeID *uint  `json:"visa_type,omitempty"`
	ClientID   *uint  `json:"client,omitempty"`
	Priority   string `json:"priority,omitempty" binding:"omitempty,oneof=low normal high urgent"`

	FirstName     *string `json:"first_name,omitempty"`
	MiddleName    *string `json:"middle_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	DateOfBirth   *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth  *string `json:"place_of_birth,omitempty"`
	Nationality   *string `json:"nationality,omitempty"`
	MaritalStatus *string `json:"marital_status,omitempty"`

	CurrentAddress *string `json:"current_address,omitempty"`
	City           *string `json:"city,omitempty"`
	PostalCode     *string `json:"postal_code,omitempty"`
	CountryID      *uint   `json:"country,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Email          *string `json:"email,omitempty" binding:"omitempty,email"`

	PassportNumber         *string `json:"passport_number,omitempty"`
	PassportIssueDate      *string `json:"passport_issue_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PassportExpiryDate     *string `json:"passport_expiry_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PassportIssueCountryID *uint   `json:"passport_issue_country,omitempty"`

	PurposeOfVisit          *string `json:"purpose_of_visit,omitempty"`
	IntendedDateOfArrival   *string `json:"intended_date_of_arrival,omitempty" binding:"omitempty,datetime=2006-01-02"`
	IntendedDateOfDeparture *string `json:"intended_date_of_departure,omitempty" binding:"omitempty,datetime=2006-01-02"`
	LengthOfStayDays        *int    `json:"length_of_stay_days,omitempty" binding:"omitempty,min=0"`

	OccupationType *string `json:"occupation_type,omitempty"`
	Occupation     *string `json:"occupation,omitempty"`

	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyRelationship *string `json:"emergency_relationship,omitempty"`
	EmergencyPhone        *string `json:"emergency_phone,omitempty"`
}

type ChangeStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes,omitempty"`
}

type CancelRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

type RejectPaymentRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type AssignAgentRequestBody struct {
	AgentID *uint `json:"agent_id,omitempty"`
}

type CreateApplicationDocumentRequestBody struct {
	RequiredDocumentID *uint  `json:"required_document,omitempty"`
	Name               string `json:"name" binding:"required"`
	FileName           string `json:"file_name" binding:"required"`
	ContentType        string `json:"content_type,omitempty"`
}

type ReviewDocumentRequestBody struct {
	Status string `json:"status" binding:"required,oneof=approved rejected revision_required"`
	Notes  string `json:"notes,omitempty"`
}

type CreateRequiredDocumentRequestBody struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	IsMandatory    bool   `json:"is_mandatory"`
	MaxFileSizeMB  uint   `json:"max_file_size_mb,omitempty"`
	AllowedFormats string `json:"allowed_formats,omitempty"`
	Position       int    `json:"position,omitempty"`
}

type PassengerRequestBody struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PassportNumber string  `json:"passport_number,omitempty"`
}

type CreateTravelBookingRequestBody struct {
	ClientID          *uint                  `json:"client,omitempty"`
	VisaApplicationID *uint                  `json:"visa_application,omitempty"`
	TripType          string                 `json:"trip_type" binding:"required,oneof=one_way round_trip"`
	DepartureCity     string                 `json:"departure_city" binding:"required"`
	Destination       string                 `json:"destination" binding:"required"`
	DepartureDate     string                 `json:"departure_date" binding:"required,datetime=2006-01-02"`
	ReturnDate        *string                `json:"return_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	TravelClass       string                 `json:"travel_class,omitempty" binding:"omitempty,oneof=economy premium_economy business first"`
	Price             decimal.Decimal        `json:"price"`
	Currency          string                 `json:"currency,omitempty" binding:"omitempty,len=3"`
	Notes             string                 `json:"notes,omitempty"`
	Passengers        []PassengerRequestBody `json:"passengers,omitempty" binding:"omitempty,dive"`
}

type CreateTravelDocumentRequestBody struct {
	Name         string `json:"name" binding:"required"`
	DocumentType string `json:"document_type" binding:"required"`
	FileName     string `json:"file_name" binding:"required"`
}

type CreatePaymentRequestBody struct {
	ClientID          *uint           `json:"client,omitempty"`
	PaymentType       string          `json:"payment_type" binding:"required,oneof=visa_fee booking service_fee exchange"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency" binding:"required,len=3"`
	PaymentMethod     string          `json:"payment_method" binding:"required,oneof=card mobile_money bank_transfer cash"`
	TravelBookingID   *uint           `json:"travel_booking,omitempty"`
	VisaApplicationID *uint           `json:"visa_application,omitempty"`
	Description       string          `json:"description,omitempty"`
}

type ExchangeRateQuery struct {
	From string `form:"from" binding:"required,len=3"`
	To   string `form:"to" binding:"required,len=3"`
}

type SimulateExchangeRequestBody struct {
	From   string          `json:"from_currency" binding:"required,len=3"`
	To     string          `json:"to_currency" binding:"required,len=3"`
	Amount decimal.Decimal `json:"amount"`
}

type ExchangeRateRequestBody struct {
	From          string           `json:"from_currency" binding:"required,len=3"`
	To            string           `json:"to_currency" binding:"required,len=3"`
	Rate          decimal.Decimal  `json:"rate"`
	FeePercentage *decimal.Decimal `json:"fee_percentage,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

type CreateExchangeRequestBody struct {
	ClientID          *uint           `json:"client,omitempty"`
	From              string          `json:"from_currency" binding:"required,len=3"`
	To                string          `json:"to_currency" binding:"required,len=3"`
	AmountSent        decimal.Decimal `json:"amount_sent"`
	ReceptionMethod   string          `json:"reception_method" binding:"required,oneof=bank_transfer mobile_money cash_pickup agency_pickup"`
	BankName          string          `json:"bank_name,omitempty"`
	AccountHolderName string          `json:"account_holder_name,omitempty"`
	IBAN              string          `json:"iban,omitempty"`
	BIC               string          `json:"bic,omitempty"`
	MobileOperator    string          `json:"mobile_operator,omitempty"`
	MobileNumber      string          `json:"mobile_number,omitempty"`
	PickupAgency      string          `json:"pickup_agency,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

type CreateAppointmentRequestBody struct {
	ClientID          uint     `json:"client" binding:"required"`
	Reason            string   `json:"reason" binding:"required,oneof=document_submission biometrics interview consultation document_pickup other"`
	Date              string   `json:"date" binding:"required,futuredate"`
	Location          string   `json:"location" binding:"required,oneof=agency_douala agency_yaounde embassy online"`
	Message           string   `json:"message,omitempty"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
	VisaApplicationID *uint    `json:"visa_application,omitempty"`
	TravelBookingID   *uint    `json:"travel_booking,omitempty"`
}

type NotificationsQueryFilters struct {
	Unread bool `form:"unread,omitempty"`
	Limit  int  `form:"limit,omitempty" binding:"omitempty,min=1,max=200"`
}

type ListQueryFilters struct {
	Status string `form:"status,omitempty"`
	Mine   bool   `form:"mine,omitempty"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value" binding:"required"`
	Group string `json:"group" binding:"required"`
}

type Handler func(payload string)
