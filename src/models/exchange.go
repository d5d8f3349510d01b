package models

import (
	"gsc/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type ExchangeRate struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	FromCurrency  string          `gorm:"size:3;uniqueIndex:idx_exchange_rate_pair" json:"from_currency"`
	ToCurrency    string          `gorm:"size:3;uniqueIndex:idx_exchange_rate_pair" json:"to_currency"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,6)" json:"rate"`
	FeePercentage decimal.Decimal `gorm:"type:decimal(5,2)" json:"fee_percentage"`
	IsActive      bool            `json:"is_active"`

	types.Timestamps
}

type CurrencyExchangeRequest struct {
	ID              uint                 `gorm:"primarykey" json:"id"`
	Reference       *string              `gorm:"uniqueIndex" json:"reference"`
	ClientID        uint                 `gorm:"not null;index" json:"client_id"`
	FromCurrency    string               `gorm:"size:3" json:"from_currency"`
	ToCurrency      string               `gorm:"size:3" json:"to_currency"`
	AmountSent      decimal.Decimal      `gorm:"type:decimal(14,2)" json:"amount_sent"`
	ExchangeRate    decimal.Decimal      `gorm:"type:decimal(18,6)" json:"exchange_rate"`
	FeePercentage   decimal.Decimal      `gorm:"type:decimal(5,2)" json:"fee_percentage"`
	FeeAmount       decimal.Decimal      `gorm:"type:decimal(14,2)" json:"fee_amount"`
	AmountReceived  decimal.Decimal      `gorm:"type:decimal(14,2)" json:"amount_received"`
	ReceptionMethod string               `json:"reception_method"`
	Status          types.ExchangeStatus `gorm:"type:text;default:'pending';index" json:"status"`
	AssignedAgentID *uint                `json:"assigned_agent_id,omitempty"`
	Notes           string               `json:"notes,omitempty"`

	BankName          string `json:"bank_name,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	IBAN              string `json:"iban,omitempty"`
	BIC               string `json:"bic,omitempty"`
	MobileOperator    string `json:"mobile_operator,omitempty"`
	MobileNumber      string `json:"mobile_number,omitempty"`
	PickupAgency      string `json:"pickup_agency,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`

	Client *Client `gorm:"foreignKey:client_id" json:"client,omitempty"`

	types.Timestamps
}

func (e *CurrencyExchangeRequest) EntityKind() types.EntityKind { return types.KIND_CURRENCY_EXCHANGE }
func (e *CurrencyExchangeRequest) EntityID() uint               { return e.ID }
func (e *CurrencyExchangeRequest) CurrentStatus() string        { return string(e.Status) }
func (e *CurrencyExchangeRequest) OwnerID() uint                { return e.ClientID }
func (e *CurrencyExchangeRequest) AgentID() *uint               { return e.AssignedAgentID }
func (e *CurrencyExchangeRequest) ReferenceColumn() string      { return "reference" }
func (e *CurrencyExchangeRequest) ReferenceValue() *string      { return e.Reference }
