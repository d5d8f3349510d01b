package common

import (
	"errors"
	"fmt"
	"gsc/src/models"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Fixtures struct {
	Countries     []CountryFixture      `yaml:"countries"`
	VisaTypes     []VisaTypeFixture     `yaml:"visa_types"`
	Documents     []DocumentFixture     `yaml:"required_documents"`
	ExchangeRates []ExchangeRateFixture `yaml:"exchange_rates"`
}

type CountryFixture struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type VisaTypeFixture struct {
	Name           string `yaml:"name"`
	Country        string `yaml:"country"`
	Category       string `yaml:"category"`
	DurationDays   uint   `yaml:"duration_days"`
	ProcessingDays uint   `yaml:"processing_days"`
	ServiceFee     string `yaml:"service_fee"`
	Currency       string `yaml:"currency"`
}

// DocumentFixture entries are attached to every seeded visa type.
type DocumentFixture struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	DocumentType   string `yaml:"document_type"`
	IsMandatory    bool   `yaml:"is_mandatory"`
	MaxFileSizeMB  uint   `yaml:"max_file_size_mb"`
	AllowedFormats string `yaml:"allowed_formats"`
}

type ExchangeRateFixture struct {
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	Rate          string `yaml:"rate"`
	FeePercentage string `yaml:"fee_percentage"`
}

type SeedResult struct {
	Countries     int
	VisaTypes     int
	Documents     int
	ExchangeRates int
}

const defaultFixtures = `
countries:
  - {name: France, code: FR}
  - {name: Canada, code: CA}
visa_types:
  - {name: Visa Touristique, country: FR, category: tourism, duration_days: 90}
  - {name: Visa Étudiant, country: FR, category: study, duration_days: 365}
  - {name: Visa Touristique, country: CA, category: tourism, duration_days: 180}
required_documents:
  - name: Passeport
    description: Passeport valide au moins 6 mois après la date de retour
    document_type: passport
    is_mandatory: true
    max_file_size_mb: 10
    allowed_formats: pdf,jpg,jpeg,png
  - name: Photo d'identité
    description: Photo d'identité récente (format 35x45mm)
    document_type: photo
    is_mandatory: true
    max_file_size_mb: 5
    allowed_formats: jpg,jpeg,png
  - name: Justificatif d'hôtel
    description: Réservation d'hôtel ou attestation d'hébergement
    document_type: hotel_booking
    is_mandatory: true
    max_file_size_mb: 5
    allowed_formats: pdf,jpg,jpeg,png
exchange_rates:
  - {from: XAF, to: USD, rate: "0.0015"}
  - {from: XAF, to: EUR, rate: "0.0014"}
  - {from: XAF, to: CAD, rate: "0.0020"}
  - {from: XAF, to: GBP, rate: "0.0012"}
  - {from: USD, to: XAF, rate: "650.0"}
  - {from: USD, to: EUR, rate: "0.92"}
  - {from: USD, to: CAD, rate: "1.35"}
  - {from: USD, to: GBP, rate: "0.78"}
  - {from: EUR, to: XAF, rate: "710.0"}
  - {from: EUR, to: USD, rate: "1.09"}
  - {from: EUR, to: CAD, rate: "1.47"}
  - {from: EUR, to: GBP, rate: "0.85"}
  - {from: CAD, to: XAF, rate: "485.0"}
  - {from: CAD, to: USD, rate: "0.74"}
  - {from: CAD, to: EUR, rate: "0.68"}
  - {from: CAD, to: GBP, rate: "0.58"}
  - {from: GBP, to: XAF, rate: "835.0"}
  - {from: GBP, to: USD, rate: "1.28"}
  - {from: GBP, to: EUR, rate: "1.18"}
  - {from: GBP, to: CAD, rate: "1.73"}
`

// LoadFixtures reads a fixtures file, or the built-in set when path is empty.
func LoadFixtures(path string) (*Fixtures, error) {
	data := []byte(defaultFixtures)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &fixtures, nil
}

func parseDecimal(value string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if value == "" {
		return fallback, nil
	}
	return decimal.NewFromString(value)
}

// Seed inserts missing reference data. Existing rows are left untouched.
func Seed(db *gorm.DB, fixtures *Fixtures) (*SeedResult, error) {
	result := &SeedResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		countries := map[string]uint{}
		for _, f := range fixtures.Countries {
			country := models.Country{Name: f.Name, Code: f.Code}
			res := tx.Where(models.Country{Code: f.Code}).FirstOrCreate(&country)
			if res.Error != nil {
				return res.Error
			}
			result.Countries += int(res.RowsAffected)
			countries[f.Code] = country.ID
		}

		for _, f := range fixtures.VisaTypes {
			countryID, ok := countries[f.Country]
			if !ok {
				var country models.Country
				if err := tx.Where(models.Country{Code: f.Country}).First(&country).Error; err != nil {
					return fmt.Errorf("visa type %q: unknown country %q", f.Name, f.Country)
				}
				countryID = country.ID
			}
			fee, err := parseDecimal(f.ServiceFee, decimal.Zero)
			if err != nil {
				return err
			}
			var visaType models.VisaType
			err = tx.Where("name = ? AND country_id = ?", f.Name, countryID).First(&visaType).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			currency := f.Currency
			if currency == "" {
				currency = "XAF"
			}
			visaType = models.VisaType{
				Name:           f.Name,
				CountryID:      countryID,
				Category:       f.Category,
				DurationDays:   f.DurationDays,
				ProcessingDays: f.ProcessingDays,
				ServiceFee:     fee,
				Currency:       currency,
				IsActive:       true,
			}
			if err := tx.Create(&visaType).Error; err != nil {
				return err
			}
			result.VisaTypes++
			for i, d := range fixtures.Documents {
				doc := models.RequiredDocument{
					VisaTypeID:     visaType.ID,
					Name:           d.Name,
					Description:    d.Description,
					DocumentType:   d.DocumentType,
					IsMandatory:    d.IsMandatory,
					MaxFileSizeMB:  d.MaxFileSizeMB,
					AllowedFormats: d.AllowedFormats,
					Position:       i,
				}
				if err := tx.Create(&doc).Error; err != nil {
					return err
				}
				result.Documents++
			}
		}

		for _, f := range fixtures.ExchangeRates {
			rate, err := parseDecimal(f.Rate, decimal.Zero)
			if err != nil {
				return err
			}
			fee, err := parseDecimal(f.FeePercentage, DefaultFeePercentage)
			if err != nil {
				return err
			}
			row := models.ExchangeRate{FromCurrency: f.From, ToCurrency: f.To}
			res := tx.
				Where(models.ExchangeRate{FromCurrency: f.From, ToCurrency: f.To}).
				Attrs(models.ExchangeRate{Rate: rate, FeePercentage: fee, IsActive: true}).
				FirstOrCreate(&row)
			if res.Error != nil {
				return res.Error
			}
			result.ExchangeRates += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
