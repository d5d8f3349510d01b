package lifecycle

import (
	"context"
	"gsc/src/db"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"sync"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (r *recordingNotifier) Dispatch(ctx context.Context, ev notifications.Event) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return &models.Notification{Type: ev.Type, EntityKind: ev.Kind}, nil
}

func (r *recordingNotifier) Events() []notifications.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Event(nil), r.events...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenMemory()
	require.NoError(t, err)
	err = gdb.AutoMigrate(
		&models.Country{},
		&models.Client{},
		&models.User{},
		&models.VisaType{},
		&models.RequiredDocument{},
		&models.VisaApplication{},
		&models.ApplicationDocument{},
		&models.TravelBooking{},
		&models.Passenger{},
		&models.Payment{},
		&models.CurrencyExchangeRequest{},
		&models.HistoryEntry{},
	)
	require.NoError(t, err)
	return gdb
}

type fixture struct {
	client   models.Client
	other    models.Client
	owner    models.User
	agent    models.User
	admin    models.User
	visaType models.VisaType
	required []models.RequiredDocument
}

func newClient(t *testing.T, tx *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Email:     faker.Email(),
		Phone:     faker.Phonenumber(),
		IDType:    "passport",
		IDNumber:  faker.UUIDDigit(),
	}
	require.NoError(t, tx.Create(&client).Error)
	return client
}

func newUser(t *testing.T, tx *gorm.DB, role types.Role, clientID *uint) models.User {
	t.Helper()
	user := models.User{
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Email:     faker.Email(),
		Role:      role,
		UID:       faker.UUIDHyphenated(),
		ClientID:  clientID,
	}
	require.NoError(t, tx.Create(&user).Error)
	return user
}

func newFixture(t *testing.T, tx *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{}
	f.client = newClient(t, tx)
	f.other = newClient(t, tx)
	f.owner = newUser(t, tx, types.ROLE_CLIENT, &f.client.ID)
	f.agent = newUser(t, tx, types.ROLE_AGENT, nil)
	f.admin = newUser(t, tx, types.ROLE_ADMIN, nil)

	country := models.Country{Name: "France", Code: "FR"}
	require.NoError(t, tx.Create(&country).Error)
	f.visaType = models.VisaType{
		Name:         "Visa Touriste",
		CountryID:    country.ID,
		Category:     "tourist",
		DurationDays: 90,
		ServiceFee:   decimal.NewFromInt(50000),
		IsActive:     true,
	}
	require.NoError(t, tx.Create(&f.visaType).Error)
	f.required = []models.RequiredDocument{
		{VisaTypeID: f.visaType.ID, Name: "Passeport", DocumentType: "passport", IsMandatory: true, Position: 0},
		{VisaTypeID: f.visaType.ID, Name: "Photo d'identité", DocumentType: "photo", IsMandatory: true, Position: 1},
		{VisaTypeID: f.visaType.ID, Name: "Relevé bancaire", DocumentType: "bank_statement", IsMandatory: false, Position: 2},
	}
	require.NoError(t, tx.Create(&f.required).Error)
	return f
}

func (f *fixture) clientActor() Actor {
	return Actor{UserID: &f.owner.ID, Role: types.ROLE_CLIENT, ClientID: &f.client.ID}
}

func (f *fixture) agentActor() Actor {
	return Actor{UserID: &f.agent.ID, Role: types.ROLE_AGENT}
}

func (f *fixture) adminActor() Actor {
	return Actor{UserID: &f.admin.ID, Role: types.ROLE_ADMIN}
}

func provide(t *testing.T, tx *gorm.DB, app *models.VisaApplication, docs ...models.RequiredDocument) {
	t.Helper()
	for _, d := range docs {
		id := d.ID
		require.NoError(t, tx.Create(&models.ApplicationDocument{
			ApplicationID:      app.ID,
			RequiredDocumentID: &id,
			Name:               d.Name,
			FileKey:            "visa-applications/" + faker.UUIDDigit(),
			FileName:           "scan.pdf",
			Status:             types.DOCUMENT_SUBMITTED,
		}).Error)
	}
}
