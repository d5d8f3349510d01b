package common

import (
	"context"
	"gsc/src/config"
	"gsc/src/db"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"sync"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (c *capturedEvents) Dispatch(ctx context.Context, ev notifications.Event) (*models.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return &models.Notification{Type: ev.Type}, nil
}

type SweepTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	client models.Client
	agent  models.User
}

func TestSweepTestSuite(t *testing.T) {
	suite.Run(t, new(SweepTestSuite))
}

func (s *SweepTestSuite) SetupTest() {
	s.T().Setenv("DRAFT_TTL_DAYS", "")
	s.T().Setenv("OAUTH_CLIENT_ID", "")
	s.ctx = context.Background()
	gdb, err := db.OpenMemory()
	s.Require().NoError(err)
	s.Require().NoError(gdb.AutoMigrate(
		&models.Country{},
		&models.Client{},
		&models.User{},
		&models.VisaType{},
		&models.VisaApplication{},
		&models.HistoryEntry{},
		&models.JobTask{},
		&models.Setting{},
		&models.Appointment{},
	))
	s.db = gdb
	s.client = models.Client{FirstName: faker.FirstName(), LastName: faker.LastName(), Email: faker.Email(), IDNumber: faker.UUIDDigit()}
	s.Require().NoError(gdb.Create(&s.client).Error)
	s.agent = models.User{FirstName: faker.FirstName(), LastName: faker.LastName(), Email: faker.Email(), Role: types.ROLE_AGENT}
	s.Require().NoError(gdb.Create(&s.agent).Error)
}

func (s *SweepTestSuite) draftAged(days int) models.VisaApplication {
	app := models.VisaApplication{ClientID: s.client.ID, Status: types.VISA_DRAFT, Priority: "normal"}
	s.Require().NoError(s.db.Create(&app).Error)
	s.Require().NoError(s.db.Model(&app).UpdateColumn("updated_at", time.Now().AddDate(0, 0, -days)).Error)
	return app
}

func (s *SweepTestSuite) TestDraftTTL() {
	s.Equal(time.Duration(config.DraftTTLDays())*24*time.Hour, DraftTTL(s.db))
	s.Equal(90*24*time.Hour, DraftTTL(s.db))

	s.Require().NoError(s.db.Create(&models.Setting{
		SettingKey:   "draft_ttl_days",
		Group:        models.SETTINGS_GROUP_LIFECYCLE,
		SettingValue: types.JSONBAny{Inner: "10"},
	}).Error)
	s.Equal(10*24*time.Hour, DraftTTL(s.db))
}

func (s *SweepTestSuite) TestSweepStaleDrafts() {
	stale := s.draftAged(120)
	fresh := s.draftAged(5)
	engine := lifecycle.NewEngine(s.db, nil)

	task, err := SweepStaleDrafts(s.ctx, s.db, engine, "test")
	s.Require().NoError(err)
	s.Equal("completed", task.Status)
	s.Equal(1, task.Processed)
	s.Zero(task.Failed)
	s.NotNil(task.FinishedAt)

	var stored models.JobTask
	s.Require().NoError(s.db.First(&stored, "id = ?", task.ID).Error)
	s.Equal(SweepJobName, stored.Name)
	s.Equal("test", stored.Source)
	s.EqualValues(90, stored.Payload["ttl_days"])

	var apps []models.VisaApplication
	s.Require().NoError(s.db.Order("id").Find(&apps).Error)
	s.Equal(stale.ID, apps[0].ID)
	s.Equal(types.VISA_EXPIRED, apps[0].Status)
	s.Equal(fresh.ID, apps[1].ID)
	s.Equal(types.VISA_DRAFT, apps[1].Status)
}

func (s *SweepTestSuite) TestCreateAppointment() {
	notifier := &capturedEvents{}
	actor := lifecycle.Actor{UserID: &s.agent.ID, Role: types.ROLE_AGENT}
	date := time.Now().AddDate(0, 0, 7).Truncate(time.Minute)

	appt, err := CreateAppointment(s.ctx, s.db, notifier, actor, &types.CreateAppointmentRequestBody{
		ClientID:          s.client.ID,
		Reason:            "biometrics",
		Date:              date.Format(config.TIME_PARSE_FORMAT),
		Location:          "agency_douala",
		RequiredDocuments: []string{"Passeport", "Convocation"},
	})
	s.Require().NoError(err)
	s.Equal(types.APPOINTMENT_SCHEDULED, appt.Status)
	s.Equal([]string{"Passeport", "Convocation"}, appt.DocumentList())
	s.Require().NotNil(appt.Client)
	s.Require().NotNil(appt.Agent)
	s.Equal(s.agent.ID, appt.Agent.ID)

	s.Require().Len(notifier.events, 1)
	s.Equal(types.NOTIFICATION_APPOINTMENT, notifier.events[0].Type)
	s.Equal(s.client.ID, *notifier.events[0].ClientID)

	_, err = CreateAppointment(s.ctx, s.db, notifier, actor, &types.CreateAppointmentRequestBody{ClientID: 9999, Date: date.Format(config.TIME_PARSE_FORMAT)})
	s.ErrorIs(err, lifecycle.ErrNotFound)

	_, err = CreateAppointment(s.ctx, s.db, notifier, actor, &types.CreateAppointmentRequestBody{ClientID: s.client.ID, Date: "demain"})
	s.ErrorIs(err, lifecycle.ErrValidation)
}
