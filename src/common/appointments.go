package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gsc/src/config"
	"gsc/src/lib"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"log"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const appointmentDuration = time.Hour

// CreateAppointment books an appointment for a client, notifies them and
// mirrors it to the agency calendar when one is connected.
func CreateAppointment(ctx context.Context, db *gorm.DB, notifier lifecycle.Notifier, actor lifecycle.Actor, body *types.CreateAppointmentRequestBody) (*models.Appointment, error) {
	date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", lifecycle.ErrValidation)
	}
	docs, _ := json.Marshal(body.RequiredDocuments)
	appt := models.Appointment{
		ClientID:          body.ClientID,
		AgentID:           actor.UserID,
		Reason:            body.Reason,
		Date:              date,
		Location:          body.Location,
		Message:           body.Message,
		RequiredDocuments: datatypes.JSON(docs),
		Status:            types.APPOINTMENT_SCHEDULED,
		VisaApplicationID: body.VisaApplicationID,
		TravelBookingID:   body.TravelBookingID,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, body.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: client %d", lifecycle.ErrNotFound, body.ClientID)
			}
			return err
		}
		if err := tx.Create(&appt).Error; err != nil {
			return err
		}
		return tx.Preload("Client").Preload("Agent").First(&appt, appt.ID).Error
	})
	if err != nil {
		log.Printf("Failed to create appointment: %s\n", err.Error())
		return nil, err
	}

	if notifier != nil {
		clientID := appt.ClientID
		_, err := notifier.Dispatch(ctx, notifications.Event{
			Type:     types.NOTIFICATION_APPOINTMENT,
			EntityID: appt.ID,
			ClientID: &clientID,
			Entity:   &appt,
			Agent:    appt.Agent,
		})
		if err != nil {
			log.Printf("Failed to notify appointment %d: %s\n", appt.ID, err.Error())
		}
	}
	go MirrorAppointment(db, appt)
	return &appt, nil
}

// MirrorAppointment copies an appointment to the agency Google calendar.
func MirrorAppointment(db *gorm.DB, appt models.Appointment) {
	conf := lib.CalendarOAuthConfig()
	if conf == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stored, err := models.LatestToken(db, models.TokenTypeCalendar)
	if err != nil {
		log.Printf("No calendar token available: %s\n", err.Error())
		return
	}
	var tok oauth2.Token
	raw, _ := json.Marshal(stored.TokenValue)
	if err := json.Unmarshal(raw, &tok); err != nil {
		log.Printf("Invalid calendar token: %s\n", err.Error())
		return
	}
	svc, err := lib.GAPICreateCalendarService(ctx, &tok, conf)
	if err != nil {
		log.Printf("Error creating calendar service: %s\n", err.Error())
		return
	}
	summary := "Rendez-vous GSC"
	if appt.Client != nil {
		summary = fmt.Sprintf("Rendez-vous GSC - %s", appt.Client.FullName())
	}
	event, err := lib.GAPIAddEvent(ctx, config.CALENDAR_ID, &calendar.Event{
		Summary:     summary,
		Location:    appt.Location,
		Description: appt.Message,
		Start:       &calendar.EventDateTime{DateTime: appt.Date.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: appt.Date.Add(appointmentDuration).Format(time.RFC3339)},
	}, svc)
	if err != nil {
		log.Printf("Error adding calendar event for appointment %d: %s\n", appt.ID, err.Error())
		return
	}
	if err := db.Model(&models.Appointment{}).Where("id = ?", appt.ID).UpdateColumn("calendar_event_id", event.Id).Error; err != nil {
		log.Printf("Error saving calendar event id: %s\n", err.Error())
	}
}
