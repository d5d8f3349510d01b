package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gsc/src/config"
	"gsc/src/lib"
	"gsc/src/lib/metrics"
	"gsc/src/models"
	"log"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const deliveryTimeout = 30 * time.Second

type Mailer interface {
	Send(ctx context.Context, input *lib.SendMailInput) error
}

// Publisher fans a stored notification out to a realtime channel.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, channel string, event string, payload []byte) error
}

type Dispatcher struct {
	db         *gorm.DB
	mailer     Mailer
	publishers []Publisher
	wg         sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, mailer Mailer, publishers ...Publisher) *Dispatcher {
	return &Dispatcher{db: db, mailer: mailer, publishers: publishers}
}

// Dispatch stores the notification and schedules email and realtime
// delivery. Only the store error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*models.Notification, error) {
	if ev.ClientID == nil && ev.UserID == nil {
		return nil, errors.New("notification has no recipient")
	}
	to, err := d.recipient(ctx, ev)
	if err != nil {
		log.Printf("Failed to resolve notification recipient: %s\n", err.Error())
		return nil, err
	}
	content := Render(ev, to)

	metadata, err := json.Marshal(map[string]any{
		"old_status": ev.OldStatus,
		"new_status": ev.NewStatus,
		"notes":      ev.Notes,
	})
	if err != nil {
		log.Printf("Failed to encode notification metadata: %s\n", err.Error())
		return nil, err
	}
	notification := models.Notification{
		ClientID:   ev.ClientID,
		UserID:     ev.UserID,
		Title:      content.Title,
		Message:    content.Message,
		Type:       ev.Type,
		EntityKind: ev.Kind,
		Metadata:   datatypes.JSON(metadata),
	}
	if ev.EntityID != 0 {
		id := ev.EntityID
		notification.EntityID = &id
	}
	if err := d.db.WithContext(ctx).Create(&notification).Error; err != nil {
		metrics.Deliveries.WithLabelValues("inapp", "error").Inc()
		log.Printf("Failed to store notification: %s\n", err.Error())
		return nil, err
	}
	metrics.Deliveries.WithLabelValues("inapp", "ok").Inc()

	d.wg.Add(1)
	go d.deliver(notification, to, content)
	return &notification, nil
}

// Wait blocks until in-flight deliveries are done.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) recipient(ctx context.Context, ev Event) (Recipient, error) {
	tx := d.db.WithContext(ctx)
	if ev.UserID != nil {
		var user models.User
		if err := tx.First(&user, *ev.UserID).Error; err != nil {
			return Recipient{}, err
		}
		return Recipient{Name: user.FullName(), Email: user.Email}, nil
	}
	var client models.Client
	if err := tx.First(&client, *ev.ClientID).Error; err != nil {
		return Recipient{}, err
	}
	return Recipient{Name: client.FullName(), Email: client.Email}, nil
}

func (d *Dispatcher) deliver(notification models.Notification, to Recipient, content Content) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			metrics.Deliveries.WithLabelValues("async", "panic").Inc()
			log.Printf("Recovered from notification delivery panic: %v\n", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if d.mailer != nil && to.Email != "" && content.Subject != "" {
		err := d.mailer.Send(ctx, &lib.SendMailInput{
			From:     config.SMTP_FROM,
			FromName: config.SMTP_FROM_NAME,
			To:       []string{to.Email},
			Subject:  content.Subject,
			Body:     content.Body,
		})
		if err != nil {
			metrics.Deliveries.WithLabelValues("email", "error").Inc()
			log.Printf("[mailer] Error sending message: %s\n", err.Error())
		} else {
			metrics.Deliveries.WithLabelValues("email", "ok").Inc()
		}
	}

	if len(d.publishers) == 0 {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		log.Printf("Failed to marshal notification %s: %s\n", notification.ID, err.Error())
		return
	}
	channel := Channel(notification)
	for _, p := range d.publishers {
		if err := p.Publish(ctx, channel, string(notification.Type), payload); err != nil {
			metrics.Deliveries.WithLabelValues(p.Name(), "error").Inc()
			log.Printf("[%s] Error publishing notification %s: %s\n", p.Name(), notification.ID, err.Error())
			continue
		}
		metrics.Deliveries.WithLabelValues(p.Name(), "ok").Inc()
	}
}

// Channel names the realtime channel of the notification's recipient.
func Channel(n models.Notification) string {
	if n.UserID != nil {
		return fmt.Sprintf("user-%d", *n.UserID)
	}
	if n.ClientID != nil {
		return fmt.Sprintf("client-%d", *n.ClientID)
	}
	return "broadcast"
}
