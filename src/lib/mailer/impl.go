package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"gsc/src/config"
	"gsc/src/lib"
	awslib "gsc/src/lib/aws"
	"gsc/src/utils"
	"log"
	"os"
)

// SMTPMailer sends directly through the configured SMTP relay.
type SMTPMailer struct{}

func (SMTPMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	return lib.SendMail(input)
}

// QueueMailer hands messages to the mail queue: Kafka in local
// environments, SQS elsewhere. A consumer delivers them over SMTP.
type QueueMailer struct {
	Queue string
}

func (q QueueMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	return NewMailerMessage(q.Queue, input)
}

type SESMailer struct{}

func (SESMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	from := fmt.Sprintf("%s <%s>", input.FromName, input.From)
	destination, message := awslib.SESMessage(input)
	return awslib.SESSendMessage(ctx, &from, destination, message)
}

// LogMailer only logs. It is the default outside deployed environments.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	log.Printf("[mailer] to=%v subject=%q\n", input.To, input.Subject)
	return nil
}

type Sender interface {
	Send(ctx context.Context, input *lib.SendMailInput) error
}

// FromConfig picks the transport named by MAIL_TRANSPORT.
func FromConfig() Sender {
	switch config.MAIL_TRANSPORT {
	case "smtp":
		return SMTPMailer{}
	case "queue":
		return QueueMailer{Queue: utils.WithSuffix(config.EMAIL_QUEUE)}
	case "ses":
		return SESMailer{}
	}
	return LogMailer{}
}

func NewMailerMessage(queue string, input *lib.SendMailInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if os.Getenv("API_ENV") == "local" {
		if err := lib.KafkaProduce(queue, "", body); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	if err := lib.SQSProduceMessage(queue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}

// HandleQueuedMail is the queue consumer: it decodes one queued message and
// sends it over SMTP.
func HandleQueuedMail(payload string) {
	var input lib.SendMailInput
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		log.Printf("[mailer] Error decoding queued message: %s\n", err.Error())
		return
	}
	if err := lib.SendMail(&input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
	}
}
