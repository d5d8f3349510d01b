package common

import (
	"context"
	"gsc/src/config"
	"gsc/src/lib"
	awslib "gsc/src/lib/aws"
	"gsc/src/lib/mailer"
	"gsc/src/notifications"
	"gsc/src/utils"
	"log"
	"os"
)

// MailConsumers starts the consumer that drains the mail queue over SMTP.
func MailConsumers(ctx context.Context) {
	if config.MAIL_TRANSPORT != "queue" {
		return
	}
	queue := utils.WithSuffix(config.EMAIL_QUEUE)
	if os.Getenv("API_ENV") == "local" {
		if err := lib.KafkaConsume(ctx, "gsc-mailer", queue, mailer.HandleQueuedMail); err != nil {
			log.Printf("Failed to start mail consumer: %s\n", err.Error())
		}
		return
	}
	consumer := awslib.NewSQSConsumer(queue, mailer.HandleQueuedMail)
	consumer.Listen(ctx)
}

// Publishers returns the realtime channels that are configured.
func Publishers() []notifications.Publisher {
	var publishers []notifications.Publisher
	if rd := lib.GetRedisClient(); rd != nil {
		publishers = append(publishers, &lib.RedisPublisher{Client: rd})
	}
	if pc := lib.GetPusherClient(); pc != nil {
		publishers = append(publishers, &lib.PusherPublisher{Client: pc})
	}
	if os.Getenv("KAFKA_BROKER") != "" {
		publishers = append(publishers, &lib.KafkaPublisher{Topic: utils.WithSuffix(config.LIFECYCLE_TOPIC)})
	}
	if config.SNS_TOPIC_ARN != "" {
		if sns := awslib.NewSNSPublisher(config.SNS_TOPIC_ARN); sns != nil {
			publishers = append(publishers, sns)
		}
	}
	for _, p := range publishers {
		log.Printf("Notification publisher enabled: %s\n", p.Name())
	}
	return publishers
}
