package boot

import (
	"context"
	"gsc/src/common"
	"gsc/src/config"
	"gsc/src/db"
	"gsc/src/lib"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/utils"
	"log"
	"os"

	"gorm.io/gorm"
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&models.Country{},
		&models.Client{},
		&models.User{},
		&models.VisaType{},
		&models.RequiredDocument{},
		&models.VisaApplication{},
		&models.ApplicationDocument{},
		&models.TravelBooking{},
		&models.Passenger{},
		&models.TravelDocument{},
		&models.Payment{},
		&models.ExchangeRate{},
		&models.CurrencyExchangeRequest{},
		&models.HistoryEntry{},
		&models.Notification{},
		&models.Appointment{},
		&models.JobTask{},
		&models.Setting{},
		&models.Token{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func InitDb() *gorm.DB {
	db := db.GetDb()
	if err := Migrate(db); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	return db
}

// InitBroker creates the Kafka topics and starts the mail queue consumer.
func InitBroker(ctx context.Context) {
	if os.Getenv("KAFKA_BROKER") != "" {
		if _, err := lib.KafkaCreateTopics(utils.WithSuffix(config.LIFECYCLE_TOPIC), utils.WithSuffix(config.EMAIL_QUEUE)); err != nil {
			log.Printf("Error creating topics: %s\n", err.Error())
		}
	}
	common.MailConsumers(ctx)
}

// InitScheduler registers the stale draft sweep. It is disabled when
// EXPIRY_SWEEP_INTERVAL is unset.
func InitScheduler(db *gorm.DB, engine *lifecycle.Engine) {
	every := config.ExpirySweepInterval()
	if every <= 0 {
		log.Println("Expiry sweep disabled")
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateCronJob(common.SweepJobName, every, func() {
		if _, err := common.SweepStaleDrafts(context.Background(), db, engine, "scheduler"); err != nil {
			log.Printf("Error running job %s: %s\n", common.SweepJobName, err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
	}
}
