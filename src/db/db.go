package db

import (
	"gsc/src/config"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := Open(config.GetDatabaseDriver(), config.GetDSN())
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

// Open connects with unique violations translated to gorm.ErrDuplicatedKey,
// which reference generation relies on.
func Open(driver string, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return gorm.Open(postgres.Open(dsn), cfg)
	}
}

// OpenMemory returns a private in-memory sqlite database on a single
// connection, so row locking degrades to serialized transactions.
func OpenMemory() (*gorm.DB, error) {
	_db, err := Open("sqlite", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	sqlDB, err := _db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return _db, nil
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
