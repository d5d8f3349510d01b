package db

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestNewDB(t *testing.T) {
	gormDB, _ := NewMockDB()
	NewDB(gormDB)

	assert.Equal(t, "postgres", GetDb().Name())
	assert.Same(t, gormDB, GetDb())
}

func TestOpenMemory(t *testing.T) {
	gormDB, err := OpenMemory()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", gormDB.Name())

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenMemoryIsPrivate(t *testing.T) {
	type probe struct {
		ID   uint
		Name string
	}
	first, err := OpenMemory()
	require.NoError(t, err)
	second, err := OpenMemory()
	require.NoError(t, err)

	require.NoError(t, first.AutoMigrate(&probe{}))
	require.NoError(t, first.Create(&probe{Name: "a"}).Error)

	assert.False(t, second.Migrator().HasTable(&probe{}))
}
