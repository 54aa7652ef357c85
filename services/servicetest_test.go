package services

import (
	"fmt"
	"testing"

	"gestpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Subscription{},
		&models.Invoice{},
		&models.Payment{},
		&models.Quote{},
		&models.AccountingDossier{},
		&models.DetailedCharge{},
		&models.ClientEntry{},
		&models.Charge{},
		&models.TimeSheet{},
		&models.SalaryForecast{},
		&models.Notification{},
	))
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	client := models.Client{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func seedUser(t *testing.T, db *gorm.DB, role string, hourlyRate *float64) models.User {
	t.Helper()
	user := models.User{
		Email:      uuid.NewString() + "@example.com",
		Password:   "secret123",
		FirstName:  "Test",
		LastName:   "User",
		Role:       role,
		HourlyRate: hourlyRate,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
