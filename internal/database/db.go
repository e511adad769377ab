package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

// Connect opens the Postgres connection and migrates the portal tables.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.ChatMessage{}, &models.BenefitApplication{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// MessageLog is the community chat log stored in chat_messages.
type MessageLog struct {
	db *gorm.DB
}

func NewMessageLog(db *gorm.DB) *MessageLog {
	return &MessageLog{db: db}
}

// Append inserts msg; ID and Timestamp are assigned on insert.
func (l *MessageLog) Append(ctx context.Context, msg *models.ChatMessage) error {
	msg.ID = 0
	msg.Timestamp = time.Time{}
	return l.db.WithContext(ctx).Create(msg).Error
}

// Latest returns the newest limit entries, newest first. Ties on sent_at are
// broken by insert order.
func (l *MessageLog) Latest(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := latestQuery(l.db.WithContext(ctx), limit).Find(&msgs).Error
	return msgs, err
}

func latestQuery(tx *gorm.DB, limit int) *gorm.DB {
	return tx.Model(&models.ChatMessage{}).
		Order("sent_at DESC").
		Order("id DESC").
		Limit(limit)
}

type BenefitRepository struct {
	db *gorm.DB
}

func NewBenefitRepository(db *gorm.DB) *BenefitRepository {
	return &BenefitRepository{db: db}
}

func (r *BenefitRepository) Save(ctx context.Context, app *models.BenefitApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}
