package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/meilisearch/meilisearch-go"
	"github.com/mkaplan/sendhub/internal/appcontext"
	"github.com/mkaplan/sendhub/internal/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	db, err := InitDB()
	if err != nil {
		return nil, err
	}

	meilisearchClient, err := InitMeilisearch()
	if err != nil {
		return nil, err
	}
	if meilisearchClient == nil {
		logger.Warn("MEILISEARCH_HOST not set, search is disabled")
	}

	ctx := &appcontext.Context{
		DB:     db,
		Logger: logger,

		MeilisearchClient: meilisearchClient,
	}

	return ctx, nil
}

func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(entity.AllModels()...)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func InitMeilisearch() (*meilisearch.Client, error) {
	host := os.Getenv("MEILISEARCH_HOST")
	if host == "" {
		return nil, nil
	}

	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: os.Getenv("MEILISEARCH_API_KEY"),
	})

	_, err := client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        "studies",
		PrimaryKey: "id",
	})
	if err != nil {
		// If the error is because the index already exists, that's fine
		if strings.Contains(err.Error(), "already exists") {
			// Index already exists, continue with updating settings
		} else {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Set filterable attributes
	task, err := client.Index("studies").UpdateFilterableAttributes(&[]string{
		"species",
		"status",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update filterable attributes: %w", err)
	}

	// Wait for the task to complete
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for filterable attributes update: %w", err)
	}

	// Set searchable attributes
	task, err = client.Index("studies").UpdateSearchableAttributes(&[]string{
		"study_code",
		"title",
		"sponsor",
		"test_article",
		"species",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update searchable attributes: %w", err)
	}

	// Wait for the task to complete
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for searchable attributes update: %w", err)
	}

	return client, nil
}
