package repository

import (
	"fmt"
	"time"

	"go-arsip/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info), // Настройки логгирования
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настройка пула соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate накатывает схему и сидирует базовые категории
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.FileRecord{},
		&model.FileVersion{},
		&model.FileActivity{},
		&model.FileCategory{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return seedCategories(db)
}

func seedCategories(db *gorm.DB) error {
	defaults := []model.FileCategory{
		{Name: "Documents", Description: "General documents and text files", ColorCode: "#007bff"},
		{Name: "Images", Description: "Image files and graphics", ColorCode: "#28a745"},
		{Name: "Videos", Description: "Video files and multimedia", ColorCode: "#dc3545"},
		{Name: "Audio", Description: "Audio files and music", ColorCode: "#ffc107"},
		{Name: "Archives", Description: "Compressed files and archives", ColorCode: "#6f42c1"},
		{Name: "Spreadsheets", Description: "Excel and spreadsheet files", ColorCode: "#20c997"},
		{Name: "Presentations", Description: "PowerPoint and presentation files", ColorCode: "#fd7e14"},
		{Name: "Other", Description: "Other file types", ColorCode: "#6c757d"},
	}

	for _, category := range defaults {
		category.IsActive = true
		category.CreatedAt = time.Now().UTC()
		category.CreatedBy = "System"

		err := db.Where(model.FileCategory{Name: category.Name}).
			FirstOrCreate(&category).Error
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", category.Name, err)
		}
	}

	return nil
}
