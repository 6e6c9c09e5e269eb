package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfwise/shelfwise/internal/entities"
)

var defaultGenres = []entities.Genre{
	{Name: "Fiction"},
	{Name: "Non-Fiction"},
	{Name: "Science Fiction"},
	{Name: "Fantasy"},
	{Name: "Mystery"},
	{Name: "Romance"},
	{Name: "Biography"},
	{Name: "History"},
	{Name: "Science"},
	{Name: "Technology"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Genre{},
		&entities.Book{},
		&entities.Member{},
		&entities.Borrowing{},
		&entities.User{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	// Seed default genres so a fresh install has something to attach books to
	if err := database.seedGenres(); err != nil {
		return nil, fmt.Errorf("failed to seed genres: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedGenres() error {
	var count int64
	if err := d.DB.Model(&entities.Genre{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, genre := range defaultGenres {
		if err := d.DB.Create(&genre).Error; err != nil {
			return fmt.Errorf("failed to create genre %s: %w", genre.Name, err)
		}
	}
	log.Printf("Seeded %d default genres", len(defaultGenres))
	return nil
}
