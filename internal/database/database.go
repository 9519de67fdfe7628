package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mwarner/learnlog/internal/models"
)

// Store owns the single journal database file. One Store is opened at
// startup and shared; gorm's pool hands each request its own connection
// for the duration of the request.
type Store struct {
	DB *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema. TranslateError is enabled so unique-constraint violations come
// back as gorm.ErrDuplicatedKey instead of driver-specific errors.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	// Foreign key enforcement is off by default in sqlite.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{DB: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	// The many2many relations go through the explicit EntryTag model so
	// association rows can be created and deleted by hand.
	if err := s.DB.SetupJoinTable(&models.JournalEntry{}, "Tags", &models.EntryTag{}); err != nil {
		return err
	}
	if err := s.DB.SetupJoinTable(&models.SubjectTag{}, "Entries", &models.EntryTag{}); err != nil {
		return err
	}
	return s.DB.AutoMigrate(
		&models.User{},
		&models.SubjectTag{},
		&models.JournalEntry{},
		&models.EntryTag{},
	)
}

// Close releases the underlying sqlite handle.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (s *Store) Health() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
