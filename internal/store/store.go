// Package store holds all data access for the learning journal. Lookup
// misses come back as ErrNotFound values, never panics; unique-constraint
// collisions are mapped to the Err* sentinels so handlers can surface them
// as validation messages.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mwarner/learnlog/internal/database"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateTitle is returned when an entry title is already taken.
	ErrDuplicateTitle = errors.New("an entry with this title already exists")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
)

// Journal is the data-access layer over the journal database.
type Journal struct {
	db *gorm.DB
}

// New wraps an opened database in the journal store.
func New(s *database.Store) *Journal {
	return &Journal{db: s.DB}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
