package models

import (
	"time"

	"github.com/google/uuid"
)

// User enables multiple people to privately share one journal instance.
// Passwords are stored as argon2id hashes, never plaintext.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `gorm:"not null"`

	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null;size:100"`

	Entries []*JournalEntry `gorm:"foreignKey:UserID"`
}

// JournalEntry is one dated learning record. Title is unique store-wide so
// the slug-based URLs stay unambiguous; Slug is derived from Title and is
// the public identifier of the entry.
type JournalEntry struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `gorm:"not null;index"`

	Title        string    `gorm:"uniqueIndex;not null"`
	Slug         string    `gorm:"uniqueIndex;not null"`
	LearningDate time.Time `gorm:"not null;index"`
	TimeSpent    int       `gorm:"not null"` // minutes
	WhatLearned  string    `gorm:"type:text;not null"`
	Resources    string    `gorm:"type:text;not null"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   *User     `gorm:"foreignKey:UserID"`

	Tags []*SubjectTag `gorm:"many2many:entry_tags;"`
}

// SubjectTag labels entries by subject. Tags are get-or-created by unique
// name and are never garbage-collected, even when no entry references them.
type SubjectTag struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `gorm:"not null"`

	Name string `gorm:"uniqueIndex;not null"`

	Entries []*JournalEntry `gorm:"many2many:entry_tags;"`
}

// EntryTag is the explicit join row between an entry and a tag. It exists as
// a model (rather than an implicit gorm join table) because edits replace an
// entry's associations wholesale and deletes must remove them by hand.
type EntryTag struct {
	JournalEntryID uuid.UUID `gorm:"primaryKey;type:uuid"`
	SubjectTagID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName pins the join table gorm's many2many tags point at.
func (EntryTag) TableName() string {
	return "entry_tags"
}
