package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/pkg/utils"
)

// NewEntry carries the user-supplied fields of an entry being created.
type NewEntry struct {
	Title        string
	LearningDate time.Time
	TimeSpent    int
	WhatLearned  string
	Resources    string
	UserID       uuid.UUID
}

// EntryChanges carries the mutable fields overwritten on edit.
type EntryChanges struct {
	Title        string
	LearningDate time.Time
	TimeSpent    int
	WhatLearned  string
	Resources    string
}

// CreateEntry persists an entry together with its tag associations in one
// transaction: either the entry and every association row commit, or
// nothing does. Tag names are get-or-created by unique name. Returns
// ErrDuplicateTitle when the title is already taken.
func (j *Journal) CreateEntry(ctx context.Context, in NewEntry, tagNames []string) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		Title:        in.Title,
		LearningDate: in.LearningDate,
		TimeSpent:    in.TimeSpent,
		WhatLearned:  in.WhatLearned,
		Resources:    in.Resources,
		UserID:       in.UserID,
	}

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := freeSlug(tx, entry.Title, uuid.Nil)
		if err != nil {
			return err
		}
		entry.Slug = slug

		if err := tx.Create(entry).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicateTitle
			}
			return err
		}
		return replaceAssociations(tx, entry.ID, tagNames)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry overwrites the mutable fields of the entry at slug and
// replaces its tag associations wholesale with the submitted list, all in
// one transaction. The slug is re-derived when the title changes.
func (j *Journal) UpdateEntry(ctx context.Context, slug string, changes EntryChanges, tagNames []string) (*models.JournalEntry, error) {
	var entry models.JournalEntry

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).First(&entry).Error; err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		if changes.Title != entry.Title {
			newSlug, err := freeSlug(tx, changes.Title, entry.ID)
			if err != nil {
				return err
			}
			entry.Slug = newSlug
		}
		entry.Title = changes.Title
		entry.LearningDate = changes.LearningDate
		entry.TimeSpent = changes.TimeSpent
		entry.WhatLearned = changes.WhatLearned
		entry.Resources = changes.Resources

		if err := tx.Save(&entry).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicateTitle
			}
			return err
		}

		// Full replace, not a diff: every prior association goes.
		if err := tx.Where("journal_entry_id = ?", entry.ID).
			Delete(&models.EntryTag{}).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, entry.ID, tagNames)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes the entry at slug and all of its association rows.
// Returns ErrNotFound when no entry has that slug; any other failure
// aborts the transaction and propagates.
func (j *Journal) DeleteEntry(ctx context.Context, slug string) error {
	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.JournalEntry
		if err := tx.Where("slug = ?", slug).First(&entry).Error; err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("journal_entry_id = ?", entry.ID).
			Delete(&models.EntryTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
}

// EntryBySlug fetches one entry with its tags preloaded.
func (j *Journal) EntryBySlug(ctx context.Context, slug string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := j.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("subject_tags.name ASC") }).
		Where("slug = ?", slug).
		First(&entry).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EntriesByUser lists a user's entries, most recent learning date first.
// Ties keep insertion order.
func (j *Journal) EntriesByUser(ctx context.Context, userID uuid.UUID) ([]*models.JournalEntry, error) {
	var entries []*models.JournalEntry
	err := j.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("subject_tags.name ASC") }).
		Where("user_id = ?", userID).
		Order("learning_date DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// freeSlug picks the first collision-free slug variant for title. An
// existing entry (self, on edit) is excluded from the collision check so a
// title edit that keeps the same slug base is not treated as a collision.
func freeSlug(tx *gorm.DB, title string, self uuid.UUID) (string, error) {
	base := utils.Slugify(title)
	for n := 1; ; n++ {
		candidate := utils.SlugVariant(base, n)
		var count int64
		q := tx.Model(&models.JournalEntry{}).Where("slug = ?", candidate)
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// replaceAssociations creates one association row per tag name, get-or-
// creating each tag. Runs inside the caller's transaction.
func replaceAssociations(tx *gorm.DB, entryID uuid.UUID, tagNames []string) error {
	for _, name := range tagNames {
		tag, err := getOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		link := &models.EntryTag{
			JournalEntryID: entryID,
			SubjectTagID:   tag.ID,
			CreatedAt:      time.Now(),
		}
		if err := tx.Create(link).Error; err != nil {
			// Duplicate tag token in the same submission.
			if isDuplicate(err) {
				continue
			}
			return err
		}
	}
	return nil
}
