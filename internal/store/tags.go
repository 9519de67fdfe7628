package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mwarner/learnlog/internal/models"
)

// AllTags lists every known tag by name, whether or not any entry still
// references it. Tags are never garbage-collected.
func (j *Journal) AllTags(ctx context.Context) ([]*models.SubjectTag, error) {
	var tags []*models.SubjectTag
	err := j.db.WithContext(ctx).Preload("Entries").Order("name ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// getOrCreateTag resolves a tag by unique name, inserting it on first use.
// Insert-then-fetch rather than check-then-act: a concurrent insert of the
// same name loses the unique-index race and falls through to the fetch, so
// duplicate tag rows cannot appear.
func getOrCreateTag(tx *gorm.DB, name string) (*models.SubjectTag, error) {
	tag := &models.SubjectTag{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      name,
	}
	err := tx.Create(tag).Error
	if err == nil {
		return tag, nil
	}
	if !isDuplicate(err) {
		return nil, err
	}

	var existing models.SubjectTag
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
