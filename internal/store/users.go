package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/pkg/utils"
)

// CreateUser persists a new user with an already-hashed password. The insert
// is atomic: a username or email collision leaves no partial record and is
// reported as ErrDuplicateUser.
func (j *Journal) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Username:  utils.NormalizeUsername(username),
		Email:     email,
		Password:  passwordHash,
	}
	if err := j.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

// UserByUsername looks a user up by normalized username.
func (j *Journal) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := j.db.WithContext(ctx).
		Where("username = ?", utils.NormalizeUsername(username)).
		First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserByID looks a user up by primary key.
func (j *Journal) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := j.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CountUsers reports how many users exist, used by startup seeding.
func (j *Journal) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := j.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
