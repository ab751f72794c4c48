package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"carvalue_backend/internal/feature/auth/domain/entity"
	"carvalue_backend/internal/feature/auth/usecase"
)

// sessionMySQL is the GORM implementation of the SessionRepository
// interface. It is the fallback store used when Redis is unavailable.
type sessionMySQL struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionMySQL implements SessionRepository.
var _ usecase.SessionRepository = (*sessionMySQL)(nil)

// NewSessionMySQL creates a new instance of sessionMySQL.
func NewSessionMySQL(db *gorm.DB) *sessionMySQL {
	return &sessionMySQL{db: db}
}

// Create persists a new session to the database.
func (r *sessionMySQL) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a session by its opaque identifier.
func (r *sessionMySQL) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Revoke marks a session as revoked by its ID.
func (r *sessionMySQL) Revoke(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", now)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes all expired sessions from storage.
func (r *sessionMySQL) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
