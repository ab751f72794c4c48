package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"carvalue_backend/internal/feature/auth/domain/entity"
	"carvalue_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{}, &SessionModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func TestUserMySQL_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user := &entity.User{
			Email:    "test@example.com",
			Password: "aa11bb22cc33dd44.hash",
		}

		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate email returns ErrEmailInUse", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user1 := &entity.User{Email: "duplicate@example.com", Password: "digest1"}
		require.NoError(t, repo.Create(context.Background(), user1))

		// Same email, second insert must hit the unique constraint.
		user2 := &entity.User{Email: "duplicate@example.com", Password: "digest2"}
		err := repo.Create(context.Background(), user2)

		assert.ErrorIs(t, err, usecase.ErrEmailInUse)

		// No second record may exist.
		var count int64
		require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestUserMySQL_FindByEmail(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		created := &entity.User{Email: "find@example.com", Password: "digest"}
		require.NoError(t, repo.Create(context.Background(), created))

		found, err := repo.FindByEmail(context.Background(), "find@example.com")

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "find@example.com", found.Email)
	})

	t.Run("unknown email returns ErrUserNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		_, err := repo.FindByEmail(context.Background(), "missing@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserMySQL_FindByID(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		created := &entity.User{Email: "byid@example.com", Password: "digest", Admin: true}
		require.NoError(t, repo.Create(context.Background(), created))

		found, err := repo.FindByID(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, "byid@example.com", found.Email)
		assert.True(t, found.Admin)
	})

	t.Run("unknown id returns ErrUserNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		_, err := repo.FindByID(context.Background(), 9999)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}
