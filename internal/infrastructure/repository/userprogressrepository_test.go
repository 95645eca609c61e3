package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kuppi/internal/domain/progress"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.SubjectModel{},
		&models.CourseCardModel{},
		&models.VideoModel{},
		&models.UserProgressModel{},
		&models.PurchaseModel{},
	)
	require.NoError(t, err)

	return db
}

func TestUserProgressRepository_RecordPlay_FirstPlay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	prog, err := repo.RecordPlay(ctx, 1, 10, 3)

	require.NoError(t, err)
	assert.Equal(t, uint(1), prog.PlaysUsed())
	assert.False(t, prog.LastWatchedAt().IsZero())
}

func TestUserProgressRepository_RecordPlay_Increments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	for want := uint(1); want <= 3; want++ {
		prog, err := repo.RecordPlay(ctx, 1, 10, 3)
		require.NoError(t, err)
		assert.Equal(t, want, prog.PlaysUsed())
	}
}

func TestUserProgressRepository_RecordPlay_CeilingEnforced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.RecordPlay(ctx, 1, 10, 3)
		require.NoError(t, err)
	}

	// ceiling reached: every further attempt is rejected and the count
	// never moves
	for i := 0; i < 5; i++ {
		_, err := repo.RecordPlay(ctx, 1, 10, 3)
		assert.ErrorIs(t, err, progress.ErrNoPlaysRemaining)
	}

	prog, err := repo.GetByUserAndVideo(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(3), prog.PlaysUsed())
}

func TestUserProgressRepository_RecordPlay_ConcurrentLastSlot(t *testing.T) {
	db := setupTestDB(t)

	// A single pooled connection keeps every goroutine on the same
	// in-memory database; the guard itself lives in the UPDATE predicate.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	// burn all but the last play
	for i := 0; i < 2; i++ {
		_, err := repo.RecordPlay(ctx, 1, 10, 3)
		require.NoError(t, err)
	}

	const contenders = 8
	errs := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordPlay(ctx, 1, 10, 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	rejected := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, progress.ErrNoPlaysRemaining):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one contender may take the last slot")
	assert.Equal(t, contenders-1, rejected)

	prog, err := repo.GetByUserAndVideo(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(3), prog.PlaysUsed(), "count never moves past the ceiling")
}

func TestUserProgressRepository_RecordPlay_ZeroCeiling(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	_, err := repo.RecordPlay(ctx, 1, 10, 0)

	assert.ErrorIs(t, err, progress.ErrNoPlaysRemaining)
}

func TestUserProgressRepository_PairUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	// many plays across several pairs still leave one row per pair
	for i := 0; i < 3; i++ {
		_, err := repo.RecordPlay(ctx, 1, 10, 5)
		require.NoError(t, err)
	}
	_, err := repo.RecordPlay(ctx, 1, 11, 5)
	require.NoError(t, err)
	_, err = repo.RecordPlay(ctx, 2, 10, 5)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.UserProgressModel{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var pairCount int64
	require.NoError(t, db.Model(&models.UserProgressModel{}).
		Where("user_id = ? AND video_id = ?", 1, 10).Count(&pairCount).Error)
	assert.Equal(t, int64(1), pairCount)
}

func TestUserProgressRepository_RecordPlay_IndependentPairs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.RecordPlay(ctx, 1, 10, 3)
		require.NoError(t, err)
	}
	_, err := repo.RecordPlay(ctx, 1, 10, 3)
	require.ErrorIs(t, err, progress.ErrNoPlaysRemaining)

	// exhausting one pair must not affect another user or another video
	prog, err := repo.RecordPlay(ctx, 2, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(1), prog.PlaysUsed())

	prog, err = repo.RecordPlay(ctx, 1, 11, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(1), prog.PlaysUsed())
}

func TestUserProgressRepository_DeleteByVideoIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserProgressRepository(db, logger.NewLogger())
	ctx := context.Background()

	_, err := repo.RecordPlay(ctx, 1, 10, 3)
	require.NoError(t, err)
	_, err = repo.RecordPlay(ctx, 1, 11, 3)
	require.NoError(t, err)
	_, err = repo.RecordPlay(ctx, 2, 10, 3)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByVideoIDs(ctx, []uint{10}))

	var count int64
	require.NoError(t, db.Model(&models.UserProgressModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	remaining, err := repo.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, uint(11), remaining[0].VideoID())
}
