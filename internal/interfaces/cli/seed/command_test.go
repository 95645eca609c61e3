package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/infrastructure/repository"
	"kuppi/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SubjectModel{},
		&models.CourseCardModel{},
		&models.VideoModel{},
	)
	require.NoError(t, err)

	return db
}

func TestApply_LoadsDemoCatalog(t *testing.T) {
	db := setupTestDB(t)
	log := logger.NewLogger()
	subjectRepo := repository.NewSubjectRepository(db, log)
	cardRepo := repository.NewCourseCardRepository(db, log)
	videoRepo := repository.NewVideoRepository(db, log)
	ctx := context.Background()

	require.NoError(t, apply(ctx, subjectRepo, cardRepo, videoRepo, log))

	subjects, err := subjectRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.NotEmpty(t, subjects[0].SID())

	cards, err := cardRepo.ListBySubjectID(ctx, subjects[0].ID())
	require.NoError(t, err)
	require.Len(t, cards, 3)

	for _, card := range cards {
		assert.False(t, card.IsFree())
		assert.Equal(t, "LKR", card.Currency())

		videos, err := videoRepo.ListByCardID(ctx, card.ID())
		require.NoError(t, err)
		assert.Len(t, videos, 3)
		for _, v := range videos {
			assert.NotZero(t, v.MaxPlays(), "seeded videos get the default play ceiling")
		}
	}
}

func TestApply_RefusesNonEmptyCatalog(t *testing.T) {
	db := setupTestDB(t)
	log := logger.NewLogger()
	subjectRepo := repository.NewSubjectRepository(db, log)
	cardRepo := repository.NewCourseCardRepository(db, log)
	videoRepo := repository.NewVideoRepository(db, log)
	ctx := context.Background()

	require.NoError(t, apply(ctx, subjectRepo, cardRepo, videoRepo, log))

	err := apply(ctx, subjectRepo, cardRepo, videoRepo, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has")
}
