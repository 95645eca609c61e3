package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/progress"
	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/infrastructure/repository"
	"kuppi/internal/shared/logger"
)

type passthroughCache struct{}

func (passthroughCache) GetCardIDs(ctx context.Context, userID uint) ([]uint, bool, error) {
	return nil, false, nil
}

func (passthroughCache) SetCardIDs(ctx context.Context, userID uint, cardIDs []uint) error {
	return nil
}

func (passthroughCache) Invalidate(ctx context.Context, userID uint) error {
	return nil
}

type viewFixture struct {
	builder      *LibraryViewBuilder
	progressRepo progress.UserProgressRepository
	purchaseRepo purchase.PurchaseRepository

	viewer    *user.User
	freeCard  *catalog.CourseCard
	paidCard  *catalog.CourseCard
	freeVideo *catalog.Video
	paidVideo *catalog.Video
}

func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.SubjectModel{},
		&models.CourseCardModel{},
		&models.VideoModel{},
		&models.UserProgressModel{},
		&models.PurchaseModel{},
	))

	log := logger.NewLogger()
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db, log)
	subjectRepo := repository.NewSubjectRepository(db, log)
	cardRepo := repository.NewCourseCardRepository(db, log)
	videoRepo := repository.NewVideoRepository(db, log)
	progressRepo := repository.NewUserProgressRepository(db, log)
	purchaseRepo := repository.NewPurchaseRepository(db, log)

	f := &viewFixture{
		progressRepo: progressRepo,
		purchaseRepo: purchaseRepo,
	}
	f.builder = NewLibraryViewBuilder(
		subjectRepo, cardRepo, videoRepo, progressRepo, purchaseRepo,
		passthroughCache{}, log,
	)

	viewer, err := user.NewUser("dilani@example.lk", "Dilani Wickrama", "hashed-password", "")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, viewer))
	f.viewer = viewer

	subject, err := catalog.NewSubject("Biology", "", 0)
	require.NoError(t, err)
	require.NoError(t, subjectRepo.Create(ctx, subject))

	freeCard, err := catalog.NewCourseCard(subject.ID(), "Biology Basics", "", 0, "LKR", true, 0)
	require.NoError(t, err)
	require.NoError(t, cardRepo.Create(ctx, freeCard))
	f.freeCard = freeCard

	paidCard, err := catalog.NewCourseCard(subject.ID(), "Biology 2026", "", 400000, "LKR", false, 1)
	require.NoError(t, err)
	require.NoError(t, cardRepo.Create(ctx, paidCard))
	f.paidCard = paidCard

	freeVideo, err := catalog.NewVideo(freeCard.ID(), "Cells 01", "", "media/cells-01", "30:00", 2, 0)
	require.NoError(t, err)
	require.NoError(t, videoRepo.Create(ctx, freeVideo))
	f.freeVideo = freeVideo

	paidVideo, err := catalog.NewVideo(paidCard.ID(), "Genetics 01", "", "media/gen-01", "50:00", 3, 0)
	require.NoError(t, err)
	require.NoError(t, videoRepo.Create(ctx, paidVideo))
	f.paidVideo = paidVideo

	return f
}

func (f *viewFixture) cardBySID(t *testing.T, view *LibraryView, sid string) LibraryCard {
	t.Helper()
	for _, c := range view.Cards {
		if c.SID == sid {
			return c
		}
	}
	t.Fatalf("card %s not in view", sid)
	return LibraryCard{}
}

func TestLibraryView_LockStatesWithoutPurchase(t *testing.T) {
	f := newViewFixture(t)

	view, err := f.builder.Build(context.Background(), f.viewer.ID())
	require.NoError(t, err)
	require.Len(t, view.Cards, 2)

	free := f.cardBySID(t, view, f.freeCard.SID())
	assert.True(t, free.IsUnlocked)
	assert.False(t, free.IsPurchased)
	require.Len(t, free.Videos, 1)
	assert.True(t, free.Videos[0].CanPlay)
	assert.EqualValues(t, 2, free.Videos[0].PlaysRemaining)

	paid := f.cardBySID(t, view, f.paidCard.SID())
	assert.False(t, paid.IsUnlocked)
	require.Len(t, paid.Videos, 1)
	assert.False(t, paid.Videos[0].CanPlay, "a locked card never exposes playable videos")
}

func TestLibraryView_PurchaseUnlocksCard(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()

	orderNo, err := vo.NewOrderNo(f.paidCard.SID())
	require.NoError(t, err)
	paid, err := purchase.NewPurchase(
		f.viewer.ID(), f.paidCard.ID(), orderNo,
		vo.NewMoney(400000, "LKR"), time.Hour,
	)
	require.NoError(t, err)
	require.NoError(t, paid.Complete("320025471"))
	require.NoError(t, f.purchaseRepo.Create(ctx, paid))

	view, err := f.builder.Build(ctx, f.viewer.ID())
	require.NoError(t, err)

	card := f.cardBySID(t, view, f.paidCard.SID())
	assert.True(t, card.IsUnlocked)
	assert.True(t, card.IsPurchased)
	assert.True(t, card.Videos[0].CanPlay)
}

func TestLibraryView_PendingPurchaseUnlocksNothing(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()

	orderNo, err := vo.NewOrderNo(f.paidCard.SID())
	require.NoError(t, err)
	pending, err := purchase.NewPurchase(
		f.viewer.ID(), f.paidCard.ID(), orderNo,
		vo.NewMoney(400000, "LKR"), time.Hour,
	)
	require.NoError(t, err)
	require.NoError(t, f.purchaseRepo.Create(ctx, pending))

	view, err := f.builder.Build(ctx, f.viewer.ID())
	require.NoError(t, err)

	card := f.cardBySID(t, view, f.paidCard.SID())
	assert.False(t, card.IsUnlocked)
	assert.False(t, card.IsPurchased)
}

func TestLibraryView_ExhaustedPlaysBlockPlayback(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.progressRepo.RecordPlay(ctx, f.viewer.ID(), f.freeVideo.ID(), f.freeVideo.MaxPlays())
		require.NoError(t, err)
	}

	view, err := f.builder.Build(ctx, f.viewer.ID())
	require.NoError(t, err)

	free := f.cardBySID(t, view, f.freeCard.SID())
	require.Len(t, free.Videos, 1)
	assert.True(t, free.IsUnlocked)
	assert.EqualValues(t, 2, free.Videos[0].PlaysUsed)
	assert.Zero(t, free.Videos[0].PlaysRemaining)
	assert.False(t, free.Videos[0].CanPlay)
}
