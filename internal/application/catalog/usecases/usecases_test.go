package usecases

import (
	"context"
	"testing"
	"time"

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
	"kuppi/internal/shared/db"
	"kuppi/internal/shared/logger"
)

type catalogEvent struct {
	entitySID string
}

type fakePublisher struct {
	catalogEvents []catalogEvent
}

func (p *fakePublisher) PublishCatalogChange(ctx context.Context, entitySID string) error {
	p.catalogEvents = append(p.catalogEvents, catalogEvent{entitySID: entitySID})
	return nil
}

func (p *fakePublisher) PublishProgressChange(ctx context.Context, userID uint, videoSID string) error {
	return nil
}

func (p *fakePublisher) PublishPurchaseChange(ctx context.Context, userID uint, cardSID string) error {
	return nil
}

type fixture struct {
	db        *gorm.DB
	publisher *fakePublisher
	txManager *db.TransactionManager

	userRepo     user.UserRepository
	subjectRepo  catalog.SubjectRepository
	cardRepo     catalog.CourseCardRepository
	videoRepo    catalog.VideoRepository
	progressRepo progress.UserProgressRepository
	purchaseRepo purchase.PurchaseRepository

	subject *catalog.Subject
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.UserModel{},
		&models.SubjectModel{},
		&models.CourseCardModel{},
		&models.VideoModel{},
		&models.UserProgressModel{},
		&models.PurchaseModel{},
	))

	log := logger.NewLogger()
	f := &fixture{
		db:           gdb,
		publisher:    &fakePublisher{},
		txManager:    db.NewTransactionManager(gdb),
		userRepo:     repository.NewUserRepository(gdb, log),
		subjectRepo:  repository.NewSubjectRepository(gdb, log),
		cardRepo:     repository.NewCourseCardRepository(gdb, log),
		videoRepo:    repository.NewVideoRepository(gdb, log),
		progressRepo: repository.NewUserProgressRepository(gdb, log),
		purchaseRepo: repository.NewPurchaseRepository(gdb, log),
	}

	subject, err := catalog.NewSubject("Chemistry", "", 0)
	require.NoError(t, err)
	require.NoError(t, f.subjectRepo.Create(context.Background(), subject))
	f.subject = subject

	return f
}

// seedCard stores a card with one video and returns both.
func (f *fixture) seedCard(t *testing.T, name string, isFree bool) (*catalog.CourseCard, *catalog.Video) {
	t.Helper()
	ctx := context.Background()

	var price uint64 = 250000
	if isFree {
		price = 0
	}
	card, err := catalog.NewCourseCard(f.subject.ID(), name, "", price, "LKR", isFree, 0)
	require.NoError(t, err)
	require.NoError(t, f.cardRepo.Create(ctx, card))

	video, err := catalog.NewVideo(card.ID(), name+" 01", "", "media/"+card.SID(), "40:00", 3, 0)
	require.NoError(t, err)
	require.NoError(t, f.videoRepo.Create(ctx, video))

	return card, video
}

// seedViewer stores a user with one recorded play on the video and one
// completed purchase of the card.
func (f *fixture) seedViewer(t *testing.T, card *catalog.CourseCard, video *catalog.Video) *user.User {
	t.Helper()
	ctx := context.Background()

	viewer, err := user.NewUser("sunil@example.lk", "Sunil Jayawardena", "hashed-password", "")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Create(ctx, viewer))

	_, err = f.progressRepo.RecordPlay(ctx, viewer.ID(), video.ID(), video.MaxPlays())
	require.NoError(t, err)

	orderNo, err := vo.NewOrderNo(card.SID())
	require.NoError(t, err)
	paid, err := purchase.NewPurchase(
		viewer.ID(), card.ID(), orderNo,
		vo.NewMoney(250000, "LKR"), time.Hour,
	)
	require.NoError(t, err)
	require.NoError(t, paid.Complete("320025471"))
	require.NoError(t, f.purchaseRepo.Create(ctx, paid))

	return viewer
}
