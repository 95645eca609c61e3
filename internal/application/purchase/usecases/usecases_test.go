package usecases

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kuppi/internal/application/purchase/paymentgateway"
	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/infrastructure/repository"
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

// fakeGateway trusts the callback payload as-is so tests exercise the
// reconciliation logic without recomputing gateway signatures.
type fakeGateway struct {
	checkoutErr error
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, req paymentgateway.CreateCheckoutRequest) (*paymentgateway.CheckoutSession, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &paymentgateway.CheckoutSession{
		CheckoutURL: "https://sandbox.payhere.lk/pay/checkout",
		Fields: map[string]string{
			"order_id": req.OrderNo,
			"amount":   "set-by-gateway",
		},
	}, nil
}

func (g *fakeGateway) VerifyCallback(values url.Values) (*paymentgateway.CallbackData, error) {
	cents, err := parseCents(values.Get("payhere_amount"))
	if err != nil {
		return nil, err
	}
	return &paymentgateway.CallbackData{
		OrderNo:          values.Get("order_id"),
		GatewayPaymentID: values.Get("payment_id"),
		Amount:           cents,
		Currency:         values.Get("payhere_currency"),
		StatusCode:       values.Get("status_code"),
		PaidAt:           time.Now().UTC(),
	}, nil
}

func parseCents(s string) (int64, error) {
	units, frac, ok := strings.Cut(s, ".")
	u, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		return 0, err
	}
	if !ok {
		return u * 100, nil
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	return u*100 + f, nil
}

type fakeCache struct {
	invalidated []uint
}

func (c *fakeCache) GetCardIDs(ctx context.Context, userID uint) ([]uint, bool, error) {
	return nil, false, nil
}

func (c *fakeCache) SetCardIDs(ctx context.Context, userID uint, cardIDs []uint) error {
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, userID uint) error {
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type publishedEvent struct {
	stream    string
	userID    uint
	entitySID string
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishCatalogChange(ctx context.Context, entitySID string) error {
	p.events = append(p.events, publishedEvent{stream: "catalog", entitySID: entitySID})
	return nil
}

func (p *fakePublisher) PublishProgressChange(ctx context.Context, userID uint, videoSID string) error {
	p.events = append(p.events, publishedEvent{stream: "progress", userID: userID, entitySID: videoSID})
	return nil
}

func (p *fakePublisher) PublishPurchaseChange(ctx context.Context, userID uint, cardSID string) error {
	p.events = append(p.events, publishedEvent{stream: "purchase", userID: userID, entitySID: cardSID})
	return nil
}

type fixture struct {
	db           *gorm.DB
	userRepo     user.UserRepository
	subjectRepo  catalog.SubjectRepository
	cardRepo     catalog.CourseCardRepository
	purchaseRepo purchase.PurchaseRepository
	cache        *fakeCache
	publisher    *fakePublisher
	gateway      *fakeGateway

	buyer *user.User
	card  *catalog.CourseCard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	log := logger.NewLogger()
	ctx := context.Background()

	f := &fixture{
		db:           db,
		userRepo:     repository.NewUserRepository(db, log),
		subjectRepo:  repository.NewSubjectRepository(db, log),
		cardRepo:     repository.NewCourseCardRepository(db, log),
		purchaseRepo: repository.NewPurchaseRepository(db, log),
		cache:        &fakeCache{},
		publisher:    &fakePublisher{},
		gateway:      &fakeGateway{},
	}

	buyer, err := user.NewUser("nimal@example.lk", "Nimal Perera", "hashed-password", "")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Create(ctx, buyer))
	f.buyer = buyer

	subject, err := catalog.NewSubject("Combined Maths", "", 0)
	require.NoError(t, err)
	require.NoError(t, f.subjectRepo.Create(ctx, subject))

	card, err := catalog.NewCourseCard(subject.ID(), "Combined Maths 2026", "Theory", 250000, "LKR", false, 0)
	require.NoError(t, err)
	require.NoError(t, f.cardRepo.Create(ctx, card))
	f.card = card

	return f
}

// pendingPurchase seeds a pending purchase for the fixture buyer and card.
func (f *fixture) pendingPurchase(t *testing.T, ttl time.Duration) *purchase.Purchase {
	t.Helper()
	orderNo, err := vo.NewOrderNo(f.card.SID())
	require.NoError(t, err)

	pending, err := purchase.NewPurchase(
		f.buyer.ID(), f.card.ID(), orderNo,
		vo.NewMoney(int64(f.card.Price()), f.card.Currency()), ttl,
	)
	require.NoError(t, err)
	require.NoError(t, f.purchaseRepo.Create(context.Background(), pending))
	return pending
}

func successNotify(orderNo string, amount, currency string) url.Values {
	v := url.Values{}
	v.Set("order_id", orderNo)
	v.Set("payment_id", "320025471")
	v.Set("payhere_amount", amount)
	v.Set("payhere_currency", currency)
	v.Set("status_code", paymentgateway.StatusCodeSuccess)
	return v
}
