package projection

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/entitlement"
	"kuppi/internal/domain/progress"
	"kuppi/internal/domain/purchase"
	"kuppi/internal/infrastructure/cache"
	"kuppi/internal/shared/logger"
)

// LibraryVideo is one video in a user's library view with play state resolved.
type LibraryVideo struct {
	SID            string `json:"sid"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	MediaRef       string `json:"media_ref,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Position       int    `json:"position"`
	MaxPlays       uint   `json:"max_plays"`
	PlaysUsed      uint   `json:"plays_used"`
	PlaysRemaining uint   `json:"plays_remaining"`
	CanPlay        bool   `json:"can_play"`
}

// LibraryCard is one course card in a user's library view. IsUnlocked is
// derived, never stored: free cards are always unlocked, paid cards iff a
// completed purchase exists.
type LibraryCard struct {
	SID         string         `json:"sid"`
	SubjectSID  string         `json:"subject_sid,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       uint64         `json:"price"`
	Currency    string         `json:"currency"`
	IsFree      bool           `json:"is_free"`
	IsPurchased bool           `json:"is_purchased"`
	IsUnlocked  bool           `json:"is_unlocked"`
	SortOrder   int            `json:"sort_order"`
	Videos      []LibraryVideo `json:"videos"`
}

// LibraryView is the full per-user projection pushed over the live channel.
type LibraryView struct {
	Cards []LibraryCard `json:"cards"`
}

// LibraryViewBuilder recomputes a user's library view from current state.
// The projector calls it on every relevant change event; handlers call it
// for the initial fetch. The output is always derived from storage plus the
// entitlement evaluator, never patched incrementally, so a missed event can
// delay an update but never corrupt one.
type LibraryViewBuilder struct {
	subjectRepo      catalog.SubjectRepository
	cardRepo         catalog.CourseCardRepository
	videoRepo        catalog.VideoRepository
	progressRepo     progress.UserProgressRepository
	purchaseRepo     purchase.PurchaseRepository
	entitlementCache cache.EntitlementCache
	logger           logger.Interface
}

func NewLibraryViewBuilder(
	subjectRepo catalog.SubjectRepository,
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	progressRepo progress.UserProgressRepository,
	purchaseRepo purchase.PurchaseRepository,
	entitlementCache cache.EntitlementCache,
	logger logger.Interface,
) *LibraryViewBuilder {
	return &LibraryViewBuilder{
		subjectRepo:      subjectRepo,
		cardRepo:         cardRepo,
		videoRepo:        videoRepo,
		progressRepo:     progressRepo,
		purchaseRepo:     purchaseRepo,
		entitlementCache: entitlementCache,
		logger:           logger,
	}
}

// Build assembles the library view for one user.
func (b *LibraryViewBuilder) Build(ctx context.Context, userID uint) (*LibraryView, error) {
	cards, err := b.cardRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course cards: %w", err)
	}

	cardIDs := make([]uint, 0, len(cards))
	for _, c := range cards {
		cardIDs = append(cardIDs, c.ID())
	}

	videos, err := b.videoRepo.ListByCardIDs(ctx, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	videosByCard := make(map[uint][]*catalog.Video)
	videoIDs := make([]uint, 0, len(videos))
	for _, v := range videos {
		videosByCard[v.CardID()] = append(videosByCard[v.CardID()], v)
		videoIDs = append(videoIDs, v.ID())
	}

	progressByVideo := make(map[uint]*progress.UserProgress)
	if len(videoIDs) > 0 {
		progressRows, err := b.progressRepo.ListByUserAndVideoIDs(ctx, userID, videoIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list play counts: %w", err)
		}
		for _, p := range progressRows {
			progressByVideo[p.VideoID()] = p
		}
	}

	purchased, err := b.completedCardSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjectSIDs := make(map[uint]string)
	view := &LibraryView{Cards: make([]LibraryCard, 0, len(cards))}
	for _, c := range cards {
		subjectSID, ok := subjectSIDs[c.SubjectID()]
		if !ok {
			if subject, err := b.subjectRepo.GetByID(ctx, c.SubjectID()); err == nil {
				subjectSID = subject.SID()
			}
			subjectSIDs[c.SubjectID()] = subjectSID
		}

		unlocked := entitlement.IsCardUnlocked(c, purchased)
		libraryCard := LibraryCard{
			SID:         c.SID(),
			SubjectSID:  subjectSID,
			Name:        c.Name(),
			Description: c.Description(),
			Price:       c.Price(),
			Currency:    c.Currency(),
			IsFree:      c.IsFree(),
			IsPurchased: purchased.Contains(c.ID()),
			IsUnlocked:  unlocked,
			SortOrder:   c.SortOrder(),
			Videos:      make([]LibraryVideo, 0, len(videosByCard[c.ID()])),
		}

		for _, v := range videosByCard[c.ID()] {
			prog := progressByVideo[v.ID()]
			playsUsed := uint(0)
			if prog != nil {
				playsUsed = prog.PlaysUsed()
			}
			libraryCard.Videos = append(libraryCard.Videos, LibraryVideo{
				SID:            v.SID(),
				Title:          v.Title(),
				Description:    v.Description(),
				MediaRef:       v.MediaRef(),
				Duration:       v.Duration(),
				Position:       v.Position(),
				MaxPlays:       v.MaxPlays(),
				PlaysUsed:      playsUsed,
				PlaysRemaining: entitlement.PlaysRemaining(v, prog),
				CanPlay:        unlocked && entitlement.CanPlay(v, prog),
			})
		}

		view.Cards = append(view.Cards, libraryCard)
	}

	return view, nil
}

func (b *LibraryViewBuilder) completedCardSet(ctx context.Context, userID uint) (entitlement.CompletedPurchaseSet, error) {
	cardIDs, hit, err := b.entitlementCache.GetCardIDs(ctx, userID)
	if err != nil {
		b.logger.Warnw("entitlement cache read failed", "user_id", userID, "error", err)
	}
	if hit {
		return entitlement.NewCompletedPurchaseSet(cardIDs), nil
	}

	cardIDs, err = b.purchaseRepo.ListCompletedCardIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlements: %w", err)
	}

	if cacheErr := b.entitlementCache.SetCardIDs(ctx, userID, cardIDs); cacheErr != nil {
		b.logger.Warnw("entitlement cache write failed", "user_id", userID, "error", cacheErr)
	}

	return entitlement.NewCompletedPurchaseSet(cardIDs), nil
}
