package entitlement

import (
	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/progress"
)

// CompletedPurchaseSet holds the course card IDs a user has a completed
// purchase for. The zero value is usable and unlocks nothing.
type CompletedPurchaseSet map[uint]struct{}

// NewCompletedPurchaseSet builds a set from a slice of card IDs.
func NewCompletedPurchaseSet(cardIDs []uint) CompletedPurchaseSet {
	set := make(CompletedPurchaseSet, len(cardIDs))
	for _, id := range cardIDs {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the card ID is in the set.
func (s CompletedPurchaseSet) Contains(cardID uint) bool {
	_, ok := s[cardID]
	return ok
}

// Add inserts a card ID. Used for the optimistic local update right after a
// purchase completes, before the next full reload.
func (s CompletedPurchaseSet) Add(cardID uint) {
	s[cardID] = struct{}{}
}

// IsCardUnlocked reports whether the user may watch videos in the card: a
// free card is open to everyone, a paid card needs a completed purchase.
func IsCardUnlocked(card *catalog.CourseCard, purchased CompletedPurchaseSet) bool {
	if card == nil {
		return false
	}
	return card.IsFree() || purchased.Contains(card.ID())
}

// CanPlay reports whether the user has plays left on the video. The
// comparison is strict: once playsUsed reaches the ceiling no further play
// is permitted. A nil prog means the user has never played the video.
func CanPlay(video *catalog.Video, prog *progress.UserProgress) bool {
	if video == nil {
		return false
	}
	if prog == nil {
		return video.MaxPlays() > 0
	}
	return prog.PlaysUsed() < video.MaxPlays()
}

// IsVideoAccessible combines the card gate and the play ceiling. This is
// advisory; the store re-checks the ceiling inside the guarded increment, so
// a race between two last-play calls still lets only one through.
func IsVideoAccessible(video *catalog.Video, card *catalog.CourseCard,
	prog *progress.UserProgress, purchased CompletedPurchaseSet) bool {

	return IsCardUnlocked(card, purchased) && CanPlay(video, prog)
}

// PlaysRemaining returns how many plays the user has left on the video.
func PlaysRemaining(video *catalog.Video, prog *progress.UserProgress) uint {
	if video == nil {
		return 0
	}
	if prog == nil {
		return video.MaxPlays()
	}
	if prog.PlaysUsed() >= video.MaxPlays() {
		return 0
	}
	return video.MaxPlays() - prog.PlaysUsed()
}
