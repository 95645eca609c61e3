package progress

import (
	"context"
	"errors"
)

// ErrNoPlaysRemaining is returned by RecordPlay when the guarded increment
// finds the ceiling already reached. Callers surface it as a quota outcome,
// not a generic failure.
var ErrNoPlaysRemaining = errors.New("no plays remaining")

type UserProgressRepository interface {
	// RecordPlay atomically consumes one play for the (userID, videoID)
	// pair. A missing record is created with playsUsed=1; an existing one is
	// incremented only while playsUsed < maxPlays. The guard runs inside the
	// store so concurrent calls at the boundary cannot push the count past
	// the ceiling; the losing call gets ErrNoPlaysRemaining.
	RecordPlay(ctx context.Context, userID, videoID uint, maxPlays uint) (*UserProgress, error)

	GetByUserAndVideo(ctx context.Context, userID, videoID uint) (*UserProgress, error)
	ListByUserID(ctx context.Context, userID uint) ([]*UserProgress, error)
	ListByUserAndVideoIDs(ctx context.Context, userID uint, videoIDs []uint) ([]*UserProgress, error)

	DeleteByVideoIDs(ctx context.Context, videoIDs []uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}
