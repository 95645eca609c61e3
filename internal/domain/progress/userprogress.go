package progress

import (
	"fmt"
	"time"

	"kuppi/internal/shared/biztime"
)

// UserProgress tracks how many plays of a single video a single user has
// consumed. At most one record exists per (userID, videoID) pair; the store
// enforces the pair uniqueness and performs increments atomically so that
// concurrent plays never lose updates or climb past the ceiling.
type UserProgress struct {
	id            uint
	userID        uint
	videoID       uint
	playsUsed     uint
	lastWatchedAt time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewUserProgress creates the first-play record for a (user, video) pair.
func NewUserProgress(userID, videoID uint) (*UserProgress, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if videoID == 0 {
		return nil, fmt.Errorf("video ID is required")
	}

	now := biztime.NowUTC()
	return &UserProgress{
		userID:        userID,
		videoID:       videoID,
		playsUsed:     1,
		lastWatchedAt: now,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructUserProgress reconstructs a progress record from persistence
func ReconstructUserProgress(
	id uint,
	userID uint,
	videoID uint,
	playsUsed uint,
	lastWatchedAt time.Time,
	createdAt, updatedAt time.Time,
) (*UserProgress, error) {
	if id == 0 {
		return nil, fmt.Errorf("progress ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if videoID == 0 {
		return nil, fmt.Errorf("video ID is required")
	}

	return &UserProgress{
		id:            id,
		userID:        userID,
		videoID:       videoID,
		playsUsed:     playsUsed,
		lastWatchedAt: lastWatchedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (p *UserProgress) ID() uint {
	return p.id
}

// SetID assigns the persistence ID after insert
func (p *UserProgress) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("progress ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("progress ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *UserProgress) UserID() uint {
	return p.userID
}

func (p *UserProgress) VideoID() uint {
	return p.videoID
}

func (p *UserProgress) PlaysUsed() uint {
	return p.playsUsed
}

func (p *UserProgress) LastWatchedAt() time.Time {
	return p.lastWatchedAt
}

func (p *UserProgress) CreatedAt() time.Time {
	return p.createdAt
}

func (p *UserProgress) UpdatedAt() time.Time {
	return p.updatedAt
}
