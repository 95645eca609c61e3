package catalog

import (
	"fmt"
	"time"

	"kuppi/internal/shared/constants"
	"kuppi/internal/shared/id"
)

// Video is a single gated lesson inside a course card. Per-user play counts
// are tracked separately and merged in at read time; the video itself only
// carries the ceiling.
type Video struct {
	id          uint
	sid         string // Stripe-style ID: vid_xxxxxxxx
	cardID      uint
	title       string
	description string
	mediaRef    string // hosted-video identifier, may be empty until uploaded
	duration    string
	maxPlays    uint
	position    int
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewVideo creates a new video. A zero maxPlays falls back to the domain
// default ceiling.
func NewVideo(cardID uint, title, description, mediaRef, duration string,
	maxPlays uint, position int) (*Video, error) {

	if cardID == 0 {
		return nil, fmt.Errorf("course card ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("video title is required")
	}
	if len(title) > 150 {
		return nil, fmt.Errorf("video title too long (max 150 characters)")
	}
	if maxPlays == 0 {
		maxPlays = constants.DefaultMaxPlays
	}

	now := time.Now()
	return &Video{
		sid:         id.NewVideoSID(),
		cardID:      cardID,
		title:       title,
		description: description,
		mediaRef:    mediaRef,
		duration:    duration,
		maxPlays:    maxPlays,
		position:    position,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructVideo reconstructs a video from persistence
func ReconstructVideo(
	id uint,
	sid string,
	cardID uint,
	title string,
	description string,
	mediaRef string,
	duration string,
	maxPlays uint,
	position int,
	version int,
	createdAt, updatedAt time.Time,
) (*Video, error) {
	if id == 0 {
		return nil, fmt.Errorf("video ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("video SID is required")
	}
	if cardID == 0 {
		return nil, fmt.Errorf("course card ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("video title is required")
	}
	if maxPlays == 0 {
		return nil, fmt.Errorf("video max plays cannot be zero")
	}

	return &Video{
		id:          id,
		sid:         sid,
		cardID:      cardID,
		title:       title,
		description: description,
		mediaRef:    mediaRef,
		duration:    duration,
		maxPlays:    maxPlays,
		position:    position,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (v *Video) ID() uint {
	return v.id
}

// SetID assigns the persistence ID after insert
func (v *Video) SetID(id uint) error {
	if v.id != 0 {
		return fmt.Errorf("video ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("video ID cannot be zero")
	}
	v.id = id
	return nil
}

// SID returns the Stripe-style short ID
func (v *Video) SID() string {
	return v.sid
}

func (v *Video) CardID() uint {
	return v.cardID
}

func (v *Video) Title() string {
	return v.title
}

func (v *Video) Description() string {
	return v.description
}

func (v *Video) MediaRef() string {
	return v.mediaRef
}

func (v *Video) Duration() string {
	return v.duration
}

func (v *Video) MaxPlays() uint {
	return v.maxPlays
}

func (v *Video) Position() int {
	return v.position
}

func (v *Video) Version() int {
	return v.version
}

func (v *Video) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Video) UpdatedAt() time.Time {
	return v.updatedAt
}

// UpdateInfo updates the video's descriptive fields
func (v *Video) UpdateInfo(title, description, duration string) error {
	if title == "" {
		return fmt.Errorf("video title is required")
	}
	if len(title) > 150 {
		return fmt.Errorf("video title too long (max 150 characters)")
	}
	v.title = title
	v.description = description
	v.duration = duration
	v.updatedAt = time.Now()
	v.version++
	return nil
}

// SetMediaRef attaches or replaces the hosted-video identifier
func (v *Video) SetMediaRef(mediaRef string) {
	v.mediaRef = mediaRef
	v.updatedAt = time.Now()
	v.version++
}

// SetMaxPlays changes the play ceiling. Lowering the ceiling does not clamp
// existing per-user counts; it only affects future play checks.
func (v *Video) SetMaxPlays(maxPlays uint) error {
	if maxPlays == 0 {
		return fmt.Errorf("video max plays cannot be zero")
	}
	v.maxPlays = maxPlays
	v.updatedAt = time.Now()
	v.version++
	return nil
}

// SetPosition changes the ordering of the video within its card
func (v *Video) SetPosition(position int) {
	v.position = position
	v.updatedAt = time.Now()
	v.version++
}
