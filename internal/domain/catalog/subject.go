package catalog

import (
	"fmt"
	"time"

	"kuppi/internal/shared/id"
)

// Subject groups course cards under a single topic.
type Subject struct {
	id          uint
	sid         string // Stripe-style ID: sub_xxxxxxxx
	name        string
	description string
	sortOrder   int
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSubject creates a new subject
func NewSubject(name, description string, sortOrder int) (*Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("subject name too long (max 100 characters)")
	}

	now := time.Now()
	return &Subject{
		sid:         id.NewSubjectSID(),
		name:        name,
		description: description,
		sortOrder:   sortOrder,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSubject reconstructs a subject from persistence
func ReconstructSubject(
	id uint,
	sid string,
	name string,
	description string,
	sortOrder int,
	version int,
	createdAt, updatedAt time.Time,
) (*Subject, error) {
	if id == 0 {
		return nil, fmt.Errorf("subject ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("subject SID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}

	return &Subject{
		id:          id,
		sid:         sid,
		name:        name,
		description: description,
		sortOrder:   sortOrder,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (s *Subject) ID() uint {
	return s.id
}

// SetID assigns the persistence ID after insert
func (s *Subject) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subject ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subject ID cannot be zero")
	}
	s.id = id
	return nil
}

// SID returns the Stripe-style short ID
func (s *Subject) SID() string {
	return s.sid
}

func (s *Subject) Name() string {
	return s.name
}

func (s *Subject) Description() string {
	return s.description
}

func (s *Subject) SortOrder() int {
	return s.sortOrder
}

func (s *Subject) Version() int {
	return s.version
}

func (s *Subject) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subject) UpdatedAt() time.Time {
	return s.updatedAt
}

// UpdateInfo updates the subject's descriptive fields
func (s *Subject) UpdateInfo(name, description string) error {
	if name == "" {
		return fmt.Errorf("subject name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("subject name too long (max 100 characters)")
	}
	s.name = name
	s.description = description
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// UpdateSortOrder changes the position of the subject in listings
func (s *Subject) UpdateSortOrder(sortOrder int) {
	s.sortOrder = sortOrder
	s.updatedAt = time.Now()
	s.version++
}
