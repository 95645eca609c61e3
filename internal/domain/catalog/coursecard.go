package catalog

import (
	"fmt"
	"time"

	"kuppi/internal/shared/id"
)

var validCurrencies = map[string]bool{
	"LKR": true,
	"USD": true,
	"EUR": true,
	"GBP": true,
	"INR": true,
}

// CourseCard is a purchasable bundle of videos under a subject.
// A free card is unlocked for every user; a paid card is unlocked only by a
// completed purchase. Free implies a zero price, which is enforced here so
// pricing and the free flag can never drift apart.
type CourseCard struct {
	id          uint
	sid         string // Stripe-style ID: card_xxxxxxxx
	subjectID   uint
	name        string
	description string
	price       uint64 // minor currency units
	currency    string
	isFree      bool
	sortOrder   int
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCourseCard creates a new course card
func NewCourseCard(subjectID uint, name, description string, price uint64,
	currency string, isFree bool, sortOrder int) (*CourseCard, error) {

	if subjectID == 0 {
		return nil, fmt.Errorf("subject ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("course card name is required")
	}
	if len(name) > 150 {
		return nil, fmt.Errorf("course card name too long (max 150 characters)")
	}
	if isFree && price != 0 {
		return nil, fmt.Errorf("free course card must have zero price")
	}
	if !isFree && price == 0 {
		return nil, fmt.Errorf("paid course card must have a non-zero price")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}

	now := time.Now()
	return &CourseCard{
		sid:         id.NewCourseCardSID(),
		subjectID:   subjectID,
		name:        name,
		description: description,
		price:       price,
		currency:    currency,
		isFree:      isFree,
		sortOrder:   sortOrder,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructCourseCard reconstructs a course card from persistence
func ReconstructCourseCard(
	id uint,
	sid string,
	subjectID uint,
	name string,
	description string,
	price uint64,
	currency string,
	isFree bool,
	sortOrder int,
	version int,
	createdAt, updatedAt time.Time,
) (*CourseCard, error) {
	if id == 0 {
		return nil, fmt.Errorf("course card ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("course card SID is required")
	}
	if subjectID == 0 {
		return nil, fmt.Errorf("subject ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("course card name is required")
	}
	if isFree && price != 0 {
		return nil, fmt.Errorf("free course card must have zero price")
	}

	return &CourseCard{
		id:          id,
		sid:         sid,
		subjectID:   subjectID,
		name:        name,
		description: description,
		price:       price,
		currency:    currency,
		isFree:      isFree,
		sortOrder:   sortOrder,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (c *CourseCard) ID() uint {
	return c.id
}

// SetID assigns the persistence ID after insert
func (c *CourseCard) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("course card ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("course card ID cannot be zero")
	}
	c.id = id
	return nil
}

// SID returns the Stripe-style short ID
func (c *CourseCard) SID() string {
	return c.sid
}

func (c *CourseCard) SubjectID() uint {
	return c.subjectID
}

func (c *CourseCard) Name() string {
	return c.name
}

func (c *CourseCard) Description() string {
	return c.description
}

func (c *CourseCard) Price() uint64 {
	return c.price
}

func (c *CourseCard) Currency() string {
	return c.currency
}

func (c *CourseCard) IsFree() bool {
	return c.isFree
}

func (c *CourseCard) SortOrder() int {
	return c.sortOrder
}

func (c *CourseCard) Version() int {
	return c.version
}

func (c *CourseCard) CreatedAt() time.Time {
	return c.createdAt
}

func (c *CourseCard) UpdatedAt() time.Time {
	return c.updatedAt
}

// UpdateInfo updates the card's descriptive fields
func (c *CourseCard) UpdateInfo(name, description string) error {
	if name == "" {
		return fmt.Errorf("course card name is required")
	}
	if len(name) > 150 {
		return fmt.Errorf("course card name too long (max 150 characters)")
	}
	c.name = name
	c.description = description
	c.updatedAt = time.Now()
	c.version++
	return nil
}

// SetPricing marks the card as paid with the given price
func (c *CourseCard) SetPricing(price uint64, currency string) error {
	if price == 0 {
		return fmt.Errorf("paid course card must have a non-zero price")
	}
	if !validCurrencies[currency] {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	c.price = price
	c.currency = currency
	c.isFree = false
	c.updatedAt = time.Now()
	c.version++
	return nil
}

// MarkFree marks the card as free and zeroes its price
func (c *CourseCard) MarkFree() {
	c.isFree = true
	c.price = 0
	c.updatedAt = time.Now()
	c.version++
}

// UpdateSortOrder changes the position of the card in listings
func (c *CourseCard) UpdateSortOrder(sortOrder int) {
	c.sortOrder = sortOrder
	c.updatedAt = time.Now()
	c.version++
}
