package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"kuppi/internal/shared/id"
)

// User is an authenticated identity. Admin is a single capability flag, not
// a role hierarchy; it is granted at creation for the bootstrap identity and
// is never self-escalatable.
type User struct {
	id           uint
	sid          string // Stripe-style ID: usr_xxxxxxxx
	email        string
	name         string
	passwordHash string
	isAdmin      bool
	lastLoginAt  *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new user. bootstrapAdminEmail is the one reserved
// identity that starts with the admin flag set.
func NewUser(email, name, passwordHash, bootstrapAdminEmail string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	isAdmin := bootstrapAdminEmail != "" &&
		email == strings.ToLower(strings.TrimSpace(bootstrapAdminEmail))

	now := time.Now()
	return &User{
		sid:          id.NewUserSID(),
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		isAdmin:      isAdmin,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(
	id uint,
	sid string,
	email string,
	name string,
	passwordHash string,
	isAdmin bool,
	lastLoginAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("user SID is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:           id,
		sid:          sid,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		isAdmin:      isAdmin,
		lastLoginAt:  lastLoginAt,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

// SetID assigns the persistence ID after insert
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// SID returns the Stripe-style short ID
func (u *User) SID() string {
	return u.sid
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Name() string {
	return u.name
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) IsAdmin() bool {
	return u.isAdmin
}

func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

func (u *User) Version() int {
	return u.version
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// RecordLogin stamps a successful authentication
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
	u.updatedAt = now
}

// UpdateName changes the display name
func (u *User) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	u.name = name
	u.updatedAt = time.Now()
	u.version++
	return nil
}

// ChangePasswordHash replaces the stored credential hash
func (u *User) ChangePasswordHash(passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = passwordHash
	u.updatedAt = time.Now()
	u.version++
	return nil
}
