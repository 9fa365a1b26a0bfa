package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/vkdrive/vkdrive/internal/shared"
)

// Role is a user's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s\-']{2,50}$`)

	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	specialRegex = regexp.MustCompile(`[@$!%*?&]`)
)

// User represents a registered account. VKToken and YandexToken hold the
// encrypted-at-rest values as stored; decryption happens at the token
// endpoint, never here.
type User struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	Active       bool      `json:"isActive"`
	VKToken      string    `json:"-"`
	YandexToken  string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser creates a user with generated ID and timestamps set to now.
func NewUser(email, firstName, lastName string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:        shared.GenerateID(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks registration fields against the service's rules.
func (u *User) Validate() error {
	if u.Email == "" || !emailRegex.MatchString(u.Email) {
		return fmt.Errorf("%w: invalid email format", shared.ErrValidation)
	}
	if !nameRegex.MatchString(u.FirstName) {
		return fmt.Errorf("%w: first name must be 2-50 letters", shared.ErrValidation)
	}
	if !nameRegex.MatchString(u.LastName) {
		return fmt.Errorf("%w: last name must be 2-50 letters", shared.ErrValidation)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: invalid role %q", shared.ErrValidation, u.Role)
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least 8
// characters with upper and lower case letters, a digit and a special
// character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) {
		return fmt.Errorf("%w: password must contain upper and lower case letters", shared.ErrValidation)
	}
	if !digitRegex.MatchString(password) {
		return fmt.Errorf("%w: password must contain a digit", shared.ErrValidation)
	}
	if !specialRegex.MatchString(password) {
		return fmt.Errorf("%w: password must contain a special character", shared.ErrValidation)
	}
	return nil
}

// Session represents an issued session token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession creates a session for the given user with the given lifetime.
func NewSession(userID, token string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        shared.GenerateID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TokenPair carries a user's decrypted provider tokens across the API
// boundary. Field names match the backend token endpoint's JSON contract.
type TokenPair struct {
	VK     string `json:"vkToken"`
	Yandex string `json:"yandexToken"`
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
