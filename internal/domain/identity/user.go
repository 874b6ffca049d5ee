package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/lcree/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"      // Locked due to failed attempts
	UserStatusDeactivated UserStatus = "deactivated" // Manually deactivated
)

// UserRole is the coarse permission level of a user.
type UserRole string

const (
	// RoleAdmin can manage users, settings and the catalog
	RoleAdmin UserRole = "ADMIN"
	// RoleOperator can commit productions and receive orders
	RoleOperator UserRole = "OPERATOR"
	// RoleViewer has read-only access
	RoleViewer UserRole = "VIEWER"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

// Lockout threshold and duration for failed login attempts
const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,50}$`)

// User is an operator account. Usernames are stored lowercased.
type User struct {
	shared.BaseEntity
	shared.SoftDeletable
	Username       string     `gorm:"size:50;not null;uniqueIndex"`
	DisplayName    string     `gorm:"size:100"`
	PasswordHash   string     `gorm:"size:100;not null"`
	Role           UserRole   `gorm:"size:10;not null;default:'OPERATOR'"`
	Status         UserStatus `gorm:"size:15;not null;default:'active';index"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a hashed password
func NewUser(username, password string, role UserRole) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME",
			"Username must be 3-50 characters of lowercase letters, digits, dot, underscore or hyphen")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_ROLE", "Unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       UserStatusActive,
	}, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// VerifyPassword checks a login attempt against lockout state and the hash.
// Failed attempts count toward a temporary lock; a success resets them.
func (u *User) VerifyPassword(password string) error {
	if u.Status == UserStatusDeactivated || u.IsDeleted() {
		return shared.ErrUnauthorized
	}
	if u.LockedUntil != nil {
		if time.Now().Before(*u.LockedUntil) {
			return shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
		}
		u.LockedUntil = nil
		u.FailedAttempts = 0
		if u.Status == UserStatusLocked {
			u.Status = UserStatusActive
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		u.FailedAttempts++
		if u.FailedAttempts >= maxFailedAttempts {
			until := time.Now().Add(lockoutDuration)
			u.LockedUntil = &until
			u.Status = UserStatusLocked
		}
		u.UpdatedAt = time.Now()
		return shared.ErrUnauthorized
	}

	now := time.Now()
	u.FailedAttempts = 0
	u.LastLoginAt = &now
	u.UpdatedAt = now
	return nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// Deactivate manually disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
}

// CanWrite returns true for roles allowed to mutate stock and commits
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperator
}
