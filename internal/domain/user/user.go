package user

import (
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/google/uuid"
)

// Role distinguishes renters from car owners. Every account starts as a
// renter and may upgrade itself to owner.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleOwner
}

// User is the aggregate root for an account.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	role         Role
	imageURL     string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new renter account. The credential must already be hashed.
func NewUser(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         RoleUser,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, passwordHash string,
	role Role,
	imageURL string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		imageURL:     imageURL,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() uuid.UUID { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Email returns the unique login email.
func (u *User) Email() string { return u.email }

// PasswordHash returns the hashed credential.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the account role.
func (u *User) Role() Role { return u.role }

// ImageURL returns the profile image reference.
func (u *User) ImageURL() string { return u.imageURL }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// PromoteToOwner upgrades the account so it can list cars. Idempotent.
func (u *User) PromoteToOwner() {
	u.role = RoleOwner
	u.updatedAt = time.Now().UTC()
}

// SetImageURL stores a new profile image reference. The URL is an opaque
// pointer into the external image store.
func (u *User) SetImageURL(url string) {
	u.imageURL = url
	u.updatedAt = time.Now().UTC()
}
