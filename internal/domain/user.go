package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Provider     string    `json:"provider" db:"provider"`
	ProfileImage *string   `json:"profile_image,omitempty" db:"profile_image"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleVoter
}

// Redirect is the dashboard a freshly signed-in user is routed to.
func (r Role) Redirect() string {
	if r == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/voter/dashboard"
}

// ProfilePath is the users/{admins|voters} bucket a sign-up profile is written to.
func (r Role) ProfilePath() string {
	if r == RoleAdmin {
		return "admins"
	}
	return "voters"
}

type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	AdminCode string `json:"admin_code,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResult struct {
	User     *User      `json:"user"`
	Tokens   *TokenPair `json:"tokens"`
	Role     Role       `json:"role"`
	Redirect string     `json:"redirect"`
}

// UserProfile is the profile record kept in the document store.
type UserProfile struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Role         Role      `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FederatedIdentity is what an external identity provider tells us about a user.
type FederatedIdentity struct {
	Provider  string
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Picture   string
}
