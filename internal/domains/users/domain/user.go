package domain

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

// Role grants access to admin operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrEmptyID      = errors.New("user id is required")
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("email must be a valid address")
	ErrInvalidPhone = errors.New("phone must be a 10-digit mobile number starting with 6-9")
	ErrInvalidRole  = errors.New("role must be user or admin")
)

// ParseRole defaults an empty value to RoleUser.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is a directory entry. Credentials live with the external identity provider.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  Role
}

// NewUser builds a user ensuring required invariants.
func NewUser(id, name, email, phone string, role Role) (*User, error) {
	u := &User{ID: strings.TrimSpace(id), Role: role}
	if err := u.UpdateProfile(name, email, phone); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies self-service fields. Phone is optional.
func (u *User) UpdateProfile(name, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	phone = strings.TrimSpace(phone)
	if phone != "" && !validation.IsIndianMobile(phone) {
		return ErrInvalidPhone
	}
	u.Name, u.Email, u.Phone = name, email, phone
	return nil
}

// Admin reports whether the user holds the admin role.
func (u *User) Admin() bool {
	return u.Role == RoleAdmin
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyID
	}
	if _, err := ParseRole(string(u.Role)); err != nil || u.Role == "" {
		return ErrInvalidRole
	}
	return u.UpdateProfile(u.Name, u.Email, u.Phone)
}

// Clone returns a copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
