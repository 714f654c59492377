package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" u-1 ", " Asha Rao ", "asha@example.com", "", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "Asha Rao", u.Name)
	assert.False(t, u.Admin())

	tests := []struct {
		name  string
		id    string
		uname string
		email string
		phone string
		role  Role
		want  error
	}{
		{"missing id", "", "A", "a@example.com", "", RoleUser, ErrEmptyID},
		{"missing name", "u", " ", "a@example.com", "", RoleUser, ErrEmptyName},
		{"bad email", "u", "A", "not-an-email", "", RoleUser, ErrInvalidEmail},
		{"bad phone", "u", "A", "a@example.com", "5876543210", RoleUser, ErrInvalidPhone},
		{"bad role", "u", "A", "a@example.com", "", Role("root"), ErrInvalidRole},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.id, tc.uname, tc.email, tc.phone, tc.role)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)
	r, err = ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)
	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
