package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type contact struct {
	Phone string `json:"phone" validate:"required,indian_mobile"`
}

type household struct {
	HasPets    bool    `json:"hasPets"`
	PetDetails string  `json:"petDetails" validate:"required_if=HasPets true"`
	Contact    contact `json:"contact"`
	Note       string  `json:"note" validate:"min=3"`
}

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	v := New()

	err := v.Struct(household{HasPets: true, Contact: contact{Phone: "5123456789"}, Note: "ok"})
	require.Error(t, err)

	var fields Errors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "petDetails")
	require.Contains(t, fields, "contact.phone")
	require.Contains(t, fields, "note")
	require.Equal(t, "is required when hasPets is true", fields["petDetails"])
}

func TestStruct_Passes(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(household{Contact: contact{Phone: "9876543210"}, Note: "fine"}))
}

func TestIsIndianMobile(t *testing.T) {
	require.True(t, IsIndianMobile("6000000000"))
	require.False(t, IsIndianMobile("600000000"))
	require.False(t, IsIndianMobile("+919876543210"))
	require.False(t, IsIndianMobile("1234567890"))
}

func TestErrors_AddKeepsFirstMessage(t *testing.T) {
	e := Errors{}
	e.Add("pet", "is required")
	e.Add("pet", "is invalid")
	require.Equal(t, "is required", e["pet"])
	require.Contains(t, e.Error(), "pet: is required")
}
