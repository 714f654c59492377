package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

func TestToSubmitInput_DecodesSections(t *testing.T) {
	input, err := ToSubmitInput(SubmitForm{
		Pet:               "p-1",
		PersonalDetails:   `{"phone":"9876543210","idProofType":"pan"}`,
		LivingSituation:   `{"homeType":"House","hasYard":true,"otherPets":false}`,
		Experience:        `{"hasExperience":true,"experienceDetails":"fostered two cats"}`,
		ReasonForAdoption: "We have space and time for a dog",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", input.PetID)
	require.NotNil(t, input.PersonalDetails)
	assert.Equal(t, "pan", input.PersonalDetails.IDProofType)
	require.NotNil(t, input.LivingSituation)
	assert.True(t, input.LivingSituation.HasYard)
	require.NotNil(t, input.Experience)
	assert.Equal(t, "fostered two cats", input.Experience.ExperienceDetails)
}

func TestToSubmitInput_ReportsMalformedSections(t *testing.T) {
	input, err := ToSubmitInput(SubmitForm{Pet: "p-1", PersonalDetails: "{not json", Experience: ""})
	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "personalDetails")
	assert.NotContains(t, fields, "experience")
	assert.Nil(t, input.Experience)
}
