package ocr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/service/ocr"
)

func TestExtract_VoterCard(t *testing.T) {
	text := "ELECTION COMMISSION OF INDIA\n" +
		"Elector's Name: Ramesh Patil\n" +
		"Father's Name: Suresh Patil\n" +
		"EPIC No: ABC1234567\n" +
		"Sex: M\n" +
		"Date of Birth: 12/04/90\n" +
		"Address: House 12, MG Road\n" +
		"Wagholi, Pune"

	f, err := ocr.Extract(text)

	require.NoError(t, err)
	assert.Equal(t, "Ramesh Patil", f.Name)
	assert.Equal(t, "Suresh Patil", f.FatherName)
	assert.Equal(t, "ABC1234567", f.VoterNumber)
	assert.Equal(t, "Male", f.Gender)
	assert.Equal(t, "1990-04-12", f.DateOfBirth)
	assert.Equal(t, "House 12, MG Road, Wagholi, Pune", f.Address)
}

func TestExtract_PartialCard(t *testing.T) {
	text := "Name: Anita Deshmukh\n" +
		"Husband's Name: Vijay Deshmukh\n" +
		"Gender: Female\n" +
		"ABC7654321"

	f, err := ocr.Extract(text)

	require.NoError(t, err)
	assert.Equal(t, "Anita Deshmukh", f.Name)
	assert.Equal(t, "Vijay Deshmukh", f.FatherName)
	assert.Equal(t, "ABC7654321", f.VoterNumber)
	assert.Equal(t, "Female", f.Gender)
	assert.Empty(t, f.DateOfBirth)
	assert.Empty(t, f.Address)
}

func TestExtract_DateOfBirth(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"DOB: 1-2-1985", "1985-02-01"},
		{"Born on 25.12.05", "2005-12-25"},
		{"Date of Birth 07/09/2001", "2001-09-07"},
		{"issued 3/3/99", "1999-03-03"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f, err := ocr.Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.DateOfBirth)
		})
	}
}

func TestExtract_AddressStopsAtNextLabel(t *testing.T) {
	f, err := ocr.Extract("Address: 5 Lake View,\n\n Nashik Road Gender: Other")

	require.NoError(t, err)
	assert.Equal(t, "5 Lake View, Nashik Road", f.Address)
	assert.Equal(t, "Other", f.Gender)
}

func TestExtract_NothingFound(t *testing.T) {
	f, err := ocr.Extract("random noise 123")

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.True(t, f.Empty())
}
