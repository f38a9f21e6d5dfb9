package faceauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting/internal/service/faceauth"
)

func TestMatcher_ThresholdBoundary(t *testing.T) {
	m, err := faceauth.NewMatcher([]faceauth.LabeledDescriptors{
		{Label: "V1", Descriptors: []faceauth.Descriptor{{0}}},
	}, faceauth.DefaultThreshold)
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  faceauth.Descriptor
		label  string
		accept bool
	}{
		{"exactly at threshold", faceauth.Descriptor{0.6}, "V1", true},
		{"just under threshold", faceauth.Descriptor{0.5999}, "V1", true},
		{"just over threshold", faceauth.Descriptor{0.6001}, faceauth.UnknownLabel, false},
		{"identical", faceauth.Descriptor{0}, "V1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := m.FindBestMatch(tt.query)
			assert.Equal(t, tt.label, match.Label)
			assert.Equal(t, tt.accept, m.Accepts(match))
		})
	}
}

func TestMatcher_UnknownLabelNeverAccepted(t *testing.T) {
	m, err := faceauth.NewMatcher([]faceauth.LabeledDescriptors{
		{Label: "V1", Descriptors: []faceauth.Descriptor{{0, 0}}},
	}, faceauth.DefaultThreshold)
	require.NoError(t, err)

	assert.False(t, m.Accepts(faceauth.Match{Label: faceauth.UnknownLabel, Distance: 0}))
	assert.False(t, m.Accepts(faceauth.Match{Label: faceauth.UnknownLabel, Distance: 0.3}))
}

func TestMatcher_NearestByMeanDistance(t *testing.T) {
	m, err := faceauth.NewMatcher([]faceauth.LabeledDescriptors{
		{Label: "A", Descriptors: []faceauth.Descriptor{{0, 0}, {0, 0.4}}},
		{Label: "B", Descriptors: []faceauth.Descriptor{{0.3, 0}}},
	}, faceauth.DefaultThreshold)
	require.NoError(t, err)

	match := m.FindBestMatch(faceauth.Descriptor{0, 0})

	assert.Equal(t, "A", match.Label)
	assert.InDelta(t, 0.2, match.Distance, 1e-9)
}

func TestMatcher_MismatchedLengthsNeverMatch(t *testing.T) {
	m, err := faceauth.NewMatcher([]faceauth.LabeledDescriptors{
		{Label: "A", Descriptors: []faceauth.Descriptor{{0, 0}}},
	}, faceauth.DefaultThreshold)
	require.NoError(t, err)

	match := m.FindBestMatch(faceauth.Descriptor{0, 0, 0})

	assert.Equal(t, faceauth.UnknownLabel, match.Label)
}

func TestNewMatcher_RequiresReferences(t *testing.T) {
	_, err := faceauth.NewMatcher(nil, faceauth.DefaultThreshold)
	assert.Error(t, err)

	_, err = faceauth.NewMatcher([]faceauth.LabeledDescriptors{{Label: "A"}}, faceauth.DefaultThreshold)
	assert.Error(t, err)
}
