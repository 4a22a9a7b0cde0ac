package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDedupScope(t *testing.T) {
	scope, err := ParseDedupScope("")
	require.NoError(t, err)
	assert.Equal(t, DedupByOrganizer, scope)

	scope, err = ParseDedupScope("volunteer")
	require.NoError(t, err)
	assert.Equal(t, DedupByVolunteer, scope)

	_, err = ParseDedupScope("post")
	assert.Error(t, err)
}

func TestNewDedupKey(t *testing.T) {
	req := &VolunteerRequest{
		PostID:         "p1",
		OrganizerEmail: "org@example.com",
		VolunteerEmail: "vol@example.com",
	}

	byOrganizer := NewDedupKey(DedupByOrganizer, req)
	assert.Equal(t, "org@example.com", byOrganizer.Email)
	assert.Equal(t, "organizer:org@example.com:p1", byOrganizer.String())

	byVolunteer := NewDedupKey(DedupByVolunteer, req)
	assert.Equal(t, "vol@example.com", byVolunteer.Email)
	assert.NotEqual(t, byOrganizer.String(), byVolunteer.String())
}
