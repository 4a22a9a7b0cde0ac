package pkg

import (
	"testing"

	"Volunteer_Hub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRequestNoticeHTML(t *testing.T) {
	html := RequestNoticeHTML(&model.VolunteerRequest{
		PostTitle:      "Food <Drive>",
		OrganizerName:  "Org",
		VolunteerEmail: "vol@example.com",
		Suggestion:     "I can bring a van",
	})

	assert.Contains(t, html, "Food &lt;Drive&gt;")
	assert.Contains(t, html, "vol@example.com")
	assert.Contains(t, html, "I can bring a van")
	assert.NotContains(t, html, "<Drive>")
}

func TestSMTPConfigEnabled(t *testing.T) {
	assert.False(t, SMTPConfig{}.Enabled())
	assert.False(t, SMTPConfig{Host: "smtp.example.com"}.Enabled())
	assert.True(t, SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}.Enabled())
}
