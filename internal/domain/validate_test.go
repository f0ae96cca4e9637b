package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReview(t *testing.T) {
	tests := []struct {
		name  string
		title string
		essay string
		want  error
	}{
		{"empty title", "", "", TitleRequired},
		{"empty title with long essay", "", strings.Repeat("e", 300), TitleRequired},
		{"single char title", "a", "", nil},
		{"great film", "Great film", "", nil},
		{"title at limit", strings.Repeat("t", 50), strings.Repeat("e", 280), nil},
		{"title over limit", strings.Repeat("t", 51), "", TitleTooLong},
		{"title over limit wins over essay", strings.Repeat("t", 51), strings.Repeat("e", 281), TitleTooLong},
		{"essay over limit", "ok", strings.Repeat("e", 281), ReviewTooLong},
		{"multibyte title at limit", strings.Repeat("映", 50), "", nil},
		{"multibyte title over limit", strings.Repeat("映", 51), "", TitleTooLong},
		{"emoji essay at limit", "ok", strings.Repeat("🎬", 280), nil},
		{"emoji essay over limit", "ok", strings.Repeat("🎬", 281), ReviewTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateReview(tt.title, tt.essay))
		})
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, 6000, int(TitleTooLong))
	assert.Equal(t, 6001, int(ReviewTooLong))
	assert.Equal(t, 6002, int(TitleRequired))
	assert.Equal(t, "TitleRequired", TitleRequired.Name())
	assert.Equal(t, "Topic Required.", TitleRequired.Error())
}
