package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageRequest(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Draw a red fox", true},
		{"нарисуй кота", true},
		{"please GENERATE a sunset", true},
		{"what is this?", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageRequest(tt.text))
		})
	}
}

func TestImagePrompt(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/image a red fox", "a red fox"},
		{"/image@assistant_bot a red fox", "a red fox"},
		{"/IMAGE a red fox", "a red fox"},
		{"/image", ""},
		{"/image@assistant_bot", ""},
		{"draw a red fox", "draw a red fox"},
		{"/imagery", "/imagery"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ImagePrompt(tt.text))
		})
	}
}
