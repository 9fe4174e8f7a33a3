package keyword

import "strings"

var imageKeywords = []string{"рисуй", "draw", "generate", "нарисуй"}

// IsImageRequest reports whether a free-form message asks for a generated image.
func IsImageRequest(text string) bool {
	text = strings.ToLower(text)
	for _, kw := range imageKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ImagePrompt strips a leading /image command and returns what is left.
func ImagePrompt(text string) string {
	text = strings.TrimSpace(text)
	cmd, rest, _ := strings.Cut(text, " ")
	cmd = strings.ToLower(cmd)
	if cmd == "/image" || strings.HasPrefix(cmd, "/image@") {
		return strings.TrimSpace(rest)
	}
	return text
}
