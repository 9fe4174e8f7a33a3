package domain

const SpeechContentType = "audio/mpeg"

type Speech struct {
	Content     []byte
	ContentType string
}
