package domain

// Response is an outbound telegram message.
type Response struct {
	ChatID   int64
	ReplyTo  int
	Text     string
	ImageURL string
	Audio    *Speech
	Err      error
}
