package domain

import "time"

// Record is one audit delivery attempt for a processed post.
type Record struct {
	ChannelID    int64     `json:"channel_id"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	MessageID    int       `json:"message_id"`
	MediaKind    string    `json:"media_kind"`
	FileName     string    `json:"file_name,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Status       string    `json:"status"`
	ForwardedAt  time.Time `json:"forwarded_at"`
}

const (
	StatusForwarded = "forwarded"
	StatusFailed    = "failed"
)
