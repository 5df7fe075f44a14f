package domain

import "time"

// Config is the publishing configuration of one managed channel. A record
// exists iff the bot believes it is an administrator of the channel with a
// known owner.
type Config struct {
	ID                 int64     `json:"id"`
	OwnerUserID        int64     `json:"owner_user_id"`
	Title              string    `json:"title"`
	CaptionTemplate    string    `json:"caption_template"`
	LinkRemoverEnabled bool      `json:"link_remover_enabled"`
	BannedWords        []string  `json:"banned_words"`
	AddedAt            time.Time `json:"added_at"`
}

// HasTemplate reports whether an administrator-supplied caption template is
// set.
func (c *Config) HasTemplate() bool {
	return c.CaptionTemplate != ""
}
