package domain

import (
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Session is one administrator's active configuration dialog. Ephemeral:
// created on settings entry, replaced on reentry, destroyed on cancel or on a
// terminal action.
type Session struct {
	UserID    int64
	State     State
	ChannelID int64 // 0 until a channel is selected
	// MenuRef points at the message currently displaying the menu, so
	// transitions can edit it in place.
	MenuRef *messenger.MessageRef
}

// NewSession creates an idle session for userID.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateIdle}
}
