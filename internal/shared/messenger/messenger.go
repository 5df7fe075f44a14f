// Package messenger defines the narrow contract the bot core needs from the
// messaging transport. Implementations live under internal/transport.
package messenger

import "context"

// Surface is the kind of message body a menu is rendered as: a plain text
// message, or a media message whose caption carries the text. Editing must
// target the matching surface; the transport reports a mismatch as
// EditSurfaceMismatch rather than guessing.
type Surface string

const (
	SurfaceText  Surface = "text"
	SurfaceMedia Surface = "media"
)

// MessageRef identifies a message the bot may later edit or delete.
type MessageRef struct {
	ChatID    int64   `json:"chat_id"`
	MessageID int     `json:"message_id"`
	Surface   Surface `json:"surface"`
}

// Content is the renderable body of a message. Text is interpreted as
// Telegram HTML. PhotoURL is only consulted for fresh sends on the media
// surface.
type Content struct {
	Text     string
	PhotoURL string
}

// Button is one inline keyboard button. Action is opaque callback data;
// a non-empty URL makes it a link button instead.
type Button struct {
	Label  string
	Action string
	URL    string
}

// Keyboard is rows of buttons.
type Keyboard [][]Button

// EditOutcome classifies the result of an edit attempt.
type EditOutcome int

const (
	EditOK EditOutcome = iota
	// EditNotModified means the displayed content already equals the
	// requested content. Treated as a silent success everywhere.
	EditNotModified
	// EditSurfaceMismatch means the target message's surface does not match
	// the ref (e.g. editing text on a photo message).
	EditSurfaceMismatch
	EditForbidden
	EditNotFound
)

// Messenger is the transport collaborator consumed by the core. Every call is
// a fallible, time-bounded request; none retries on failure.
type Messenger interface {
	// Send creates a new message on the given surface and returns its ref.
	Send(ctx context.Context, chatID int64, surface Surface, content Content, kb Keyboard) (MessageRef, error)

	// Edit rewrites an existing message in place. A mapped outcome comes back
	// with a nil error; the error is only non-nil for unclassified transport
	// failures.
	Edit(ctx context.Context, ref MessageRef, content Content, kb Keyboard) (EditOutcome, error)

	// Delete removes a message. Best effort.
	Delete(ctx context.Context, ref MessageRef) error

	// ForwardOrResend duplicates the referenced message into destChatID with
	// its original content.
	ForwardOrResend(ctx context.Context, ref MessageRef, destChatID int64) error

	// ChannelTitle resolves a channel's display title. Returns
	// errors.ErrAccessDenied when the bot can no longer see the channel.
	ChannelTitle(ctx context.Context, channelID int64) (string, error)

	// Notify sends a plain HTML text message to a user's private chat.
	Notify(ctx context.Context, userID int64, text string) error
}
