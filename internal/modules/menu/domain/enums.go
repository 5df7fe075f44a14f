//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State represents a menu navigation state
// ENUM(idle,selecting_channel,channel_menu,caption_menu,words_menu,awaiting_caption_input,awaiting_words_input,confirm_removal)
type State string
