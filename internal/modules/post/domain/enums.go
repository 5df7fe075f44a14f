//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MediaKind represents the type of media content in a channel post
// ENUM(document,video,audio,photo)
type MediaKind string
