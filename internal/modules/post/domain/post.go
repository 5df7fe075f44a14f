package domain

// InboundPost is one media post received from a channel. Transient, never
// persisted.
type InboundPost struct {
	ChannelID     int64
	MessageID     int
	Kind          MediaKind
	FileName      string // empty for photos
	FileSizeBytes int64  // 0 when unknown
	Caption       string // original caption, possibly empty
}
