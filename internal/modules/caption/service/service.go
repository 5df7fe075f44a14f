package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	channelDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	postDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/post/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// ConfigSource provides channel configs to the pipeline.
type ConfigSource interface {
	Get(channelID int64) (*channelDomain.Config, error)
}

// Auditor duplicates processed posts into the audit destination. Best effort;
// implementations log their own failures.
type Auditor interface {
	Forward(ctx context.Context, post *postDomain.InboundPost)
}

// Service is the caption transformation pipeline: it derives an output
// caption from an inbound post and its channel's config, and edits the post
// only when the caption actually changes.
type Service struct {
	channels  ConfigSource
	auditor   Auditor
	messenger messenger.Messenger
}

// New creates a new caption pipeline
func New(channels ConfigSource, auditor Auditor, m messenger.Messenger) *Service {
	return &Service{
		channels:  channels,
		auditor:   auditor,
		messenger: m,
	}
}

// BuildCaption computes the output caption for a post under a config.
// Pure; no transport calls.
func BuildCaption(post *postDomain.InboundPost, config *channelDomain.Config) string {
	fileName := post.FileName
	if fileName == "" {
		fileName = "Photo"
	}

	fileName = CleanFileName(fileName, config.LinkRemoverEnabled, config.BannedWords)
	title, _ := SplitTitle(fileName)

	if config.HasTemplate() {
		return RenderTemplate(config.CaptionTemplate, fileName, title, FormatSize(post.FileSizeBytes), post.Caption)
	}
	return title
}

// Process handles one inbound channel post. An unmanaged channel is a total
// no-op with zero transport calls. The audit duplication and the caption edit
// are independent: neither failure prevents the other.
func (s *Service) Process(ctx context.Context, post *postDomain.InboundPost) {
	config, err := s.channels.Get(post.ChannelID)
	if err != nil {
		if !stderrors.Is(err, errors.ErrChannelNotFound) {
			slog.Error("Failed to load channel config", "channel_id", post.ChannelID, "error", err)
		}
		return
	}

	s.auditor.Forward(ctx, post)

	output := BuildCaption(post, config)
	if output == post.Caption {
		// Nothing to change; the no-op guarantee means no edit call at all.
		return
	}

	ref := messenger.MessageRef{
		ChatID:    post.ChannelID,
		MessageID: post.MessageID,
		Surface:   messenger.SurfaceMedia,
	}
	outcome, err := s.messenger.Edit(ctx, ref, messenger.Content{Text: output}, nil)
	if err != nil {
		slog.Error("Failed to edit caption", "channel_id", post.ChannelID, "message_id", post.MessageID, "error", err)
		return
	}

	switch outcome {
	case messenger.EditOK:
		slog.Info("Edited caption", "channel_id", post.ChannelID, "message_id", post.MessageID)
	case messenger.EditNotModified:
		// Displayed content already matches; silent success.
	default:
		// The channel has no interactive party to notify; log only.
		slog.Error("Caption edit rejected", "channel_id", post.ChannelID, "message_id", post.MessageID, "outcome", int(outcome))
	}
}
