package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/audit/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/audit/repository"
	postDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/post/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Service re-delivers processed posts to the audit destination. Best effort:
// no retries, no ordering, no delivery guarantee.
type Service struct {
	destChatID int64
	repo       repository.Repository
	messenger  messenger.Messenger
}

// New creates a new audit forwarder targeting destChatID
func New(destChatID int64, repo repository.Repository, m messenger.Messenger) *Service {
	return &Service{
		destChatID: destChatID,
		repo:       repo,
		messenger:  m,
	}
}

// Forward duplicates the post (with its original caption) into the audit
// destination and records the attempt. Failures are logged, never propagated;
// the caption pipeline must not be blocked by audit problems.
func (s *Service) Forward(ctx context.Context, post *postDomain.InboundPost) {
	ref := messenger.MessageRef{
		ChatID:    post.ChannelID,
		MessageID: post.MessageID,
		Surface:   messenger.SurfaceMedia,
	}

	status := domain.StatusForwarded
	if err := s.messenger.ForwardOrResend(ctx, ref, s.destChatID); err != nil {
		slog.Error("Failed to forward post to audit channel", "channel_id", post.ChannelID, "message_id", post.MessageID, "dest", s.destChatID, "error", err)
		status = domain.StatusFailed
	} else {
		slog.Info("Forwarded post to audit channel", "channel_id", post.ChannelID, "message_id", post.MessageID)
	}

	record := &domain.Record{
		ChannelID:   post.ChannelID,
		MessageID:   post.MessageID,
		MediaKind:   post.Kind.String(),
		FileName:    post.FileName,
		Caption:     post.Caption,
		Status:      status,
		ForwardedAt: time.Now(),
	}
	if err := s.repo.SaveRecord(record); err != nil {
		slog.Error("Failed to save audit record", "channel_id", post.ChannelID, "message_id", post.MessageID, "error", err)
	}
}

// Recent returns the latest audit records, newest first.
func (s *Service) Recent(limit int) ([]*domain.Record, error) {
	return s.repo.GetRecent(limit)
}
