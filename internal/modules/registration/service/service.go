package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/repository"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Service reacts to the bot being promoted to administrator in a channel.
// This is the only path that creates a channel config.
type Service struct {
	repo      repository.Repository
	messenger messenger.Messenger
}

// New creates a new registration listener
func New(repo repository.Repository, m messenger.Messenger) *Service {
	return &Service{repo: repo, messenger: m}
}

// HandlePromotion upserts the channel config for channelID, owned by the user
// who performed the promotion, then notifies that user. Existing settings are
// preserved; only the owner (and cached title) change on re-promotion.
func (s *Service) HandlePromotion(ctx context.Context, channelID, promotedBy int64, title string) error {
	config, err := s.repo.Get(channelID)
	switch {
	case stderrors.Is(err, errors.ErrChannelNotFound):
		config = &domain.Config{
			ID:          channelID,
			OwnerUserID: promotedBy,
			Title:       title,
			AddedAt:     time.Now(),
		}
	case err != nil:
		return err
	default:
		config.OwnerUserID = promotedBy
		config.Title = title
	}

	if err := s.repo.Save(config); err != nil {
		return err
	}

	slog.Info("Bot promoted to admin", "channel_id", channelID, "user_id", promotedBy)

	text := fmt.Sprintf("✅ I've been successfully added as an admin to <b>%s</b>!\n\nYou can now configure its settings using the /settings command.", html.EscapeString(title))
	if err := s.messenger.Notify(ctx, promotedBy, text); err != nil {
		// The config is saved either way; the user just misses the heads-up.
		slog.Error("Failed to notify promoting user", "user_id", promotedBy, "channel_id", channelID, "error", err)
	}
	return nil
}
