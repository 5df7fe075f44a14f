package service

import (
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/repository"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

// Service handles channel config business logic. Reads are not linearized
// with concurrent menu writes; last write wins on the whole record.
type Service struct {
	repo repository.Repository
}

// New creates a new channel config service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a channel config by ID
func (s *Service) Get(channelID int64) (*domain.Config, error) {
	return s.repo.Get(channelID)
}

// ListOwned lists the ids of channels owned by userID
func (s *Service) ListOwned(userID int64) ([]int64, error) {
	return s.repo.ListByOwner(userID)
}

// AuthorizeOwner loads the config and verifies that userID is still its
// owner. Every mutating settings action goes through this check.
func (s *Service) AuthorizeOwner(channelID, userID int64) (*domain.Config, error) {
	config, err := s.repo.Get(channelID)
	if err != nil {
		return nil, err
	}
	if config.OwnerUserID != userID {
		return nil, errors.ErrUnauthorized
	}
	return config, nil
}

// ToggleLinkRemover flips the link remover flag and returns the updated config.
func (s *Service) ToggleLinkRemover(channelID, userID int64) (*domain.Config, error) {
	config, err := s.AuthorizeOwner(channelID, userID)
	if err != nil {
		return nil, err
	}

	config.LinkRemoverEnabled = !config.LinkRemoverEnabled
	if err := s.repo.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SetCaptionTemplate stores a new caption template. An empty template means
// "use the pipeline default".
func (s *Service) SetCaptionTemplate(channelID, userID int64, template string) (*domain.Config, error) {
	config, err := s.AuthorizeOwner(channelID, userID)
	if err != nil {
		return nil, err
	}

	config.CaptionTemplate = template
	if err := s.repo.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SetBannedWords atomically replaces the banned word list.
func (s *Service) SetBannedWords(channelID, userID int64, words []string) (*domain.Config, error) {
	config, err := s.AuthorizeOwner(channelID, userID)
	if err != nil {
		return nil, err
	}

	config.BannedWords = words
	if err := s.repo.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// UpdateTitle caches the latest resolved display title on the record.
func (s *Service) UpdateTitle(channelID int64, title string) {
	config, err := s.repo.Get(channelID)
	if err != nil || config.Title == title {
		return
	}
	config.Title = title
	if err := s.repo.Save(config); err != nil {
		slog.Error("Failed to update channel title", "channel_id", channelID, "error", err)
	}
}

// Remove deletes the channel config after an owner check.
func (s *Service) Remove(channelID, userID int64) error {
	if _, err := s.AuthorizeOwner(channelID, userID); err != nil {
		return err
	}
	return s.repo.Delete(channelID)
}

// Evict drops a config without an owner check. Used when the transport
// reports the bot can no longer access the channel (stale admin grant).
func (s *Service) Evict(channelID int64) {
	if err := s.repo.Delete(channelID); err != nil {
		slog.Error("Failed to evict channel config", "channel_id", channelID, "error", err)
		return
	}
	slog.Info("Evicted stale channel config", "channel_id", channelID)
}

// ParseBannedWords parses a comma-separated word list, trimming entries and
// dropping empty ones.
func ParseBannedWords(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}
