package repository

import (
	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
)

// Repository defines the interface for channel config persistence
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> SQLite -> MongoDB)
type Repository interface {
	Save(config *domain.Config) error
	Get(channelID int64) (*domain.Config, error)
	ListByOwner(userID int64) ([]int64, error)
	Delete(channelID int64) error
}
