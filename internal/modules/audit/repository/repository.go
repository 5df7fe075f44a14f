package repository

import (
	"github.com/dkrasnov/auto-caption-bot/internal/modules/audit/domain"
)

// Repository defines the interface for audit record persistence
type Repository interface {
	SaveRecord(record *domain.Record) error
	GetRecent(limit int) ([]*domain.Record, error)
}
