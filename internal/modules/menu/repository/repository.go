package repository

import (
	"github.com/dkrasnov/auto-caption-bot/internal/modules/menu/domain"
)

// Registry holds active configuration sessions keyed by user id. One session
// per user; a second settings entry replaces the first.
type Registry interface {
	Get(userID int64) (*domain.Session, bool)
	Put(session *domain.Session)
	Delete(userID int64)
}
