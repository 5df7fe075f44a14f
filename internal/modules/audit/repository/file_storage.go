package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/audit/domain"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based audit record repository
func NewFileStorage(basePath string) (Repository, error) {
	auditPath := filepath.Join(basePath, "audit")
	if err := os.MkdirAll(auditPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create audit directory").Wrap(err)
	}

	return &FileStorage{basePath: auditPath}, nil
}

func (s *FileStorage) SaveRecord(record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Zero-padded timestamp prefix keeps directory order chronological.
	name := fmt.Sprintf("%020d-%d-%d.json", record.ForwardedAt.UnixNano(), record.ChannelID, record.MessageID)
	path := filepath.Join(s.basePath, name)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oops.With("channel_id", record.ChannelID, "message_id", record.MessageID, "context", "failed to marshal audit record").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetRecent(limit int) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Record{}, nil
		}
		return nil, oops.With("directory", s.basePath, "context", "failed to read audit directory").Wrap(err)
	}

	var records []*domain.Record
	count := 0
	for i := len(entries) - 1; i >= 0 && count < limit; i-- {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.basePath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var record domain.Record
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}

		records = append(records, &record)
		count++
	}

	return records, nil
}
