package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

// FileStorage implements Repository using one JSON file per channel
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based channel config repository
func NewFileStorage(basePath string) (Repository, error) {
	channelPath := filepath.Join(basePath, "channels")
	if err := os.MkdirAll(channelPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create channels directory").Wrap(err)
	}

	return &FileStorage{basePath: channelPath}, nil
}

func (s *FileStorage) Save(config *domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", config.ID))
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return oops.With("channel_id", config.ID, "context", "failed to marshal channel config").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) Get(channelID int64) (*domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", channelID))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrChannelNotFound
		}
		return nil, oops.With("channel_id", channelID, "context", "failed to read channel config").Wrap(err)
	}

	var config domain.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to unmarshal channel config").Wrap(err)
	}

	return &config, nil
}

func (s *FileStorage) ListByOwner(userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read channels directory").Wrap(err)
	}

	channels := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (int64, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return 0, false
		}

		id, err := strconv.ParseInt(strings.TrimSuffix(entry.Name(), ".json"), 10, 64)
		if err != nil {
			return 0, false
		}

		path := filepath.Join(s.basePath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, false
		}

		var config domain.Config
		if err := json.Unmarshal(data, &config); err != nil {
			return 0, false
		}

		return id, config.OwnerUserID == userID
	})

	return channels, nil
}

func (s *FileStorage) Delete(channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", channelID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return oops.With("channel_id", channelID, "context", "failed to delete channel config").Wrap(err)
	}
	return nil
}
