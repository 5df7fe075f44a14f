package service

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/oops"

	auditDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/audit/domain"
	auditRepo "github.com/dkrasnov/auto-caption-bot/internal/modules/audit/repository"
)

const recentLimit = 50

// Service renders recent audit activity as an RSS feed for operators who
// prefer a reader over scrolling the audit channel.
type Service struct {
	auditRepo auditRepo.Repository
}

// New creates a new feed service
func New(auditRepo auditRepo.Repository) *Service {
	return &Service{auditRepo: auditRepo}
}

// GenerateFeed builds the activity feed from the latest audit records.
func (s *Service) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	records, err := s.auditRepo.GetRecent(recentLimit)
	if err != nil {
		return nil, oops.With("context", "failed to load audit records").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Auto Caption Bot - Processed Posts",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed", baseURL)},
		Description: "Recent channel posts processed by the caption bot",
		Created:     time.Now(),
	}

	var items []*feeds.Item
	for _, record := range records {
		items = append(items, recordToFeedItem(record))
	}

	feed.Items = items
	return feed, nil
}

func recordToFeedItem(record *auditDomain.Record) *feeds.Item {
	title := record.FileName
	if title == "" {
		title = record.MediaKind
	}

	description := fmt.Sprintf("%s post %d in channel %d (%s)",
		record.MediaKind, record.MessageID, record.ChannelID, record.Status)
	if record.Caption != "" {
		description += "\nOriginal caption: " + record.Caption
	}

	return &feeds.Item{
		Title:       title,
		Description: description,
		Created:     record.ForwardedAt,
		Id:          fmt.Sprintf("%d-%d", record.ChannelID, record.MessageID),
	}
}
