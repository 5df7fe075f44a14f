package service

import (
	"context"
	"strings"
	"testing"

	"github.com/samber/oops"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/repository"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

type fakeNotifier struct {
	notices map[int64][]string
}

func (f *fakeNotifier) Send(_ context.Context, chatID int64, surface messenger.Surface, _ messenger.Content, _ messenger.Keyboard) (messenger.MessageRef, error) {
	return messenger.MessageRef{ChatID: chatID, MessageID: 1, Surface: surface}, nil
}

func (f *fakeNotifier) Edit(_ context.Context, _ messenger.MessageRef, _ messenger.Content, _ messenger.Keyboard) (messenger.EditOutcome, error) {
	return messenger.EditOK, nil
}

func (f *fakeNotifier) Delete(_ context.Context, _ messenger.MessageRef) error { return nil }

func (f *fakeNotifier) ForwardOrResend(_ context.Context, _ messenger.MessageRef, _ int64) error {
	return nil
}

func (f *fakeNotifier) ChannelTitle(_ context.Context, _ int64) (string, error) { return "", nil }

func (f *fakeNotifier) Notify(_ context.Context, userID int64, text string) error {
	if f.notices == nil {
		f.notices = map[int64][]string{}
	}
	f.notices[userID] = append(f.notices[userID], text)
	return nil
}

func newTestService(t *testing.T) (*Service, repository.Repository, *fakeNotifier) {
	t.Helper()
	repo, err := repository.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	notifier := &fakeNotifier{}
	return New(repo, notifier), repo, notifier
}

func TestHandlePromotionCreatesConfig(t *testing.T) {
	svc, repo, notifier := newTestService(t)

	if err := svc.HandlePromotion(context.Background(), -100, 42, "My Channel"); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}

	config, err := repo.Get(-100)
	if err != nil {
		t.Fatalf("config was not created: %v", err)
	}
	if config.OwnerUserID != 42 {
		t.Errorf("owner = %d, want 42", config.OwnerUserID)
	}
	if config.Title != "My Channel" {
		t.Errorf("title = %q, want %q", config.Title, "My Channel")
	}
	if config.HasTemplate() || config.LinkRemoverEnabled || len(config.BannedWords) != 0 {
		t.Error("fresh config should have default settings")
	}
	if config.AddedAt.IsZero() {
		t.Error("AddedAt should be set")
	}

	notices := notifier.notices[42]
	if len(notices) != 1 {
		t.Fatalf("expected one notification, got %d", len(notices))
	}
	if !strings.Contains(notices[0], "My Channel") {
		t.Errorf("notification should mention the channel title: %q", notices[0])
	}
}

// wrappingRepo decorates lookups with context the way real stores do.
type wrappingRepo struct {
	repository.Repository
}

func (w *wrappingRepo) Get(channelID int64) (*domain.Config, error) {
	config, err := w.Repository.Get(channelID)
	if err != nil {
		return nil, oops.With("channel_id", channelID).Wrap(err)
	}
	return config, nil
}

func TestHandlePromotionCreatesConfigThroughWrappedLookup(t *testing.T) {
	repo, err := repository.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	svc := New(&wrappingRepo{Repository: repo}, &fakeNotifier{})

	if err := svc.HandlePromotion(context.Background(), -100, 42, "My Channel"); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}

	config, err := repo.Get(-100)
	if err != nil {
		t.Fatalf("config was not created: %v", err)
	}
	if config.OwnerUserID != 42 {
		t.Errorf("owner = %d, want 42", config.OwnerUserID)
	}
}

func TestHandlePromotionPreservesSettingsOnRepromotion(t *testing.T) {
	svc, repo, _ := newTestService(t)

	if err := svc.HandlePromotion(context.Background(), -100, 42, "Old Title"); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}

	config, _ := repo.Get(-100)
	config.CaptionTemplate = "{file_title}"
	config.LinkRemoverEnabled = true
	if err := repo.Save(config); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A different admin re-promotes the bot; settings survive, ownership moves.
	if err := svc.HandlePromotion(context.Background(), -100, 99, "New Title"); err != nil {
		t.Fatalf("re-promotion failed: %v", err)
	}

	config, _ = repo.Get(-100)
	if config.OwnerUserID != 99 {
		t.Errorf("owner = %d, want 99", config.OwnerUserID)
	}
	if config.Title != "New Title" {
		t.Errorf("title = %q, want %q", config.Title, "New Title")
	}
	if config.CaptionTemplate != "{file_title}" || !config.LinkRemoverEnabled {
		t.Error("existing settings should be preserved on re-promotion")
	}
}
