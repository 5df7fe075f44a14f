package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/repository"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

func newTestService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	repo, err := repository.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return New(repo), repo
}

func seedChannel(t *testing.T, repo repository.Repository, channelID, ownerID int64) {
	t.Helper()
	if err := repo.Save(&domain.Config{
		ID:          channelID,
		OwnerUserID: ownerID,
		Title:       "Test Channel",
		AddedAt:     time.Now(),
	}); err != nil {
		t.Fatalf("failed to seed channel: %v", err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	svc, repo := newTestService(t)
	seedChannel(t, repo, -100, 42)

	if _, err := svc.AuthorizeOwner(-100, 42); err != nil {
		t.Errorf("owner should be authorized, got %v", err)
	}
	if _, err := svc.AuthorizeOwner(-100, 99); err != errors.ErrUnauthorized {
		t.Errorf("non-owner should get ErrUnauthorized, got %v", err)
	}
	if _, err := svc.AuthorizeOwner(-200, 42); err != errors.ErrChannelNotFound {
		t.Errorf("unknown channel should get ErrChannelNotFound, got %v", err)
	}
}

func TestToggleLinkRemoverPersists(t *testing.T) {
	svc, _ := newTestService(t)
	seedChannelSvc(t, svc, -100, 42)

	config, err := svc.ToggleLinkRemover(-100, 42)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !config.LinkRemoverEnabled {
		t.Error("link remover should be enabled after first toggle")
	}

	stored, err := svc.Get(-100)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !stored.LinkRemoverEnabled {
		t.Error("toggle was not persisted")
	}

	config, err = svc.ToggleLinkRemover(-100, 42)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if config.LinkRemoverEnabled {
		t.Error("link remover should be disabled after second toggle")
	}
}

func seedChannelSvc(t *testing.T, svc *Service, channelID, ownerID int64) {
	t.Helper()
	seedChannel(t, svc.repo, channelID, ownerID)
}

func TestSetCaptionTemplate(t *testing.T) {
	svc, _ := newTestService(t)
	seedChannelSvc(t, svc, -100, 42)

	if _, err := svc.SetCaptionTemplate(-100, 42, "{file_title}"); err != nil {
		t.Fatalf("set template failed: %v", err)
	}
	stored, _ := svc.Get(-100)
	if stored.CaptionTemplate != "{file_title}" {
		t.Errorf("template = %q, want %q", stored.CaptionTemplate, "{file_title}")
	}

	// Clearing restores the default behavior.
	if _, err := svc.SetCaptionTemplate(-100, 42, ""); err != nil {
		t.Fatalf("clear template failed: %v", err)
	}
	stored, _ = svc.Get(-100)
	if stored.HasTemplate() {
		t.Error("template should be cleared")
	}
}

func TestRemoveRequiresOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	seedChannelSvc(t, svc, -100, 42)

	if err := svc.Remove(-100, 99); err != errors.ErrUnauthorized {
		t.Errorf("non-owner removal should fail with ErrUnauthorized, got %v", err)
	}
	if err := svc.Remove(-100, 42); err != nil {
		t.Fatalf("owner removal failed: %v", err)
	}
	if _, err := svc.Get(-100); err != errors.ErrChannelNotFound {
		t.Errorf("removed channel should be gone, got %v", err)
	}
}

func TestParseBannedWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"  spam  ", []string{"spam"}},
		{",,,", nil},
		{"", nil},
		{"one", []string{"one"}},
	}

	for _, tt := range tests {
		got := ParseBannedWords(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseBannedWords(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
