package service

import (
	"context"
	"testing"

	"github.com/samber/oops"

	channelDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	postDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/post/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

type fakeConfigs struct {
	configs map[int64]*channelDomain.Config
	getErr  error
}

func (f *fakeConfigs) Get(channelID int64) (*channelDomain.Config, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	config, ok := f.configs[channelID]
	if !ok {
		return nil, errors.ErrChannelNotFound
	}
	return config, nil
}

type fakeAuditor struct {
	forwarded []*postDomain.InboundPost
}

func (f *fakeAuditor) Forward(_ context.Context, post *postDomain.InboundPost) {
	f.forwarded = append(f.forwarded, post)
}

type editCall struct {
	ref     messenger.MessageRef
	content messenger.Content
}

type fakeMessenger struct {
	edits       []editCall
	editOutcome messenger.EditOutcome
	sends       int
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, surface messenger.Surface, _ messenger.Content, _ messenger.Keyboard) (messenger.MessageRef, error) {
	f.sends++
	return messenger.MessageRef{ChatID: chatID, MessageID: 1, Surface: surface}, nil
}

func (f *fakeMessenger) Edit(_ context.Context, ref messenger.MessageRef, content messenger.Content, _ messenger.Keyboard) (messenger.EditOutcome, error) {
	f.edits = append(f.edits, editCall{ref: ref, content: content})
	return f.editOutcome, nil
}

func (f *fakeMessenger) Delete(_ context.Context, _ messenger.MessageRef) error { return nil }

func (f *fakeMessenger) ForwardOrResend(_ context.Context, _ messenger.MessageRef, _ int64) error {
	return nil
}

func (f *fakeMessenger) ChannelTitle(_ context.Context, _ int64) (string, error) { return "", nil }

func (f *fakeMessenger) Notify(_ context.Context, _ int64, _ string) error { return nil }

func newPipeline(configs map[int64]*channelDomain.Config) (*Service, *fakeAuditor, *fakeMessenger) {
	auditor := &fakeAuditor{}
	m := &fakeMessenger{}
	return New(&fakeConfigs{configs: configs}, auditor, m), auditor, m
}

func TestProcessUnmanagedChannelIsNoOp(t *testing.T) {
	svc, auditor, m := newPipeline(nil)

	svc.Process(context.Background(), &postDomain.InboundPost{
		ChannelID: -100,
		MessageID: 7,
		Kind:      postDomain.MediaKindDocument,
		FileName:  "movie.mkv",
	})

	if len(auditor.forwarded) != 0 {
		t.Errorf("expected no audit forwards for unmanaged channel, got %d", len(auditor.forwarded))
	}
	if len(m.edits) != 0 || m.sends != 0 {
		t.Errorf("expected zero transport calls, got %d edits and %d sends", len(m.edits), m.sends)
	}
}

func TestProcessTreatsWrappedNotFoundAsUnmanaged(t *testing.T) {
	// Stores wrap their errors with context; the pipeline must still
	// recognize the not-found sentinel through the wrapping.
	auditor := &fakeAuditor{}
	m := &fakeMessenger{}
	configs := &fakeConfigs{getErr: oops.With("channel_id", int64(-100)).Wrap(errors.ErrChannelNotFound)}
	svc := New(configs, auditor, m)

	svc.Process(context.Background(), &postDomain.InboundPost{
		ChannelID: -100,
		MessageID: 7,
		Kind:      postDomain.MediaKindDocument,
		FileName:  "movie.mkv",
	})

	if len(auditor.forwarded) != 0 {
		t.Errorf("expected no audit forwards, got %d", len(auditor.forwarded))
	}
	if len(m.edits) != 0 || m.sends != 0 {
		t.Errorf("expected zero transport calls, got %d edits and %d sends", len(m.edits), m.sends)
	}
}

func TestProcessSkipsEditWhenCaptionUnchanged(t *testing.T) {
	configs := map[int64]*channelDomain.Config{
		-100: {ID: -100, OwnerUserID: 1},
	}
	svc, auditor, m := newPipeline(configs)

	// Without a template the caption becomes the cleaned file title, which
	// already matches the existing caption.
	svc.Process(context.Background(), &postDomain.InboundPost{
		ChannelID: -100,
		MessageID: 7,
		Kind:      postDomain.MediaKindDocument,
		FileName:  "movie.mkv",
		Caption:   "movie",
	})

	if len(auditor.forwarded) != 1 {
		t.Errorf("expected audit forward even for unchanged caption, got %d", len(auditor.forwarded))
	}
	if len(m.edits) != 0 {
		t.Errorf("expected no edit call for unchanged caption, got %d", len(m.edits))
	}
}

func TestProcessEditsChangedCaption(t *testing.T) {
	configs := map[int64]*channelDomain.Config{
		-100: {ID: -100, OwnerUserID: 1},
	}
	svc, _, m := newPipeline(configs)

	svc.Process(context.Background(), &postDomain.InboundPost{
		ChannelID: -100,
		MessageID: 7,
		Kind:      postDomain.MediaKindDocument,
		FileName:  "movie.mkv",
		Caption:   "original caption",
	})

	if len(m.edits) != 1 {
		t.Fatalf("expected one edit call, got %d", len(m.edits))
	}
	edit := m.edits[0]
	if edit.content.Text != "movie" {
		t.Errorf("edit text = %q, want %q", edit.content.Text, "movie")
	}
	if edit.ref.ChatID != -100 || edit.ref.MessageID != 7 {
		t.Errorf("edit targeted %d/%d, want -100/7", edit.ref.ChatID, edit.ref.MessageID)
	}
	if edit.ref.Surface != messenger.SurfaceMedia {
		t.Errorf("edit surface = %q, want media", edit.ref.Surface)
	}
}

func TestBuildCaption(t *testing.T) {
	tests := []struct {
		name   string
		post   postDomain.InboundPost
		config channelDomain.Config
		want   string
	}{
		{
			name: "default is cleaned title without extension",
			post: postDomain.InboundPost{FileName: "movie.mkv"},
			want: "movie",
		},
		{
			name:   "template with title and size",
			post:   postDomain.InboundPost{FileName: "Report Final.pdf", FileSizeBytes: 2097152},
			config: channelDomain.Config{CaptionTemplate: "{file_title} - {file_size}"},
			want:   "Report Final - 2.00 MB",
		},
		{
			name: "photo falls back to placeholder name",
			post: postDomain.InboundPost{Kind: postDomain.MediaKindPhoto},
			want: "Photo",
		},
		{
			name:   "unknown size renders as N/A",
			post:   postDomain.InboundPost{FileName: "a.mkv"},
			config: channelDomain.Config{CaptionTemplate: "{file_size}"},
			want:   "N/A",
		},
		{
			name:   "original caption placeholder",
			post:   postDomain.InboundPost{FileName: "a.mkv", Caption: "hello"},
			config: channelDomain.Config{CaptionTemplate: "{file_caption}!"},
			want:   "hello!",
		},
		{
			name:   "cleaning applies before templating",
			post:   postDomain.InboundPost{FileName: "Show.leak.mkv"},
			config: channelDomain.Config{CaptionTemplate: "{file_name}", BannedWords: []string{"leak"}},
			want:   "Show.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCaption(&tt.post, &tt.config)
			if got != tt.want {
				t.Errorf("BuildCaption = %q, want %q", got, tt.want)
			}
		})
	}
}
