package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	channelDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/menu/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// view is one renderable menu screen. surface, when set, forces the target
// surface instead of following the current menu message.
type view struct {
	content  messenger.Content
	keyboard messenger.Keyboard
	surface  messenger.Surface
}

// render puts the view on screen. It edits the current menu message in place
// when the surface matches; otherwise (or when the transport reports a
// surface mismatch) it deletes the stale message and sends a fresh one on the
// correct surface, remembering the new ref. An edit that would not change the
// displayed content is a silent no-op.
func (s *Service) render(ctx context.Context, session *domain.Session, v view) error {
	target := messenger.SurfaceText
	switch {
	case v.surface != "":
		target = v.surface
	case session.MenuRef != nil:
		target = session.MenuRef.Surface
	}

	content := v.content
	if target == messenger.SurfaceMedia {
		if s.photoURL == "" {
			// No media to attach; degrade to the text surface.
			target = messenger.SurfaceText
		} else {
			content.PhotoURL = s.photoURL
		}
	}

	if session.MenuRef != nil && session.MenuRef.Surface == target {
		outcome, err := s.messenger.Edit(ctx, *session.MenuRef, content, v.keyboard)
		if err != nil {
			return err
		}
		switch outcome {
		case messenger.EditOK, messenger.EditNotModified:
			return nil
		case messenger.EditForbidden:
			return oops.With("user_id", session.UserID).Errorf("menu edit forbidden")
		}
		// Surface mismatch or vanished message: fall through to the
		// one-shot delete + resend compensation.
	}

	if session.MenuRef != nil {
		if err := s.messenger.Delete(ctx, *session.MenuRef); err != nil {
			slog.Debug("Could not delete stale menu message", "user_id", session.UserID, "error", err)
		}
	}

	// Menus live in the admin's private chat, whose id equals the user id.
	chatID := session.UserID
	if session.MenuRef != nil {
		chatID = session.MenuRef.ChatID
	}

	newRef, err := s.messenger.Send(ctx, chatID, target, content, v.keyboard)
	if err != nil {
		return err
	}
	session.MenuRef = &newRef
	return nil
}

func viewPlain(text string) view {
	return view{content: messenger.Content{Text: text}}
}

func viewNoChannels() view {
	return viewPlain("I'm not an admin in any of your channels yet. Add me to a channel first, then try /settings again.")
}

func viewChannelMenu(config *channelDomain.Config) view {
	captionStatus := "Not Set"
	if config.HasTemplate() {
		captionStatus = "Set ✅"
	}
	linkRemoverStatus := "OFF ❌"
	if config.LinkRemoverEnabled {
		linkRemoverStatus = "ON ✔️"
	}

	return view{
		content: messenger.Content{Text: fmt.Sprintf("Managing settings for: <b>%s</b>", html.EscapeString(config.Title))},
		keyboard: messenger.Keyboard{
			{{Label: fmt.Sprintf("📝 Caption: %s", captionStatus), Action: ActionCaptionMenu}},
			{{Label: fmt.Sprintf("✂️ Link Remover: %s", linkRemoverStatus), Action: ActionToggleLinkRemover}},
			{{Label: fmt.Sprintf("🚫 Banned Words: %d", len(config.BannedWords)), Action: ActionWordsMenu}},
			{{Label: "🗑️ Remove Channel", Action: ActionRemoveChannel}},
			{{Label: "⬅️ Back", Action: ActionBackToChannels}},
		},
	}
}

func viewCaptionMenu(config *channelDomain.Config) view {
	text := "No caption template set. The cleaned file name will be used as the caption."
	if config.HasTemplate() {
		text = fmt.Sprintf("Current caption template:\n<code>%s</code>", html.EscapeString(config.CaptionTemplate))
	}

	return view{
		content: messenger.Content{Text: text},
		keyboard: messenger.Keyboard{
			{{Label: "✏️ Set Caption", Action: ActionCaptionPrompt}},
			{{Label: "🗑️ Delete Caption", Action: ActionCaptionDelete}},
			{{Label: "⬅️ Back", Action: ActionBackToManage}},
		},
	}
}

func viewCaptionPrompt() view {
	return view{
		content: messenger.Content{Text: "Send me the new caption text. Use these placeholders:\n" +
			"<code>{file_name}</code>\n<code>{file_title}</code>\n<code>{file_size}</code>\n<code>{file_caption}</code>"},
		keyboard: messenger.Keyboard{
			{{Label: "⬅️ Back", Action: ActionCaptionMenu}},
		},
	}
}

func viewWordsMenu(config *channelDomain.Config) view {
	text := "No banned words set."
	if len(config.BannedWords) > 0 {
		text = fmt.Sprintf("Words removed from file names:\n<code>%s</code>", html.EscapeString(strings.Join(config.BannedWords, ", ")))
	}

	return view{
		content: messenger.Content{Text: text},
		keyboard: messenger.Keyboard{
			{{Label: "✏️ Set Words", Action: ActionWordsPrompt}},
			{{Label: "🗑️ Clear Words", Action: ActionWordsClear}},
			{{Label: "⬅️ Back", Action: ActionBackToManage}},
		},
	}
}

func viewWordsPrompt() view {
	return view{
		content: messenger.Content{Text: "Send me a comma-separated list of words to remove from file names."},
		keyboard: messenger.Keyboard{
			{{Label: "⬅️ Back", Action: ActionWordsMenu}},
		},
	}
}

func viewConfirmRemoval() view {
	return view{
		content: messenger.Content{Text: "Are you sure?"},
		keyboard: messenger.Keyboard{
			{{Label: "Yes, Remove it", Action: ActionConfirmDelete}},
			{{Label: "No, Go Back", Action: ActionBackToManage}},
		},
	}
}
