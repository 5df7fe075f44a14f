package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/oops"

	channelDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/menu/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/modules/menu/repository"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Callback actions understood by the state machine. The transport handler
// forwards raw callback data here untouched.
const (
	ActionSettingsMenu      = "settings_menu"
	ActionChannelPrefix     = "channel_"
	ActionCaptionMenu       = "caption_menu"
	ActionWordsMenu         = "words_menu"
	ActionToggleLinkRemover = "toggle_link_remover"
	ActionRemoveChannel     = "remove_channel"
	ActionBackToChannels    = "back_to_channels"
	ActionCaptionPrompt     = "caption_prompt"
	ActionCaptionDelete     = "caption_delete"
	ActionWordsPrompt       = "words_prompt"
	ActionWordsClear        = "words_clear"
	ActionBackToManage      = "back_to_manage"
	ActionConfirmDelete     = "confirm_delete"
	ActionCancel            = "cancel"
)

// ChannelSettings is the slice of the channel service the state machine
// needs.
type ChannelSettings interface {
	Get(channelID int64) (*channelDomain.Config, error)
	ListOwned(userID int64) ([]int64, error)
	AuthorizeOwner(channelID, userID int64) (*channelDomain.Config, error)
	ToggleLinkRemover(channelID, userID int64) (*channelDomain.Config, error)
	SetCaptionTemplate(channelID, userID int64, template string) (*channelDomain.Config, error)
	SetBannedWords(channelID, userID int64, words []string) (*channelDomain.Config, error)
	UpdateTitle(channelID int64, title string)
	Remove(channelID, userID int64) error
	Evict(channelID int64)
}

// WordsParser matches channelService.ParseBannedWords; kept indirect so the
// split rule lives next to the storage format.
type WordsParser func(string) []string

// Service is the menu navigation state machine. One session per
// administrating user; every transition re-renders the menu on the surface
// the triggering interaction arrived on.
type Service struct {
	channels   ChannelSettings
	sessions   repository.Registry
	messenger  messenger.Messenger
	parseWords WordsParser
	photoURL   string
}

// New creates a new menu state machine
func New(channels ChannelSettings, sessions repository.Registry, m messenger.Messenger, parseWords WordsParser, photoURL string) *Service {
	return &Service{
		channels:   channels,
		sessions:   sessions,
		messenger:  m,
		parseWords: parseWords,
		photoURL:   photoURL,
	}
}

// HandleAction dispatches one button press. ref is the message the button was
// attached to; its surface is where the next menu renders.
func (s *Service) HandleAction(ctx context.Context, userID int64, action string, ref *messenger.MessageRef) error {
	switch action {
	case ActionSettingsMenu, ActionBackToChannels:
		return s.EnterSettings(ctx, userID, ref)
	case ActionCaptionMenu:
		return s.OpenCaptionMenu(ctx, userID, ref)
	case ActionWordsMenu:
		return s.OpenWordsMenu(ctx, userID, ref)
	case ActionToggleLinkRemover:
		return s.ToggleLinkRemover(ctx, userID, ref)
	case ActionRemoveChannel:
		return s.RequestRemoval(ctx, userID, ref)
	case ActionCaptionPrompt:
		return s.PromptCaption(ctx, userID, ref)
	case ActionCaptionDelete:
		return s.DeleteCaption(ctx, userID, ref)
	case ActionWordsPrompt:
		return s.PromptWords(ctx, userID, ref)
	case ActionWordsClear:
		return s.ClearWords(ctx, userID, ref)
	case ActionBackToManage:
		return s.BackToChannelMenu(ctx, userID, ref)
	case ActionConfirmDelete:
		return s.ConfirmRemoval(ctx, userID, ref)
	case ActionCancel:
		return s.Cancel(ctx, userID, ref)
	}

	if strings.HasPrefix(action, ActionChannelPrefix) {
		channelID, err := strconv.ParseInt(strings.TrimPrefix(action, ActionChannelPrefix), 10, 64)
		if err != nil {
			return oops.With("action", action).Wrap(err)
		}
		return s.SelectChannel(ctx, userID, channelID, ref)
	}

	slog.Warn("Unknown menu action", "action", action, "user_id", userID)
	return nil
}

// EnterSettings starts (or restarts) the configuration dialog: it lists the
// channels owned by userID and renders a selectable list. Reentry replaces
// any existing session. Channels whose metadata can no longer be resolved
// because access was denied are evicted and omitted.
func (s *Service) EnterSettings(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session := domain.NewSession(userID)
	session.MenuRef = ref

	channelIDs, err := s.channels.ListOwned(userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}

	type row struct {
		id    int64
		title string
	}
	var rows []row
	for _, id := range channelIDs {
		title, err := s.messenger.ChannelTitle(ctx, id)
		if err != nil {
			if stderrors.Is(err, errors.ErrAccessDenied) {
				// Stale admin grant; self-heal by dropping the record.
				s.channels.Evict(id)
			} else {
				slog.Error("Could not get chat info", "channel_id", id, "error", err)
			}
			continue
		}
		s.channels.UpdateTitle(id, title)
		rows = append(rows, row{id: id, title: title})
	}

	if len(rows) == 0 {
		if err := s.render(ctx, session, viewNoChannels()); err != nil {
			return err
		}
		// Idle is terminal; nothing to keep.
		s.sessions.Delete(userID)
		return nil
	}

	var kb messenger.Keyboard
	for _, r := range rows {
		kb = append(kb, []messenger.Button{{
			Label:  r.title,
			Action: ActionChannelPrefix + strconv.FormatInt(r.id, 10),
		}})
	}
	kb = append(kb, []messenger.Button{{Label: "❌ Cancel", Action: ActionCancel}})

	if err := s.render(ctx, session, view{
		content:  messenger.Content{Text: "Choose a channel to manage its settings:"},
		keyboard: kb,
	}); err != nil {
		return err
	}

	session.State = domain.StateSelectingChannel
	s.sessions.Put(session)
	return nil
}

// SelectChannel stores the active channel and renders its settings menu.
func (s *Service) SelectChannel(ctx context.Context, userID, channelID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.AuthorizeOwner(channelID, userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}

	session.ChannelID = channelID
	return s.transition(ctx, session, domain.StateChannelMenu, viewChannelMenu(config))
}

// ToggleLinkRemover flips the link remover and re-renders the channel menu in
// place; the state does not change.
func (s *Service) ToggleLinkRemover(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.ToggleLinkRemover(session.ChannelID, userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateChannelMenu, viewChannelMenu(config))
}

// OpenCaptionMenu renders the caption settings for the active channel.
func (s *Service) OpenCaptionMenu(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.AuthorizeOwner(session.ChannelID, userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateCaptionMenu, viewCaptionMenu(config))
}

// PromptCaption asks the user to send the new caption template as free text.
func (s *Service) PromptCaption(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	if _, err := s.channels.AuthorizeOwner(session.ChannelID, userID); err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateAwaitingCaptionInput, viewCaptionPrompt())
}

// DeleteCaption clears the caption template and re-renders the caption menu.
func (s *Service) DeleteCaption(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.SetCaptionTemplate(session.ChannelID, userID, "")
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateCaptionMenu, viewCaptionMenu(config))
}

// OpenWordsMenu renders the banned words settings for the active channel.
func (s *Service) OpenWordsMenu(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.AuthorizeOwner(session.ChannelID, userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateWordsMenu, viewWordsMenu(config))
}

// PromptWords asks the user for a comma-separated banned word list.
func (s *Service) PromptWords(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	if _, err := s.channels.AuthorizeOwner(session.ChannelID, userID); err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateAwaitingWordsInput, viewWordsPrompt())
}

// ClearWords empties the banned word list and re-renders the words menu.
func (s *Service) ClearWords(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.SetBannedWords(session.ChannelID, userID, nil)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateWordsMenu, viewWordsMenu(config))
}

// HandleTextInput consumes a free-text reply while a session is awaiting one.
// Returns false when the user has no session in an input state, so the caller
// can treat the message as ordinary chat.
func (s *Service) HandleTextInput(ctx context.Context, userID int64, text string, userMsg *messenger.MessageRef) (bool, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return false, nil
	}

	var config *channelDomain.Config
	var err error
	var next domain.State
	var render func(*channelDomain.Config) view

	switch session.State {
	case domain.StateAwaitingCaptionInput:
		config, err = s.channels.SetCaptionTemplate(session.ChannelID, userID, text)
		next, render = domain.StateCaptionMenu, viewCaptionMenu
	case domain.StateAwaitingWordsInput:
		config, err = s.channels.SetBannedWords(session.ChannelID, userID, s.parseWords(text))
		next, render = domain.StateWordsMenu, viewWordsMenu
	default:
		return false, nil
	}

	if err != nil {
		return true, s.reportFailure(ctx, session, err)
	}

	// Tidy up the operator's input message if the transport allows.
	if userMsg != nil {
		if err := s.messenger.Delete(ctx, *userMsg); err != nil {
			slog.Debug("Could not delete input message", "user_id", userID, "error", err)
		}
	}

	// The reply arrived as plain text, so the menu re-renders on the text
	// surface even if it previously lived on a media message.
	v := render(config)
	v.surface = messenger.SurfaceText
	return true, s.transition(ctx, session, next, v)
}

// BackToChannelMenu returns from a sub-menu to the per-channel menu.
func (s *Service) BackToChannelMenu(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	config, err := s.channels.AuthorizeOwner(session.ChannelID, userID)
	if err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateChannelMenu, viewChannelMenu(config))
}

// RequestRemoval asks for confirmation before dropping the channel.
func (s *Service) RequestRemoval(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	if _, err := s.channels.AuthorizeOwner(session.ChannelID, userID); err != nil {
		return s.reportFailure(ctx, session, err)
	}
	return s.transition(ctx, session, domain.StateConfirmRemoval, viewConfirmRemoval())
}

// ConfirmRemoval deletes the channel config and terminates the session.
func (s *Service) ConfirmRemoval(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, err := s.session(userID, ref)
	if err != nil {
		return err
	}

	if err := s.channels.Remove(session.ChannelID, userID); err != nil {
		return s.reportFailure(ctx, session, err)
	}

	if err := s.render(ctx, session, viewPlain("Channel removed successfully.")); err != nil {
		slog.Error("Failed to render removal acknowledgment", "user_id", userID, "error", err)
	}
	s.sessions.Delete(userID)
	return nil
}

// Cancel discards the session from any state and acknowledges.
func (s *Service) Cancel(ctx context.Context, userID int64, ref *messenger.MessageRef) error {
	session, ok := s.sessions.Get(userID)
	if !ok {
		session = domain.NewSession(userID)
	}
	if ref != nil {
		session.MenuRef = ref
	}

	if err := s.render(ctx, session, viewPlain("Operation canceled.")); err != nil {
		slog.Error("Failed to render cancellation", "user_id", userID, "error", err)
	}
	s.sessions.Delete(userID)
	return nil
}

// session looks up the user's active session and records the interaction's
// message ref as the current menu surface.
func (s *Service) session(userID int64, ref *messenger.MessageRef) (*domain.Session, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if ref != nil {
		session.MenuRef = ref
	}
	return session, nil
}

// transition renders the view, then commits the new state. A transport
// failure leaves the session in its prior state.
func (s *Service) transition(ctx context.Context, session *domain.Session, next domain.State, v view) error {
	if err := s.render(ctx, session, v); err != nil {
		s.notifyFailure(ctx, session)
		return err
	}
	session.State = next
	s.sessions.Put(session)
	return nil
}

// reportFailure maps an action error to its user-visible behavior.
// Authorization and not-found conditions terminate the session; anything else
// leaves the session untouched and shows a generic notice.
func (s *Service) reportFailure(ctx context.Context, session *domain.Session, err error) error {
	switch {
	case stderrors.Is(err, errors.ErrUnauthorized):
		s.terminate(ctx, session, "You no longer own this channel.")
	case stderrors.Is(err, errors.ErrChannelNotFound):
		s.terminate(ctx, session, "This channel is no longer managed by the bot.")
	default:
		s.notifyFailure(ctx, session)
	}
	return err
}

func (s *Service) terminate(ctx context.Context, session *domain.Session, text string) {
	if err := s.render(ctx, session, viewPlain(text)); err != nil {
		slog.Error("Failed to render session termination", "user_id", session.UserID, "error", err)
	}
	s.sessions.Delete(session.UserID)
}

func (s *Service) notifyFailure(ctx context.Context, session *domain.Session) {
	if err := s.messenger.Notify(ctx, session.UserID, "Something went wrong, please try again."); err != nil {
		slog.Error("Failed to send failure notice", "user_id", session.UserID, "error", err)
	}
}
