package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	captionService "github.com/dkrasnov/auto-caption-bot/internal/modules/caption/service"
	menuService "github.com/dkrasnov/auto-caption-bot/internal/modules/menu/service"
	postDomain "github.com/dkrasnov/auto-caption-bot/internal/modules/post/domain"
	registrationService "github.com/dkrasnov/auto-caption-bot/internal/modules/registration/service"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/config"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Handler routes Telegram updates to the services. Channel posts feed the
// caption pipeline, callbacks and free text drive the menu state machine, and
// membership updates register channels.
type Handler struct {
	cfg          *config.Config
	messenger    messenger.Messenger
	menu         *menuService.Service
	captions     *captionService.Service
	registration *registrationService.Service

	usernameOnce sync.Once
	username     string
}

// NewHandler creates a new update handler
func NewHandler(cfg *config.Config, m messenger.Messenger, menu *menuService.Service, captions *captionService.Service, registration *registrationService.Service) *Handler {
	return &Handler{
		cfg:          cfg,
		messenger:    m,
		menu:         menu,
		captions:     captions,
		registration: registration,
	}
}

// RegisterCommands wires the command handlers. Everything else lands in
// HandleUpdate via the default handler.
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypeExact, h.handleSettings)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, h.handleCancel)
}

// HandleUpdate is the default handler for every non-command update.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, b, update.CallbackQuery)
	case update.MyChatMember != nil:
		h.handleMyChatMember(ctx, update.MyChatMember)
	case update.ChannelPost != nil:
		h.handleChannelPost(ctx, update.ChannelPost)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	h.sendGreeting(ctx, b, msg.Chat.ID, msg.From)
}

// sendGreeting renders the welcome screen, on the media surface when a
// greeting photo is configured.
func (h *Handler) sendGreeting(ctx context.Context, b *bot.Bot, chatID int64, user *models.User) {
	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, user.ID, html.EscapeString(user.FirstName))
	text := fmt.Sprintf("Hey %s! 👋\n\nI automatically rewrite captions on media posted to your channels. Add me to a channel as an admin to get started.", mention)

	kb := messenger.Keyboard{
		{{Label: "➕ Add me to your Channel", URL: h.addToChannelURL(ctx, b)}},
		{{Label: "⚙️ Settings", Action: menuService.ActionSettingsMenu}},
		{{Label: "❓ Help", Action: actionHelp}},
	}

	surface := messenger.SurfaceText
	if h.cfg.GreetingPhotoURL != "" {
		surface = messenger.SurfaceMedia
	}
	if _, err := h.messenger.Send(ctx, chatID, surface, messenger.Content{
		Text:     text,
		PhotoURL: h.cfg.GreetingPhotoURL,
	}, kb); err != nil {
		slog.Error("Failed to send greeting", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendHelp(ctx context.Context, chatID int64) {
	kb := messenger.Keyboard{
		{{Label: "⬅️ Back", Action: actionStartMenu}},
	}
	if _, err := h.messenger.Send(ctx, chatID, messenger.SurfaceText, messenger.Content{Text: helpText}, kb); err != nil {
		slog.Error("Failed to send help", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendHelp(ctx, update.Message.Chat.ID)
}

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	if err := h.menu.EnterSettings(ctx, msg.From.ID, nil); err != nil {
		slog.Error("Failed to open settings", "user_id", msg.From.ID, "error", err)
	}
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	if err := h.menu.Cancel(ctx, msg.From.ID, nil); err != nil {
		slog.Error("Failed to cancel session", "user_id", msg.From.ID, "error", err)
	}
}

const (
	actionHelp      = "help"
	actionStartMenu = "start_menu"
)

const helpText = "<b>How it works</b>\n\n" +
	"1. Add me to your channel as an admin with the <i>Post Messages</i> and <i>Edit Messages</i> rights.\n" +
	"2. Open /settings here to pick the channel and configure it.\n" +
	"3. Every document, video, audio or photo posted to the channel gets its caption rewritten.\n\n" +
	"Caption templates support <code>{file_name}</code>, <code>{file_title}</code>, <code>{file_size}</code> and <code>{file_caption}</code>.\n" +
	"Without a template the cleaned file title is used as the caption."

func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, query *models.CallbackQuery) {
	// Always ack so the client stops its spinner.
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: query.ID}); err != nil {
		slog.Debug("Failed to answer callback query", "error", err)
	}

	var ref *messenger.MessageRef
	if query.Message.Message != nil {
		msg := query.Message.Message
		ref = &messenger.MessageRef{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Surface:   surfaceOf(msg),
		}
	}

	switch query.Data {
	case actionHelp, actionStartMenu:
		// These screens swap between the text and media surfaces, so the old
		// message is replaced instead of edited in place.
		if ref != nil {
			if err := h.messenger.Delete(ctx, *ref); err != nil {
				slog.Debug("Could not delete previous message", "error", err)
			}
		}
		if query.Data == actionHelp {
			h.sendHelp(ctx, query.From.ID)
		} else {
			h.sendGreeting(ctx, b, query.From.ID, &query.From)
		}
		return
	}

	if err := h.menu.HandleAction(ctx, query.From.ID, query.Data, ref); err != nil {
		slog.Error("Menu action failed", "user_id", query.From.ID, "action", query.Data, "error", err)
	}
}

func (h *Handler) handleMyChatMember(ctx context.Context, upd *models.ChatMemberUpdated) {
	if upd.NewChatMember.Type != models.ChatMemberTypeAdministrator {
		return
	}
	if upd.Chat.Type != "channel" {
		return
	}
	if err := h.registration.HandlePromotion(ctx, upd.Chat.ID, upd.From.ID, upd.Chat.Title); err != nil {
		slog.Error("Failed to register channel", "channel_id", upd.Chat.ID, "error", err)
	}
}

func (h *Handler) handleChannelPost(ctx context.Context, msg *models.Message) {
	post := extractPost(msg)
	if post == nil {
		return
	}
	h.captions.Process(ctx, post)
}

func (h *Handler) handleMessage(ctx context.Context, msg *models.Message) {
	if msg.Chat.Type == "channel" {
		h.handleChannelPost(ctx, msg)
		return
	}
	if msg.Chat.Type != "private" || msg.From == nil || msg.Text == "" {
		return
	}

	ref := &messenger.MessageRef{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Surface:   messenger.SurfaceText,
	}
	handled, err := h.menu.HandleTextInput(ctx, msg.From.ID, msg.Text, ref)
	if err != nil {
		slog.Error("Text input failed", "user_id", msg.From.ID, "error", err)
	}
	if !handled {
		slog.Debug("Ignoring unsolicited message", "user_id", msg.From.ID)
	}
}

// addToChannelURL builds the deep link that opens the add-to-channel dialog
// with the rights the bot needs preselected.
func (h *Handler) addToChannelURL(ctx context.Context, b *bot.Bot) string {
	h.usernameOnce.Do(func() {
		me, err := b.GetMe(ctx)
		if err != nil {
			slog.Error("Failed to resolve bot username", "error", err)
			return
		}
		h.username = me.Username
	})
	return fmt.Sprintf("https://t.me/%s?startchannel=true&admin=post_messages+edit_messages", h.username)
}

// surfaceOf reports which editable surface a message carries its text on.
func surfaceOf(msg *models.Message) messenger.Surface {
	if len(msg.Photo) > 0 || msg.Document != nil || msg.Video != nil || msg.Audio != nil {
		return messenger.SurfaceMedia
	}
	return messenger.SurfaceText
}

func extractPost(msg *models.Message) *postDomain.InboundPost {
	post := &postDomain.InboundPost{
		ChannelID: msg.Chat.ID,
		MessageID: msg.ID,
		Caption:   msg.Caption,
	}

	switch {
	case msg.Document != nil:
		post.Kind = postDomain.MediaKindDocument
		post.FileName = msg.Document.FileName
		post.FileSizeBytes = int64(msg.Document.FileSize)
	case msg.Video != nil:
		post.Kind = postDomain.MediaKindVideo
		post.FileName = msg.Video.FileName
		post.FileSizeBytes = int64(msg.Video.FileSize)
	case msg.Audio != nil:
		post.Kind = postDomain.MediaKindAudio
		post.FileName = msg.Audio.FileName
		post.FileSizeBytes = int64(msg.Audio.FileSize)
	case len(msg.Photo) > 0:
		post.Kind = postDomain.MediaKindPhoto
		largest := msg.Photo[len(msg.Photo)-1]
		post.FileSizeBytes = int64(largest.FileSize)
	default:
		return nil
	}
	return post
}
