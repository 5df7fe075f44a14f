package telegram

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"

	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/messenger"
)

// Client implements messenger.Messenger over the Telegram Bot API. The bot
// instance is attached after construction because the bot itself needs the
// update handler, which needs the services, which need this client.
type Client struct {
	bot *bot.Bot
}

// NewClient creates a client without a bot attached yet
func NewClient() *Client {
	return &Client{}
}

// SetBot attaches the bot instance. Must happen before updates flow.
func (c *Client) SetBot(b *bot.Bot) {
	c.bot = b
}

func (c *Client) api() (*bot.Bot, error) {
	if c.bot == nil {
		return nil, oops.Errorf("bot not initialized")
	}
	return c.bot, nil
}

func (c *Client) Send(ctx context.Context, chatID int64, surface messenger.Surface, content messenger.Content, kb messenger.Keyboard) (messenger.MessageRef, error) {
	b, err := c.api()
	if err != nil {
		return messenger.MessageRef{}, err
	}

	var msg *models.Message
	switch surface {
	case messenger.SurfaceMedia:
		msg, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: content.PhotoURL},
			Caption:     content.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: toMarkup(kb),
		})
	default:
		msg, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:             chatID,
			Text:               content.Text,
			ParseMode:          models.ParseModeHTML,
			ReplyMarkup:        toMarkup(kb),
			LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
		})
	}
	if err != nil {
		return messenger.MessageRef{}, oops.With("chat_id", chatID, "surface", string(surface)).Wrap(err)
	}

	return messenger.MessageRef{ChatID: chatID, MessageID: msg.ID, Surface: surface}, nil
}

func (c *Client) Edit(ctx context.Context, ref messenger.MessageRef, content messenger.Content, kb messenger.Keyboard) (messenger.EditOutcome, error) {
	b, err := c.api()
	if err != nil {
		return messenger.EditOK, err
	}

	switch ref.Surface {
	case messenger.SurfaceMedia:
		_, err = b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
			ChatID:      ref.ChatID,
			MessageID:   ref.MessageID,
			Caption:     content.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: toMarkup(kb),
		})
	default:
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:             ref.ChatID,
			MessageID:          ref.MessageID,
			Text:               content.Text,
			ParseMode:          models.ParseModeHTML,
			ReplyMarkup:        toMarkup(kb),
			LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
		})
	}
	if err != nil {
		return classifyEditError(ref, err)
	}
	return messenger.EditOK, nil
}

func (c *Client) Delete(ctx context.Context, ref messenger.MessageRef) error {
	b, err := c.api()
	if err != nil {
		return err
	}
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: ref.ChatID, MessageID: ref.MessageID}); err != nil {
		return oops.With("chat_id", ref.ChatID, "message_id", ref.MessageID).Wrap(err)
	}
	return nil
}

func (c *Client) ForwardOrResend(ctx context.Context, ref messenger.MessageRef, destChatID int64) error {
	b, err := c.api()
	if err != nil {
		return err
	}

	_, err = b.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     destChatID,
		FromChatID: ref.ChatID,
		MessageID:  ref.MessageID,
	})
	if err == nil {
		return nil
	}

	// Forwarding fails for protected-content channels; copying re-sends the
	// media with its original caption instead.
	if _, copyErr := b.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     destChatID,
		FromChatID: ref.ChatID,
		MessageID:  ref.MessageID,
	}); copyErr != nil {
		return oops.With("chat_id", ref.ChatID, "message_id", ref.MessageID, "dest", destChatID, "forward_error", err.Error()).Wrap(copyErr)
	}
	return nil
}

func (c *Client) ChannelTitle(ctx context.Context, channelID int64) (string, error) {
	b, err := c.api()
	if err != nil {
		return "", err
	}

	chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: channelID})
	if err != nil {
		if stderrors.Is(err, bot.ErrorForbidden) || strings.Contains(err.Error(), "chat not found") {
			return "", errors.ErrAccessDenied
		}
		return "", oops.With("channel_id", channelID).Wrap(err)
	}
	return chat.Title, nil
}

func (c *Client) Notify(ctx context.Context, userID int64, text string) error {
	b, err := c.api()
	if err != nil {
		return err
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    userID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

// classifyEditError maps Telegram edit failures onto the outcomes the core
// distinguishes. Unmapped errors come back as plain transport failures.
func classifyEditError(ref messenger.MessageRef, err error) (messenger.EditOutcome, error) {
	desc := err.Error()
	switch {
	case strings.Contains(desc, "message is not modified"):
		return messenger.EditNotModified, nil
	case strings.Contains(desc, "there is no text in the message to edit"),
		strings.Contains(desc, "there is no caption in the message to edit"):
		return messenger.EditSurfaceMismatch, nil
	case strings.Contains(desc, "message to edit not found"),
		stderrors.Is(err, bot.ErrorNotFound):
		return messenger.EditNotFound, nil
	case stderrors.Is(err, bot.ErrorForbidden):
		return messenger.EditForbidden, nil
	}
	return messenger.EditOK, oops.With("chat_id", ref.ChatID, "message_id", ref.MessageID).Wrap(err)
}

func toMarkup(kb messenger.Keyboard) models.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         btn.Label,
				CallbackData: btn.Action,
				URL:          btn.URL,
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
