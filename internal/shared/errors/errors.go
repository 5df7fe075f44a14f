package errors

import "errors"

var (
	ErrMissingBotToken     = errors.New("telegram_bot_token is required")
	ErrMissingAuditChannel = errors.New("audit_channel_id is required")
	ErrUnauthorized        = errors.New("user does not own this channel")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrSessionNotFound     = errors.New("no active settings session")
	ErrAccessDenied        = errors.New("bot can no longer access the channel")
)
