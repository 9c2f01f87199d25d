package telegram

import (
	"context"
)

// homeHandler leaves any active session and shows the section list.
func (h *Handler) homeHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.closeSession()

		text, kb := h.renderHome()
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) progressHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb := h.renderProgress()
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) settingsHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb := h.renderSettings()
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

// resetHandler asks for confirmation before wiping progress and settings.
func (h *Handler) resetHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}
