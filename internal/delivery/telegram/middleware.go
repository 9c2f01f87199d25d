package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// CallbackFunc handles a callback query and returns the text of the toast shown to the learner.
type CallbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

func (h *Handler) withCallbackErrorHandling(fn CallbackFunc) CallbackFunc {
	return func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
		toast, err := fn(ctx, cb, data)
		if err != nil {
			h.logger.Error("callback error",
				zap.String("data", data.Raw),
				zap.Error(err),
			)
			return msgInternalError, nil
		}
		return toast, nil
	}
}
