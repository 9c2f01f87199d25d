package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/service"
)

// SendReminder implements service.ReminderNotifier. It runs on the cron
// goroutine and only reads immutable content.
func (h *Handler) SendReminder(_ context.Context, payload service.ReminderPayload) error {
	index := -1
	for i, ref := range h.content.Sections() {
		if ref.ChapterID == payload.ChapterID && ref.Section.ID == payload.SectionID {
			index = i
			break
		}
	}

	msg := newHTMLMessage(h.learnerChatID, formatReminder(
		payload.SectionTitle,
		payload.Summary.Completed,
		payload.Summary.Total,
	))
	if index >= 0 {
		msg.ReplyMarkup = buildReminderKeyboard(index)
	} else {
		h.logger.Warn("reminder section not in content", zap.String("section_id", payload.SectionID))
	}

	return h.send(msg)
}
