package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/repository"
	"github.com/aliskhannn/stepwise-bot/internal/service"
)

// buildHomeKeyboard builds one button per section plus navigation.
func buildHomeKeyboard(refs []repository.SectionRef, complete map[string]bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(refs)+1)
	for i, ref := range refs {
		label := fmt.Sprintf("%s %s", completionMark(complete[ref.Section.ID]), ref.Section.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildOpenCallback(i)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Progress", buildProgressCallback()),
		tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", buildSettingsCallback(settingsMenu)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Sections", buildHomeCallback()),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", buildSettingsCallback(settingsMenu)),
		),
	)
}

// buildSettingsKeyboard builds main settings keyboard.
func buildSettingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔤 Translation", buildSettingsCallback(settingsMode)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 Audio speed", buildSettingsCallback(settingsSpeed)),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Auto-advance", buildSettingsCallback(settingsAutoAdvance)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildResetKeyboard builds the reset confirmation keyboard.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

// buildReminderKeyboard opens the suggested section.
func buildReminderKeyboard(index int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start", buildOpenCallback(index)),
		),
	)
}

// buildStepRow lets the learner jump to any step; the current one is marked.
func buildStepRow(tag string, current entities.Step) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 4)
	for step := entities.StepVocabulary; step <= entities.StepEncoding; step++ {
		label := fmt.Sprintf("%d", step)
		if step == current {
			label = fmt.Sprintf("• %d •", step)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildGoToCallback(tag, step)))
	}
	return row
}

// buildOptionRows builds one button per quiz option, marking the result once answered.
func buildOptionRows(tag string, q *service.Question) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		label := option
		if q.Answered() {
			switch {
			case i == q.CorrectIndex:
				label = "✅ " + option
			case i == q.Selected:
				label = "❌ " + option
			}
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildSelectOptionCallback(tag, i)),
		))
	}
	return rows
}

func continueRow(tag string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Continue ▶️", buildSessionCallback(tag, sessionAdvance)),
	)
}
