// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
)

// Error and info messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgSessionExpired  = "This lesson is no longer active."
	msgSectionNotFound = "That section does not exist anymore."
	msgWrongStep       = "Not available on this step."
	msgAnswerFirst     = "Choose an answer first."
	msgNoAudio         = "This section has no audio."
	msgResetDone       = "Preferences were restored to defaults. Completed sections are kept."
	msgResetCancelled  = "Reset cancelled."
	msgUnknownCommand  = "Unknown command. Available commands:\n\n/home — sections\n/progress — your progress\n/settings — preferences\n/reset — start over\n/help — help"
	msgHelp            = "<b>Stepwise</b> walks you through every section in four steps:\n\n" +
		"1. <b>Vocabulary</b> — pick the right translation.\n" +
		"2. <b>Listening</b> — play the section audio, slow it down if needed.\n" +
		"3. <b>Decoding</b> — translate sentences into your language.\n" +
		"4. <b>Encoding</b> — translate them back.\n\n" +
		"A section counts as complete once you finish the fourth step.\n\n" +
		"/home — sections\n/progress — your progress\n/settings — preferences\n/reset — start over"
	msgResetConfirm = "<b>Reset preferences?</b>\n\nSettings return to defaults and completion dates are cleared. Completed sections stay completed."
)

// Feedback toasts.
const (
	msgCorrect   = "✅ Correct!"
	msgIncorrect = "❌ Not quite."
)

var stepTitles = map[entities.Step]string{
	entities.StepVocabulary: "Vocabulary",
	entities.StepAudio:      "Listening",
	entities.StepDecoding:   "Decoding",
	entities.StepEncoding:   "Encoding",
}

func stepTitle(step entities.Step) string {
	if t, ok := stepTitles[step]; ok {
		return t
	}
	return "Finished"
}

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

func formatBool(b bool) string {
	if b {
		return "On ✅"
	}
	return "Off ❌"
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx", speed)
}

func formatTranslationMode(mode entities.TranslationMode) string {
	switch mode {
	case entities.TranslationEnJa:
		return "English → Japanese"
	case entities.TranslationJaEn:
		return "Japanese → English"
	default:
		return string(mode)
	}
}

func formatReminder(title string, completed, total int) string {
	return fmt.Sprintf(
		"⏰ <b>Time to practice!</b>\n\nNext up: <b>%s</b>\n%s %d / %d sections done",
		esc(title),
		buildProgressBar(completed, total, 10),
		completed,
		total,
	)
}
