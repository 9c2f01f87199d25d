package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/service"
)

// renderHome renders the chapter list with a completion mark per section.
func (h *Handler) renderHome() (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("<b>📚 Sections</b>\n")

	complete := make(map[string]bool)
	for _, ch := range h.content.Chapters() {
		fmt.Fprintf(&sb, "\n<b>%s</b>\n", esc(ch.Title))
		for _, s := range ch.Sections {
			done := h.progressService.IsComplete(s.ID)
			complete[s.ID] = done
			fmt.Fprintf(&sb, "%s %s\n", completionMark(done), esc(s.Title))
		}
	}

	kb := buildHomeKeyboard(h.content.Sections(), complete)
	return sb.String(), kb
}

// renderProgress renders the progress summary.
func (h *Handler) renderProgress() (string, tgbotapi.InlineKeyboardMarkup) {
	summary := h.progressService.Summary(h.content.Sections())

	text := fmt.Sprintf(
		"<b>📊 Your progress</b>\n\n"+
			"%s\n\n"+
			"✅ <b>Completed:</b> %d / %d (%.1f%%)\n",
		buildProgressBar(summary.Completed, summary.Total, 20),
		summary.Completed,
		summary.Total,
		summary.Percentage,
	)

	return text, buildProgressKeyboard()
}

// renderSettings renders the current preferences.
func (h *Handler) renderSettings() (string, tgbotapi.InlineKeyboardMarkup) {
	settings := h.settingsService.Get()

	text := fmt.Sprintf(
		"<b>⚙️ Settings</b>\n\n"+
			"🔤 <b>Translation:</b> %s\n"+
			"🔊 <b>Audio speed:</b> %s\n"+
			"⏭ <b>Auto-advance:</b> %s\n",
		formatTranslationMode(settings.TranslationMode),
		formatSpeed(settings.AudioSpeed),
		formatBool(settings.AutoAdvance),
	)

	return text, buildSettingsKeyboard()
}

// renderSession renders the current step of s.
func renderSession(s *service.Session, autoAdvance bool) (string, tgbotapi.InlineKeyboardMarkup) {
	tag := sessionTag(s)
	step := s.CurrentStep()

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\nStep %d/4 · %s\n\n", esc(s.Section().Title), step, stepTitle(step))

	rows := [][]tgbotapi.InlineKeyboardButton{buildStepRow(tag, step)}

	switch step {
	case entities.StepVocabulary:
		rows = append(rows, renderQuiz(&sb, tag, s.Quiz(), autoAdvance)...)
	case entities.StepAudio:
		rows = append(rows, renderAudio(&sb, tag, s.Section(), s.AudioSpeed())...)
	case entities.StepDecoding, entities.StepEncoding:
		rows = append(rows, renderExercise(&sb, tag, s.Exercise())...)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Exit", buildSessionCallback(tag, sessionExit)),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderQuiz(sb *strings.Builder, tag string, quiz *service.VocabularyQuiz, autoAdvance bool) [][]tgbotapi.InlineKeyboardButton {
	q := quiz.Current()
	if q == nil {
		sb.WriteString("No vocabulary in this section.")
		return [][]tgbotapi.InlineKeyboardButton{continueRow(tag)}
	}

	fmt.Fprintf(sb, "Question %d/%d\n\nWhat does <b>%s</b> mean?", q.Number, quiz.Total(), esc(q.Item.Term))

	rows := buildOptionRows(tag, q)

	if q.Answered() {
		correct := q.Selected == q.CorrectIndex
		if correct {
			sb.WriteString("\n\n" + msgCorrect)
		} else {
			fmt.Fprintf(sb, "\n\n%s The answer is <b>%s</b>.", msgIncorrect, esc(q.Item.Translation))
		}

		if !correct || !autoAdvance {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildSessionCallback(tag, sessionNextQuestion)),
			))
		}
	}

	return rows
}

func renderAudio(sb *strings.Builder, tag string, section *entities.Section, speed float64) [][]tgbotapi.InlineKeyboardButton {
	sb.WriteString("Listen to the recording and follow along:\n\n")
	for _, pair := range section.Sentences {
		fmt.Fprintf(sb, "• %s\n", esc(pair.Source))
	}
	fmt.Fprintf(sb, "\n🔊 Speed: %s", formatSpeed(speed))

	return [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Play", buildSessionCallback(tag, sessionPlayAudio)),
			tgbotapi.NewInlineKeyboardButtonData("🐢 Speed", buildSessionCallback(tag, sessionSpeed)),
		),
		continueRow(tag),
	}
}

func renderExercise(sb *strings.Builder, tag string, ex *service.TranslationExercise) [][]tgbotapi.InlineKeyboardButton {
	pos, total := ex.Position()
	if total == 0 {
		sb.WriteString("No sentences in this section.")
		return [][]tgbotapi.InlineKeyboardButton{continueRow(tag)}
	}

	fmt.Fprintf(sb, "Sentence %d/%d\n\n%s", pos, total, esc(ex.Prompt()))

	label := "Next sentence ▶️"
	if ex.IsLast() {
		label = "Finish step ✅"
	}
	next := tgbotapi.NewInlineKeyboardButtonData(label, buildSessionCallback(tag, sessionNextSentence))

	// The learner may skip a sentence without revealing it.
	if !ex.Revealed() {
		return [][]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👁 Show answer", buildSessionCallback(tag, sessionReveal)),
				next,
			),
		}
	}

	fmt.Fprintf(sb, "\n\n<i>%s</i>", esc(ex.Answer()))

	return [][]tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardRow(next)}
}

func completionMark(done bool) string {
	if done {
		return "✅"
	}
	return "▫️"
}
