package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := decodeCallback(cb.Data)

	var fn CallbackFunc
	switch data.Action {
	case actionHome:
		fn = h.homeCallback
	case actionOpen:
		fn = h.openCallback
	case actionSession:
		fn = h.sessionCallback
	case actionProgress:
		fn = h.progressCallback
	case actionSettings:
		fn = h.settingsCallback
	case actionReset:
		fn = h.resetCallback
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	toast, _ := h.withCallbackErrorHandling(fn)(ctx, cb, data)

	// Remove the learner's "clock".
	h.answerCallback(cb.ID, toast)
}

func (h *Handler) homeCallback(_ context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	h.closeSession()
	text, kb := h.renderHome()
	h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)
	return "", nil
}

func (h *Handler) openCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	refs := h.content.Sections()
	index, ok := data.intParam(0)
	if !ok || index < 0 || index >= len(refs) {
		h.closeSession()
		text, kb := h.renderHome()
		h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)
		return msgSectionNotFound, nil
	}

	ref := refs[index]

	h.closeSession()
	h.sessionMsgID = cb.Message.MessageID

	s, err := h.engine.Open(ctx, ref.ChapterID, ref.Section.ID)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			return msgSectionNotFound, nil
		}
		return "", err
	}

	h.session = s
	h.refreshSession()
	return "", nil
}

func (h *Handler) sessionCallback(ctx context.Context, _ *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	s := h.session
	if s == nil || data.param(0) != sessionTag(s) {
		return msgSessionExpired, nil
	}

	var (
		toast string
		err   error
	)

	switch data.param(1) {
	case sessionSelect:
		index, ok := data.intParam(2)
		if !ok {
			return msgWrongStep, nil
		}
		var outcome service.SelectOutcome
		outcome, err = s.SelectOption(index)
		toast = outcomeToast(outcome)

	case sessionNextQuestion:
		err = s.NextQuestion(ctx)

	case sessionGoTo:
		step, ok := data.intParam(2)
		if !ok {
			return msgWrongStep, nil
		}
		err = s.GoTo(entities.Step(step))

	case sessionAdvance:
		err = s.Advance(ctx)

	case sessionPlayAudio:
		toast, err = h.sendSectionAudio(s)

	case sessionSpeed:
		var speed float64
		speed, err = s.ToggleAudioSpeed(ctx)
		if err == nil {
			toast = fmt.Sprintf("🔊 Speed: %s", formatSpeed(speed))
		}

	case sessionReveal:
		err = s.Reveal()

	case sessionNextSentence:
		err = s.NextSentence(ctx)

	case sessionExit:
		s.Exit(ctx)
		return "", nil

	default:
		h.logger.Debug("unknown session callback", zap.String("data", data.Raw))
		return "", nil
	}

	if err != nil {
		if msg, ok := sessionErrorToast(err); ok {
			return msg, nil
		}
		return "", err
	}

	if h.session == s && !s.Finished() {
		h.refreshSession()
	}

	return toast, nil
}

func (h *Handler) progressCallback(_ context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	text, kb := h.renderProgress()
	h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)
	return "", nil
}

func (h *Handler) settingsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	var err error

	switch data.param(0) {
	case settingsMenu:
	case settingsMode:
		_, err = h.settingsService.ToggleTranslationMode(ctx)
	case settingsSpeed:
		_, err = h.settingsService.ToggleAudioSpeed(ctx)
	case settingsAutoAdvance:
		_, err = h.settingsService.ToggleAutoAdvance(ctx)
	default:
		h.logger.Debug("unknown settings callback", zap.String("data", data.Raw))
		return "", nil
	}
	if err != nil {
		return "", err
	}

	text, kb := h.renderSettings()
	h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)

	if h.session != nil {
		h.refreshSession()
	}

	return "", nil
}

func (h *Handler) resetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	switch data.param(0) {
	case resetConfirm:
		h.closeSession()
		if err := h.resetService.Reset(ctx); err != nil {
			return "", err
		}
		text, kb := h.renderHome()
		h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)
		return msgResetDone, nil

	case resetCancel:
		h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, msgResetCancelled, nil)
		return "", nil
	}

	return "", nil
}

func (h *Handler) refreshSession() {
	if h.session == nil || h.sessionMsgID == 0 {
		return
	}

	text, kb := renderSession(h.session, h.settingsService.Get().AutoAdvance)
	h.editMessage(h.learnerChatID, h.sessionMsgID, text, &kb)
}

func (h *Handler) sendSectionAudio(s *service.Session) (string, error) {
	section := s.Section()
	if section.AudioFile == "" {
		return msgNoAudio, nil
	}

	path := filepath.Join(h.audioDir, section.AudioFile)

	a := tgbotapi.NewAudio(h.learnerChatID, tgbotapi.FilePath(path))
	a.Caption = fmt.Sprintf("%s · %s", section.Title, formatSpeed(s.AudioSpeed()))

	return "", h.send(a)
}

func outcomeToast(outcome service.SelectOutcome) string {
	switch outcome {
	case service.SelectCorrect:
		return msgCorrect
	case service.SelectIncorrect:
		return msgIncorrect
	default:
		return ""
	}
}

// sessionErrorToast maps expected session errors to a learner-facing toast.
func sessionErrorToast(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrSessionFinished):
		return msgSessionExpired, true
	case errors.Is(err, service.ErrQuestionNotAnswered):
		return msgAnswerFirst, true
	case errors.Is(err, service.ErrWrongStep),
		errors.Is(err, service.ErrInvalidStepIndex),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrQuizFinished):
		return msgWrongStep, true
	default:
		return "", false
	}
}
