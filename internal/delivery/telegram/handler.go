package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/service"
)

const eventQueueSize = 16

// Handler serves the learner chat. Updates and deferred session events are
// processed one at a time on the Run goroutine, so the active session is
// never touched concurrently.
type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	learnerChatID   int64
	audioDir        string
	engine          SessionEngine
	content         ContentRepository
	progressService ProgressService
	settingsService SettingsService
	resetService    ResetService

	events  chan func(ctx context.Context)
	stopped chan struct{}

	session      *service.Session
	sessionMsgID int
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	learnerChatID int64,
	audioDir string,
	content ContentRepository,
	progressService ProgressService,
	settingsService SettingsService,
	resetService ResetService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		learnerChatID:   learnerChatID,
		audioDir:        audioDir,
		content:         content,
		progressService: progressService,
		settingsService: settingsService,
		resetService:    resetService,
		events:          make(chan func(ctx context.Context), eventQueueSize),
		stopped:         make(chan struct{}),
	}
}

// SetEngine sets the session engine (called after the engine is created with this handler).
func (h *Handler) SetEngine(engine SessionEngine) {
	h.engine = engine
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")
	defer close(h.stopped)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			h.closeSession()
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		case fn := <-h.events:
			fn(ctx)
		}
	}
}

// Schedule runs fn on the handler goroutine after delay. Nothing is posted
// once the loop has stopped.
func (h *Handler) Schedule(delay time.Duration, fn func(ctx context.Context)) service.DeferredTask {
	t := time.AfterFunc(delay, func() {
		select {
		case <-h.stopped:
			return
		default:
		}

		select {
		case h.events <- fn:
		case <-h.stopped:
		}
	})
	return loopTask{t: t}
}

type loopTask struct {
	t *time.Timer
}

func (t loopTask) Cancel() bool {
	return t.t.Stop()
}

// GoHome replaces the session view with the home view.
func (h *Handler) GoHome(ctx context.Context) {
	h.session = nil

	text, kb := h.renderHome()
	if h.sessionMsgID != 0 {
		msgID := h.sessionMsgID
		h.sessionMsgID = 0
		h.editMessage(h.learnerChatID, msgID, text, &kb)
		return
	}

	msg := newHTMLMessage(h.learnerChatID, text)
	msg.ReplyMarkup = kb
	_ = h.send(msg)
}

// SessionChanged re-renders the session view after an auto-advance.
func (h *Handler) SessionChanged(_ context.Context, s *service.Session) {
	if s != h.session || s.Finished() {
		return
	}
	h.refreshSession()
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || cb.Message.Chat.ID != h.learnerChatID {
			h.logger.Debug("callback from foreign chat ignored", zap.Int64("user_id", cb.From.ID))
			return
		}

		h.logger.Debug("callback received",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
		)
		h.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	if chatID != h.learnerChatID {
		h.logger.Debug("message from foreign chat ignored", zap.Int64("chat_id", chatID))
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if !update.Message.IsCommand() {
		_ = h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start", "home":
		_ = h.withErrorHandling(h.homeHandler())(ctx, chatID)

	case "progress":
		_ = h.withErrorHandling(h.progressHandler())(ctx, chatID)

	case "settings":
		_ = h.withErrorHandling(h.settingsHandler())(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.resetHandler())(ctx, chatID)

	case "help":
		_ = h.send(newHTMLMessage(chatID, msgHelp))

	default:
		_ = h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) closeSession() {
	if h.session != nil {
		h.session.Close()
		h.session = nil
	}
	h.sessionMsgID = 0
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *Handler) editMessage(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = kb

	if _, err := h.bot.Send(edit); err != nil && !isNotModified(err) {
		h.logger.Error("failed to edit telegram message",
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
