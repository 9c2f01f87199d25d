package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/repository"
)

var ErrNotifierNotSet = errors.New("notifier not initialized")

// ReminderPayload describes the section suggested by a reminder.
type ReminderPayload struct {
	ChapterID    string
	SectionID    string
	SectionTitle string
	Summary      ProgressSummary
}

type ReminderNotifier interface {
	SendReminder(ctx context.Context, payload ReminderPayload) error
}

type SectionLister interface {
	Sections() []repository.SectionRef
}

// ReminderService nudges the learner towards the next unfinished section on a cron schedule.
type ReminderService struct {
	schedule string
	content  SectionLister
	progress *ProgressService
	notifier ReminderNotifier
	logger   *zap.Logger
}

// NewReminderService creates a new reminder service. An empty schedule disables it.
func NewReminderService(
	schedule string,
	content SectionLister,
	progress *ProgressService,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		schedule: schedule,
		content:  content,
		progress: progress,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder job until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("reminders disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: sending daily reminder")
		if _, err := s.Remind(ctx); err != nil {
			s.logger.Error("failed to send reminder", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// Remind sends the first unfinished section to the learner. It reports false
// when every section is already complete.
func (s *ReminderService) Remind(ctx context.Context) (bool, error) {
	refs := s.content.Sections()

	next, ok := s.progress.FirstIncomplete(refs)
	if !ok {
		s.logger.Debug("all sections complete, no reminder")
		return false, nil
	}

	if s.notifier == nil {
		return false, ErrNotifierNotSet
	}

	payload := ReminderPayload{
		ChapterID:    next.ChapterID,
		SectionID:    next.Section.ID,
		SectionTitle: next.Section.Title,
		Summary:      s.progress.Summary(refs),
	}

	if err := s.notifier.SendReminder(ctx, payload); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("reminder sent", zap.String("section_id", payload.SectionID))
	return true, nil
}
