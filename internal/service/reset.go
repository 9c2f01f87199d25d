package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

type ResetService struct {
	docs     *storage.Documents
	settings *SettingsService
	progress *ProgressService
	logger   *zap.Logger
}

func NewResetService(
	docs *storage.Documents,
	settings *SettingsService,
	progress *ProgressService,
	logger *zap.Logger,
) *ResetService {
	return &ResetService{
		docs:     docs,
		settings: settings,
		progress: progress,
		logger:   logger,
	}
}

// Reset restores default settings and clears completion dates in one write.
// Completed sections stay completed. In-memory state changes only after the
// write succeeded.
func (s *ResetService) Reset(ctx context.Context) error {
	settingsKey, settingsDoc := s.settings.defaultDocument()
	progress := s.progress.withoutTimestamps()

	if err := s.docs.SaveAll(ctx, map[string]any{
		settingsKey:         settingsDoc,
		storage.KeyProgress: progress,
	}); err != nil {
		return err
	}

	s.settings.resetInMemory()
	s.progress.replace(progress)

	s.logger.Info("preferences reset", zap.Int("completed_sections", len(progress)))
	return nil
}
