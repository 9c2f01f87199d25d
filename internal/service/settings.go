package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

// SettingsService owns the settings document.
type SettingsService struct {
	mu       sync.RWMutex
	docs     *storage.Documents
	settings entities.Settings
	logger   *zap.Logger
}

// NewSettingsService loads the settings document once.
func NewSettingsService(ctx context.Context, docs *storage.Documents, logger *zap.Logger) (*SettingsService, error) {
	settings, err := storage.Load(ctx, docs, storage.KeySettings, entities.DefaultSettings)
	if err != nil {
		return nil, err
	}

	return &SettingsService{
		docs:     docs,
		settings: settings,
		logger:   logger,
	}, nil
}

// Get returns the latest settings.
func (s *SettingsService) Get() entities.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Update merges patch into the current settings and persists the result.
// The merged settings become visible only after they are saved.
func (s *SettingsService) Update(ctx context.Context, patch entities.SettingsPatch) (entities.Settings, error) {
	return s.apply(ctx, func(entities.Settings) entities.SettingsPatch { return patch })
}

// apply builds a patch from the current settings and saves it under one lock.
func (s *SettingsService) apply(
	ctx context.Context,
	build func(current entities.Settings) entities.SettingsPatch,
) (entities.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.settings.Merge(build(s.settings))
	if err := s.docs.Save(ctx, storage.KeySettings, merged); err != nil {
		return s.settings.Clone(), err
	}

	s.settings = merged
	s.logger.Debug("settings updated",
		zap.String("translation_mode", string(merged.TranslationMode)),
		zap.Float64("audio_speed", merged.AudioSpeed),
		zap.Bool("auto_advance", merged.AutoAdvance),
	)

	return merged.Clone(), nil
}

// ToggleAudioSpeed switches between normal and slow playback.
func (s *SettingsService) ToggleAudioSpeed(ctx context.Context) (entities.Settings, error) {
	return s.apply(ctx, func(current entities.Settings) entities.SettingsPatch {
		speed := entities.AudioSpeedSlow
		if current.AudioSpeed != entities.AudioSpeedNormal {
			speed = entities.AudioSpeedNormal
		}
		return entities.SettingsPatch{AudioSpeed: &speed}
	})
}

// ToggleTranslationMode switches the preferred translation direction.
func (s *SettingsService) ToggleTranslationMode(ctx context.Context) (entities.Settings, error) {
	return s.apply(ctx, func(current entities.Settings) entities.SettingsPatch {
		mode := entities.TranslationJaEn
		if current.TranslationMode == entities.TranslationJaEn {
			mode = entities.TranslationEnJa
		}
		return entities.SettingsPatch{TranslationMode: &mode}
	})
}

// ToggleAutoAdvance flips the auto-advance flag.
func (s *SettingsService) ToggleAutoAdvance(ctx context.Context) (entities.Settings, error) {
	return s.apply(ctx, func(current entities.Settings) entities.SettingsPatch {
		enabled := !current.AutoAdvance
		return entities.SettingsPatch{AutoAdvance: &enabled}
	})
}

// defaultDocument is used by ResetService.
func (s *SettingsService) defaultDocument() (string, any) {
	return storage.KeySettings, entities.DefaultSettings()
}

// resetInMemory publishes defaults after ResetService has saved them.
func (s *SettingsService) resetInMemory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = entities.DefaultSettings()
}
