package telegram

import (
	"context"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/repository"
	"github.com/aliskhannn/stepwise-bot/internal/service"
)

type SessionEngine interface {
	Open(ctx context.Context, chapterID, sectionID string) (*service.Session, error)
}

type ContentRepository interface {
	Chapters() []*entities.Chapter
	Sections() []repository.SectionRef
}

type ProgressService interface {
	IsComplete(sectionID string) bool
	Summary(refs []repository.SectionRef) service.ProgressSummary
}

type SettingsService interface {
	Get() entities.Settings
	ToggleTranslationMode(ctx context.Context) (entities.Settings, error)
	ToggleAudioSpeed(ctx context.Context) (entities.Settings, error)
	ToggleAutoAdvance(ctx context.Context) (entities.Settings, error)
}

type ResetService interface {
	Reset(ctx context.Context) error
}
