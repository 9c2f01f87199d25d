package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/repository"
	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

// ProgressService owns the progress document.
type ProgressService struct {
	mu       sync.RWMutex
	docs     *storage.Documents
	progress entities.Progress
	now      func() time.Time
	logger   *zap.Logger
}

// NewProgressService loads the progress document once.
func NewProgressService(ctx context.Context, docs *storage.Documents, logger *zap.Logger) (*ProgressService, error) {
	progress, err := storage.Load(ctx, docs, storage.KeyProgress, func() entities.Progress {
		return entities.Progress{}
	})
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = entities.Progress{}
	}

	return &ProgressService{
		docs:     docs,
		progress: progress,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// MarkComplete records sectionID as completed now and persists the document
// before returning. Completing again only refreshes the timestamp.
func (s *ProgressService) MarkComplete(ctx context.Context, sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.progress[sectionID]
	s.progress[sectionID] = entities.ProgressRecord{Completed: true, Timestamp: s.now()}

	if err := s.docs.Save(ctx, storage.KeyProgress, s.progress); err != nil {
		if existed {
			s.progress[sectionID] = prev
		} else {
			delete(s.progress, sectionID)
		}
		return err
	}

	s.logger.Info("section completed", zap.String("section_id", sectionID))
	return nil
}

// IsComplete reports whether sectionID has been completed. Unknown sections are not.
func (s *ProgressService) IsComplete(sectionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[sectionID].Completed
}

// Record returns the stored record for sectionID.
func (s *ProgressService) Record(sectionID string) (entities.ProgressRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.progress[sectionID]
	return r, ok
}

type ProgressSummary struct {
	Completed  int
	Total      int
	Percentage float64
}

// Summary counts completed sections among refs.
func (s *ProgressService) Summary(refs []repository.SectionRef) ProgressSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := ProgressSummary{Total: len(refs)}
	for _, ref := range refs {
		if s.progress[ref.Section.ID].Completed {
			summary.Completed++
		}
	}
	if summary.Total > 0 {
		summary.Percentage = float64(summary.Completed) / float64(summary.Total) * 100
	}

	return summary
}

// FirstIncomplete returns the first section in refs that is not completed.
func (s *ProgressService) FirstIncomplete(refs []repository.SectionRef) (repository.SectionRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ref := range refs {
		if !s.progress[ref.Section.ID].Completed {
			return ref, true
		}
	}
	return repository.SectionRef{}, false
}

// withoutTimestamps copies the progress document keeping only completion.
// Completed sections never revert, so a reset can only drop their dates.
func (s *ProgressService) withoutTimestamps() entities.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cleared := make(entities.Progress, len(s.progress))
	for id, r := range s.progress {
		cleared[id] = entities.ProgressRecord{Completed: r.Completed}
	}
	return cleared
}

func (s *ProgressService) replace(progress entities.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = progress
}
