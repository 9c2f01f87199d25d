package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/repository"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrInvalidStepIndex = errors.New("invalid step index")
	ErrSessionFinished  = errors.New("session finished")
	ErrWrongStep        = errors.New("action not available on current step")
)

type ContentRepository interface {
	FindSection(chapterID, sectionID string) (*entities.Section, error)
}

type ProgressMarker interface {
	MarkComplete(ctx context.Context, sectionID string) error
}

type SettingsProvider interface {
	Get() entities.Settings
	ToggleAudioSpeed(ctx context.Context) (entities.Settings, error)
}

// Navigator leaves the session view.
type Navigator interface {
	GoHome(ctx context.Context)
}

// SessionObserver is told about changes no caller asked for, such as a quiz auto-advance.
type SessionObserver interface {
	SessionChanged(ctx context.Context, s *Session)
}

// SessionEngine opens sessions and wires them to the progress, settings and navigation collaborators.
type SessionEngine struct {
	content          ContentRepository
	progress         ProgressMarker
	settings         SettingsProvider
	generator        *OptionGenerator
	scheduler        Scheduler
	navigator        Navigator
	observer         SessionObserver
	autoAdvanceDelay time.Duration
	logger           *zap.Logger
}

func NewSessionEngine(
	content ContentRepository,
	progress ProgressMarker,
	settings SettingsProvider,
	generator *OptionGenerator,
	scheduler Scheduler,
	navigator Navigator,
	autoAdvanceDelay time.Duration,
	logger *zap.Logger,
) *SessionEngine {
	return &SessionEngine{
		content:          content,
		progress:         progress,
		settings:         settings,
		generator:        generator,
		scheduler:        scheduler,
		navigator:        navigator,
		autoAdvanceDelay: autoAdvanceDelay,
		logger:           logger,
	}
}

// SetObserver sets the observer (called after the delivery layer is created).
func (e *SessionEngine) SetObserver(observer SessionObserver) {
	e.observer = observer
}

// Open starts a fresh session at the vocabulary step. When the section does
// not exist nothing is created, the navigator goes home and ErrSectionNotFound
// is returned.
func (e *SessionEngine) Open(ctx context.Context, chapterID, sectionID string) (*Session, error) {
	section, err := e.content.FindSection(chapterID, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			e.logger.Info("section not found, redirecting home",
				zap.String("chapter_id", chapterID),
				zap.String("section_id", sectionID),
				zap.Error(err),
			)
			e.navigator.GoHome(ctx)
			return nil, fmt.Errorf("%w: %s/%s", ErrSectionNotFound, chapterID, sectionID)
		}
		return nil, err
	}

	s := &Session{
		engine:  e,
		state:   entities.NewSessionState(chapterID, sectionID),
		section: section,
	}
	s.enterStep(entities.StepVocabulary)

	e.logger.Debug("session opened",
		zap.String("session_id", s.state.ID.String()),
		zap.String("section_id", sectionID),
	)

	return s, nil
}

// Session is one visit of a section. All methods must be called from a single goroutine.
type Session struct {
	engine   *SessionEngine
	state    *entities.SessionState
	section  *entities.Section
	quiz     *VocabularyQuiz
	exercise *TranslationExercise
	pending  DeferredTask
	token    uint64 // bumped whenever a scheduled auto-advance must not apply
	closed   bool
}

// State returns the session state.
func (s *Session) State() entities.SessionState {
	return *s.state
}

// Section returns the section being studied.
func (s *Session) Section() *entities.Section {
	return s.section
}

// CurrentStep returns the current step, StepFinished after completion.
func (s *Session) CurrentStep() entities.Step {
	return s.state.CurrentStep
}

// Finished reports whether the session is over, completed or exited.
func (s *Session) Finished() bool {
	return s.closed
}

// Quiz returns the vocabulary quiz while on the vocabulary step.
func (s *Session) Quiz() *VocabularyQuiz {
	return s.quiz
}

// Exercise returns the translation exercise while on a translation step.
func (s *Session) Exercise() *TranslationExercise {
	return s.exercise
}

// AudioSpeed returns the playback speed for the audio step.
func (s *Session) AudioSpeed() float64 {
	return s.engine.settings.Get().AudioSpeed
}

// Advance moves to the next step. Advancing from the last step marks the
// section complete, finishes the session and goes home. On a finished session
// it does nothing.
func (s *Session) Advance(ctx context.Context) error {
	if s.closed {
		return nil
	}

	if s.state.CurrentStep < entities.StepEncoding {
		s.enterStep(s.state.CurrentStep + 1)
		s.engine.logger.Debug("step advanced",
			zap.String("session_id", s.state.ID.String()),
			zap.Int("step", int(s.state.CurrentStep)),
		)
		return nil
	}

	if err := s.engine.progress.MarkComplete(ctx, s.state.SectionID); err != nil {
		return fmt.Errorf("mark section complete: %w", err)
	}

	s.state.CurrentStep = entities.StepFinished
	s.Close()
	s.engine.navigator.GoHome(ctx)
	return nil
}

// GoTo jumps to step without any completion side effect.
func (s *Session) GoTo(step entities.Step) error {
	if s.closed {
		return ErrSessionFinished
	}
	if !step.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStepIndex, step)
	}
	if step == s.state.CurrentStep {
		return nil
	}

	s.enterStep(step)
	return nil
}

// SelectOption answers the current quiz question. A correct answer schedules
// the move to the next question when auto-advance is enabled.
func (s *Session) SelectOption(optionIndex int) (SelectOutcome, error) {
	if err := s.requireStep(entities.StepVocabulary); err != nil {
		return SelectIgnored, err
	}

	outcome, err := s.quiz.Select(optionIndex)
	if err != nil {
		return outcome, err
	}

	if outcome == SelectCorrect && s.engine.settings.Get().AutoAdvance {
		token := s.token
		s.pending = s.engine.scheduler.Schedule(s.engine.autoAdvanceDelay, func(ctx context.Context) {
			s.autoAdvance(ctx, token)
		})
	}

	return outcome, nil
}

// NextQuestion moves past an answered quiz question, completing the
// vocabulary step after the last one.
func (s *Session) NextQuestion(ctx context.Context) error {
	if err := s.requireStep(entities.StepVocabulary); err != nil {
		return err
	}

	s.cancelPending()
	done, err := s.quiz.Next()
	if err != nil {
		return err
	}
	if done {
		return s.Advance(ctx)
	}
	return nil
}

// Reveal shows the answer of the current sentence.
func (s *Session) Reveal() error {
	if err := s.requireTranslation(); err != nil {
		return err
	}
	s.exercise.Reveal()
	return nil
}

// NextSentence moves to the next sentence, completing the step after the last one.
func (s *Session) NextSentence(ctx context.Context) error {
	if err := s.requireTranslation(); err != nil {
		return err
	}
	if s.exercise.Next() {
		return s.Advance(ctx)
	}
	return nil
}

// ToggleAudioSpeed switches playback speed and returns the new value.
func (s *Session) ToggleAudioSpeed(ctx context.Context) (float64, error) {
	if s.closed {
		return 0, ErrSessionFinished
	}
	settings, err := s.engine.settings.ToggleAudioSpeed(ctx)
	if err != nil {
		return 0, err
	}
	return settings.AudioSpeed, nil
}

// Exit discards the session and goes home without recording anything.
func (s *Session) Exit(ctx context.Context) {
	s.Close()
	s.engine.navigator.GoHome(ctx)
}

// Close tears the session down and suppresses any pending auto-advance.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.cancelPending()
	s.closed = true
	s.quiz = nil
	s.exercise = nil
}

func (s *Session) autoAdvance(ctx context.Context, token uint64) {
	if s.closed || token != s.token || s.state.CurrentStep != entities.StepVocabulary {
		return
	}
	s.pending = nil

	if err := s.NextQuestion(ctx); err != nil {
		s.engine.logger.Error("auto-advance failed",
			zap.String("session_id", s.state.ID.String()),
			zap.Error(err),
		)
		return
	}

	if s.engine.observer != nil {
		s.engine.observer.SessionChanged(ctx, s)
	}
}

func (s *Session) enterStep(step entities.Step) {
	s.cancelPending()
	s.state.CurrentStep = step
	s.quiz = nil
	s.exercise = nil

	switch step {
	case entities.StepVocabulary:
		s.quiz = NewVocabularyQuiz(s.section.Vocabulary, s.engine.generator)
	case entities.StepDecoding:
		s.exercise = NewTranslationExercise(s.section.Sentences, ModeDecoding)
	case entities.StepEncoding:
		s.exercise = NewTranslationExercise(s.section.Sentences, ModeEncoding)
	}
}

func (s *Session) cancelPending() {
	s.token++
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

func (s *Session) requireStep(step entities.Step) error {
	if s.closed {
		return ErrSessionFinished
	}
	if s.state.CurrentStep != step {
		return ErrWrongStep
	}
	return nil
}

func (s *Session) requireTranslation() error {
	if s.closed {
		return ErrSessionFinished
	}
	if s.exercise == nil {
		return ErrWrongStep
	}
	return nil
}
