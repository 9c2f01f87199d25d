package entities

import "github.com/google/uuid"

// Step is one of the four exercise phases of a section.
type Step int

const (
	StepVocabulary Step = iota + 1 // vocabulary quiz
	StepAudio                      // audio practice
	StepDecoding                   // source to target translation
	StepEncoding                   // target to source translation
	StepFinished                   // terminal, reached by advancing past StepEncoding
)

// Valid reports whether s is one of the four exercise steps.
func (s Step) Valid() bool {
	return s >= StepVocabulary && s <= StepEncoding
}

// SessionState is the transient state of one section visit. It is never persisted.
type SessionState struct {
	ID          uuid.UUID
	ChapterID   string
	SectionID   string
	CurrentStep Step
}

// NewSessionState creates a state positioned at the first step.
func NewSessionState(chapterID, sectionID string) *SessionState {
	return &SessionState{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		SectionID:   sectionID,
		CurrentStep: StepVocabulary,
	}
}
