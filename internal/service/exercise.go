package service

import "github.com/aliskhannn/stepwise-bot/internal/domain/entities"

// TranslationMode selects which side of a sentence pair is the prompt.
type TranslationMode int

const (
	ModeDecoding TranslationMode = iota // prompt source, answer target
	ModeEncoding                        // prompt target, answer source
)

// TranslationExercise steps through sentence pairs, revealing each answer on demand.
type TranslationExercise struct {
	sentences []entities.SentencePair
	mode      TranslationMode
	index     int
	revealed  bool
}

// NewTranslationExercise creates an exercise at the first sentence.
func NewTranslationExercise(sentences []entities.SentencePair, mode TranslationMode) *TranslationExercise {
	return &TranslationExercise{sentences: sentences, mode: mode}
}

// Mode returns the exercise direction.
func (e *TranslationExercise) Mode() TranslationMode {
	return e.mode
}

// Position returns the 1-based index of the current sentence and the total.
func (e *TranslationExercise) Position() (int, int) {
	return e.index + 1, len(e.sentences)
}

// Prompt returns the text to translate.
func (e *TranslationExercise) Prompt() string {
	if len(e.sentences) == 0 {
		return ""
	}
	s := e.sentences[e.index]
	if e.mode == ModeEncoding {
		return s.Target
	}
	return s.Source
}

// Answer returns the expected translation.
func (e *TranslationExercise) Answer() string {
	if len(e.sentences) == 0 {
		return ""
	}
	s := e.sentences[e.index]
	if e.mode == ModeEncoding {
		return s.Source
	}
	return s.Target
}

// Revealed reports whether the answer of the current sentence is shown.
func (e *TranslationExercise) Revealed() bool {
	return e.revealed
}

// Reveal shows the answer of the current sentence.
func (e *TranslationExercise) Reveal() {
	e.revealed = true
}

// IsLast reports whether the current sentence is the final one.
func (e *TranslationExercise) IsLast() bool {
	return e.index >= len(e.sentences)-1
}

// Next moves to the following sentence and hides its answer.
// It reports true when there is no following sentence.
func (e *TranslationExercise) Next() bool {
	if e.IsLast() {
		return true
	}
	e.index++
	e.revealed = false
	return false
}
