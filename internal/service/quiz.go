package service

import (
	"errors"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
)

var (
	ErrQuizFinished        = errors.New("quiz finished")
	ErrQuestionNotAnswered = errors.New("question not answered")
	ErrInvalidOption       = errors.New("invalid option index")
)

// SelectOutcome is the result of choosing an option.
type SelectOutcome int

const (
	SelectIgnored   SelectOutcome = iota // question already answered
	SelectCorrect                        // chosen option is the translation
	SelectIncorrect                      // chosen option is a distractor
)

// Question is one vocabulary item with its generated options.
type Question struct {
	Number       int // 1-based position within the quiz
	Item         entities.VocabularyItem
	Options      []string
	CorrectIndex int
	Selected     int // -1 until an option is chosen
}

// Answered reports whether an option has been chosen.
func (q *Question) Answered() bool {
	return q.Selected >= 0
}

// VocabularyQuiz walks a section's vocabulary front to back, one question at a time.
type VocabularyQuiz struct {
	items     []entities.VocabularyItem
	generator *OptionGenerator
	index     int
	current   *Question
}

// NewVocabularyQuiz creates a quiz positioned at the first item.
func NewVocabularyQuiz(items []entities.VocabularyItem, generator *OptionGenerator) *VocabularyQuiz {
	q := &VocabularyQuiz{items: items, generator: generator}
	q.buildQuestion()
	return q
}

// Current returns the question on screen, or nil once the quiz is done.
func (q *VocabularyQuiz) Current() *Question {
	return q.current
}

// Done reports whether every item has been passed.
func (q *VocabularyQuiz) Done() bool {
	return q.index >= len(q.items)
}

// Total returns the number of questions in the quiz.
func (q *VocabularyQuiz) Total() int {
	return len(q.items)
}

// Select chooses an option of the current question. Only the first selection counts.
func (q *VocabularyQuiz) Select(optionIndex int) (SelectOutcome, error) {
	if q.current == nil {
		return SelectIgnored, ErrQuizFinished
	}
	if optionIndex < 0 || optionIndex >= len(q.current.Options) {
		return SelectIgnored, ErrInvalidOption
	}
	if q.current.Answered() {
		return SelectIgnored, nil
	}

	q.current.Selected = optionIndex
	if q.current.Options[optionIndex] == q.current.Item.Translation {
		return SelectCorrect, nil
	}
	return SelectIncorrect, nil
}

// Next moves past an answered question. It reports true when the quiz is done.
func (q *VocabularyQuiz) Next() (bool, error) {
	if q.current == nil {
		return true, nil
	}
	if !q.current.Answered() {
		return false, ErrQuestionNotAnswered
	}

	q.index++
	q.buildQuestion()
	return q.Done(), nil
}

func (q *VocabularyQuiz) buildQuestion() {
	if q.Done() {
		q.current = nil
		return
	}

	item := q.items[q.index]

	// Translations of all other items, by position.
	pool := make([]string, 0, len(q.items)-1)
	for i, other := range q.items {
		if i != q.index {
			pool = append(pool, other.Translation)
		}
	}

	options := q.generator.Generate(item.Translation, pool)
	correctIndex := 0
	for i, opt := range options {
		if opt == item.Translation {
			correctIndex = i
			break
		}
	}

	q.current = &Question{
		Number:       q.index + 1,
		Item:         item,
		Options:      options,
		CorrectIndex: correctIndex,
		Selected:     -1,
	}
}
