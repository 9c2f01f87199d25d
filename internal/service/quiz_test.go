package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
)

var quizItems = []entities.VocabularyItem{
	{Term: "hello", Translation: "こんにちは"},
	{Term: "goodbye", Translation: "さようなら"},
	{Term: "thanks", Translation: "ありがとう"},
}

func wrongIndex(q *Question) int {
	for i := range q.Options {
		if i != q.CorrectIndex {
			return i
		}
	}
	return -1
}

func TestVocabularyQuiz_WalksItemsInOrder(t *testing.T) {
	quiz := NewVocabularyQuiz(quizItems, newTestGenerator())
	require.Equal(t, 3, quiz.Total())

	for i, item := range quizItems {
		q := quiz.Current()
		require.NotNil(t, q)
		assert.Equal(t, i+1, q.Number)
		assert.Equal(t, item, q.Item)
		assert.Len(t, q.Options, OptionCount)
		assert.Equal(t, item.Translation, q.Options[q.CorrectIndex])
		assert.False(t, q.Answered())

		outcome, err := quiz.Select(q.CorrectIndex)
		require.NoError(t, err)
		assert.Equal(t, SelectCorrect, outcome)

		done, err := quiz.Next()
		require.NoError(t, err)
		assert.Equal(t, i == len(quizItems)-1, done)
	}

	assert.True(t, quiz.Done())
	assert.Nil(t, quiz.Current())
}

func TestVocabularyQuiz_SelectIsOneShot(t *testing.T) {
	quiz := NewVocabularyQuiz(quizItems, newTestGenerator())
	q := quiz.Current()

	outcome, err := quiz.Select(wrongIndex(q))
	require.NoError(t, err)
	assert.Equal(t, SelectIncorrect, outcome)

	outcome, err = quiz.Select(q.CorrectIndex)
	require.NoError(t, err)
	assert.Equal(t, SelectIgnored, outcome)
	assert.NotEqual(t, q.CorrectIndex, q.Selected)
}

func TestVocabularyQuiz_NextRequiresAnswer(t *testing.T) {
	quiz := NewVocabularyQuiz(quizItems, newTestGenerator())

	_, err := quiz.Next()
	assert.ErrorIs(t, err, ErrQuestionNotAnswered)
	assert.Equal(t, 1, quiz.Current().Number)
}

func TestVocabularyQuiz_InvalidOption(t *testing.T) {
	quiz := NewVocabularyQuiz(quizItems, newTestGenerator())

	_, err := quiz.Select(OptionCount)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = quiz.Select(-1)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.False(t, quiz.Current().Answered())
}

func TestVocabularyQuiz_Empty(t *testing.T) {
	quiz := NewVocabularyQuiz(nil, newTestGenerator())

	assert.True(t, quiz.Done())
	assert.Nil(t, quiz.Current())

	_, err := quiz.Select(0)
	assert.ErrorIs(t, err, ErrQuizFinished)

	done, err := quiz.Next()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestVocabularyQuiz_SingleItem(t *testing.T) {
	quiz := NewVocabularyQuiz(quizItems[:1], newTestGenerator())

	q := quiz.Current()
	require.NotNil(t, q)
	assert.Len(t, q.Options, OptionCount)
	assert.Equal(t, 1, countOf(q.Options, "こんにちは"))
}

func TestTranslationExercise(t *testing.T) {
	pairs := []entities.SentencePair{
		{Source: "Hello.", Target: "こんにちは。"},
		{Source: "Thank you.", Target: "ありがとう。"},
	}

	t.Run("decoding", func(t *testing.T) {
		ex := NewTranslationExercise(pairs, ModeDecoding)

		assert.Equal(t, "Hello.", ex.Prompt())
		assert.Equal(t, "こんにちは。", ex.Answer())
		assert.False(t, ex.Revealed())

		ex.Reveal()
		assert.True(t, ex.Revealed())

		assert.False(t, ex.Next())
		assert.False(t, ex.Revealed())
		pos, total := ex.Position()
		assert.Equal(t, 2, pos)
		assert.Equal(t, 2, total)
		assert.True(t, ex.IsLast())
		assert.True(t, ex.Next())
	})

	t.Run("encoding", func(t *testing.T) {
		ex := NewTranslationExercise(pairs, ModeEncoding)

		assert.Equal(t, "こんにちは。", ex.Prompt())
		assert.Equal(t, "Hello.", ex.Answer())
	})

	t.Run("empty", func(t *testing.T) {
		ex := NewTranslationExercise(nil, ModeDecoding)

		assert.Empty(t, ex.Prompt())
		assert.True(t, ex.IsLast())
		assert.True(t, ex.Next())
	})
}
