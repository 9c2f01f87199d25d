package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapter_FlexibleID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"id": 3, "title": "t"}`, want: "3"},
		{in: `{"id": "ch-3", "title": "t"}`, want: "ch-3"},
		{in: `{"title": "t"}`, want: ""},
	}

	for _, tt := range tests {
		var c Chapter
		require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
		assert.Equal(t, tt.want, c.ID)
		assert.Equal(t, "t", c.Title)
	}
}

func TestSection_SentenceForms(t *testing.T) {
	var list Section
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s","sentences":[{"en":"a","ja":"あ"},{"en":"b","ja":"び"}],"sentence_en":"x"}`), &list))
	assert.Len(t, list.Sentences, 2)

	var single Section
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s","sentence_en":"a","sentence_ja":"あ"}`), &single))
	assert.Equal(t, []SentencePair{{Source: "a", Target: "あ"}}, single.Sentences)

	var none Section
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s"}`), &none))
	assert.Empty(t, none.Sentences)
}

func TestProgressRecord_JSON(t *testing.T) {
	r := ProgressRecord{Completed: true, Timestamp: time.UnixMilli(1_700_000_000_500)}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed":true,"timestamp":1700000000500}`, string(out))

	var back ProgressRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Timestamp.Equal(r.Timestamp))
}

func TestProgressRecord_JSONWithoutTimestamp(t *testing.T) {
	out, err := json.Marshal(ProgressRecord{Completed: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed":true,"timestamp":0}`, string(out))

	var back ProgressRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Completed)
	assert.True(t, back.Timestamp.IsZero())
}

func TestStep_Valid(t *testing.T) {
	for step := StepVocabulary; step <= StepEncoding; step++ {
		assert.True(t, step.Valid())
	}
	assert.False(t, Step(0).Valid())
	assert.False(t, StepFinished.Valid())

	s := NewSessionState("c", "s")
	assert.Equal(t, StepVocabulary, s.CurrentStep)
	assert.NotEqual(t, NewSessionState("c", "s").ID, s.ID)
}
