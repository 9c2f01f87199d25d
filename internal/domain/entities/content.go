// Package entities contains domain entities used across the application.
package entities

import "encoding/json"

// Chapter groups the sections of one textbook chapter.
type Chapter struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Sections []*Section `json:"sections"`
}

// UnmarshalJSON accepts both numeric and string chapter identifiers.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	type alias Chapter
	var raw struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Chapter(raw.alias)
	c.ID = flexibleID(raw.ID)
	return nil
}

// Section is a self-contained lesson: vocabulary, sentences and one audio asset.
// Sections are supplied by the content file and never mutated.
type Section struct {
	ID         string           `json:"id"`    // unique within its chapter
	Title      string           `json:"title"` // human readable title
	Vocabulary []VocabularyItem `json:"vocabulary"`
	Sentences  []SentencePair   `json:"sentences"`
	AudioFile  string           `json:"audio_file"` // file name relative to the audio directory
}

// UnmarshalJSON folds the single-sentence sentence_en/sentence_ja form into Sentences.
func (s *Section) UnmarshalJSON(data []byte) error {
	type alias Section
	var raw struct {
		alias
		SentenceEN string `json:"sentence_en"`
		SentenceJA string `json:"sentence_ja"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Section(raw.alias)
	if len(s.Sentences) == 0 && (raw.SentenceEN != "" || raw.SentenceJA != "") {
		s.Sentences = []SentencePair{{Source: raw.SentenceEN, Target: raw.SentenceJA}}
	}
	return nil
}

// VocabularyItem is a term and its translation. Distractors are compared by Translation.
type VocabularyItem struct {
	Term        string `json:"en"`
	Translation string `json:"ja"`
}

// SentencePair is one bilingual sentence.
type SentencePair struct {
	Source string `json:"en"` // source-language text
	Target string `json:"ja"` // target-language text
}

func flexibleID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}
