package entities

import (
	"encoding/json"
	"maps"
)

// TranslationMode is the preferred translation direction.
type TranslationMode string

const (
	TranslationEnJa TranslationMode = "en-ja" // source to target
	TranslationJaEn TranslationMode = "ja-en" // target to source
)

// Audio playback speeds offered by the audio step.
const (
	AudioSpeedNormal = 1.0
	AudioSpeedSlow   = 0.8
)

const (
	keyTranslationMode = "translationMode"
	keyAudioSpeed      = "audioSpeed"
	keyAutoAdvance     = "autoAdvance"
)

// Settings stores learner preferences. Keys this version does not know about
// are kept in Extra and written back unchanged.
type Settings struct {
	TranslationMode TranslationMode
	AudioSpeed      float64
	AutoAdvance     bool
	Extra           map[string]json.RawMessage
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		TranslationMode: TranslationEnJa,
		AudioSpeed:      AudioSpeedNormal,
		AutoAdvance:     true,
	}
}

// SettingsPatch is a partial update. Nil fields are left untouched.
type SettingsPatch struct {
	TranslationMode *TranslationMode
	AudioSpeed      *float64
	AutoAdvance     *bool
	Extra           map[string]json.RawMessage
}

// Merge returns a copy of s with every non-nil field of p applied.
func (s Settings) Merge(p SettingsPatch) Settings {
	out := s.Clone()
	if p.TranslationMode != nil {
		out.TranslationMode = *p.TranslationMode
	}
	if p.AudioSpeed != nil {
		out.AudioSpeed = *p.AudioSpeed
	}
	if p.AutoAdvance != nil {
		out.AutoAdvance = *p.AutoAdvance
	}
	if len(p.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		}
		maps.Copy(out.Extra, p.Extra)
	}
	return out
}

// Clone returns a deep copy, so callers never share the Extra map.
func (s Settings) Clone() Settings {
	out := s
	if s.Extra != nil {
		out.Extra = maps.Clone(s.Extra)
	}
	return out
}

// MarshalJSON writes known and extra keys as one flat object.
func (s Settings) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Extra)+3)
	for k, v := range s.Extra {
		flat[k] = v
	}
	flat[keyTranslationMode] = s.TranslationMode
	flat[keyAudioSpeed] = s.AudioSpeed
	flat[keyAutoAdvance] = s.AutoAdvance
	return json.Marshal(flat)
}

// UnmarshalJSON reads a flat object. Known keys missing from data keep their current value.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	for k, v := range flat {
		var err error
		switch k {
		case keyTranslationMode:
			err = json.Unmarshal(v, &s.TranslationMode)
		case keyAudioSpeed:
			err = json.Unmarshal(v, &s.AudioSpeed)
		case keyAutoAdvance:
			err = json.Unmarshal(v, &s.AutoAdvance)
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[k] = v
		}
		if err != nil {
			return err
		}
	}

	return nil
}
