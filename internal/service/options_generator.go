package service

import (
	"math/rand"
)

// OptionCount is the number of choices offered per quiz question.
const OptionCount = 4

var placeholderOptions = []string{"Option A", "Option B", "Option C", "Option D", "Option E"}

// OptionGenerator generates multiple choice options for quiz questions.
type OptionGenerator struct {
	rnd *rand.Rand
}

// NewOptionGenerator creates a new option generator drawing from rnd.
func NewOptionGenerator(rnd *rand.Rand) *OptionGenerator {
	return &OptionGenerator{rnd: rnd}
}

// Generate returns OptionCount shuffled options: correct plus three distractors
// drawn from pool. Pool entries equal to correct are never used as distractors.
func (g *OptionGenerator) Generate(correct string, pool []string) []string {
	distractors := g.pickDistractors(correct, pool, OptionCount-1)

	options := make([]string, 0, OptionCount)
	options = append(options, correct)
	options = append(options, distractors...)

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

func (g *OptionGenerator) pickDistractors(correct string, pool []string, count int) []string {
	// Create a pool of distinct candidates
	seen := map[string]bool{correct: true}
	candidates := make([]string, 0, len(pool))
	for _, p := range pool {
		if seen[p] {
			continue
		}
		seen[p] = true
		candidates = append(candidates, p)
	}

	switch {
	case len(candidates) >= count:
		// Partial Fisher-Yates: the first count entries are a uniform sample without replacement.
		for i := 0; i < count; i++ {
			j := i + g.rnd.Intn(len(candidates)-i)
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
		return candidates[:count]

	case len(candidates) > 0:
		// Small vocabularies repeat distractors.
		picked := make([]string, 0, count)
		for len(picked) < count {
			picked = append(picked, candidates[g.rnd.Intn(len(candidates))])
		}
		return picked

	default:
		return placeholders(correct, count)
	}
}

// placeholders returns count generic options that differ from correct and from each other.
func placeholders(correct string, count int) []string {
	out := make([]string, 0, count)
	for _, p := range placeholderOptions {
		if len(out) == count {
			break
		}
		if p != correct {
			out = append(out, p)
		}
	}
	return out
}
