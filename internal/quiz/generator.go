package quiz

import (
	"fmt"
	"math/rand"

	"github.com/example/vocabbuilder/pkg/models"
)

// OptionCount is the size of a full multiple-choice option set.
const OptionCount = 4

// Generator produces multiple-choice quiz questions. The random source is
// an explicit dependency so callers (and tests) control determinism instead
// of relying on process-wide seeding.
type Generator struct {
	rnd *rand.Rand
}

// New creates a generator from a seedable source.
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Question is a single multiple-choice quiz question.
type Question struct {
	Word         models.WordEntry   `json:"word"`
	Options      []models.WordEntry `json:"options"`
	CorrectIndex int                `json:"correct_index"`
}

// Generate draws up to three distractors from pool and returns the shuffled
// option set containing correct exactly once. The correct entry is excluded
// from the candidate pool by exact word match. A meaningful four-option
// question needs a pool of at least four distinct words; the caller checks
// that precondition.
func (g *Generator) Generate(pool []models.WordEntry, correct models.WordEntry) []models.WordEntry {
	options := []models.WordEntry{correct}

	var candidates []models.WordEntry
	for _, w := range pool {
		if w.Word != correct.Word {
			candidates = append(candidates, w)
		}
	}

	// Draw without replacement.
	g.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	n := OptionCount - 1
	if len(candidates) < n {
		n = len(candidates)
	}
	options = append(options, candidates[:n]...)

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// NewQuestion picks a correct entry from pool (or uses the entry named by
// word, if given) and builds a question around it.
func (g *Generator) NewQuestion(pool []models.WordEntry, word string) (Question, error) {
	if len(pool) == 0 {
		return Question{}, fmt.Errorf("empty word pool")
	}

	var correct models.WordEntry
	if word == "" {
		correct = pool[g.rnd.Intn(len(pool))]
	} else {
		found := false
		for _, w := range pool {
			if w.SameWord(word) {
				correct = w
				found = true
				break
			}
		}
		if !found {
			return Question{}, fmt.Errorf("word %q not in pool", word)
		}
	}

	options := g.Generate(pool, correct)
	q := Question{Word: correct, Options: options}
	for i, o := range options {
		if o.Word == correct.Word {
			q.CorrectIndex = i
			break
		}
	}
	return q, nil
}
