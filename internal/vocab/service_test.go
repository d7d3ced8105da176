package vocab

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbuilder/pkg/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "data")
	ledger := NewLedger(fs, "data")
	ledger.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, ledger, log, false)
}

func TestServiceAddWordDuplicate(t *testing.T) {
	svc := newTestService(t)

	err := svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "cat", Meaning: "a feline", Category: "general"})
	require.NoError(t, err)

	// Same word in the same category, different case.
	err = svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "Cat", Meaning: "another feline", Category: "general"})
	assert.ErrorIs(t, err, ErrDuplicateWord)

	// Same word in another category is fine.
	err = svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "cat", Meaning: "a feline", Category: "science"})
	assert.NoError(t, err)
}

func TestServiceAddWordValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "", Meaning: "x"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Word cannot be empty", err.Error())
}

func TestServiceWordsAttachesCategoryAndLevel(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.AddWord(models.LevelIntermediate, models.WordEntry{Word: "atom", Meaning: "smallest unit", Category: "science"}))

	words, err := svc.Words("2", "")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "science", words[0].Category)
	assert.Equal(t, models.LevelIntermediate, words[0].Level)

	// Category filter ignores case.
	words, err = svc.Words("2", "SCIENCE")
	require.NoError(t, err)
	assert.Len(t, words, 1)

	words, err = svc.Words("2", "travel")
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestServiceWordsInvalidLevel(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Words("7", "")
	assert.Error(t, err)
}

func TestServiceMoveToLearnedAndBack(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.AddWord(models.LevelIntermediate, models.WordEntry{
		Word:     "voyage",
		Meaning:  "a long trip",
		Category: "travel",
	}))

	require.NoError(t, svc.MoveToLearned(models.LevelIntermediate, "Voyage"))

	// Gone from the level document.
	words, err := svc.Words("2", "")
	require.NoError(t, err)
	assert.Empty(t, words)

	// In the ledger with its origin recorded.
	learned, err := svc.Learned()
	require.NoError(t, err)
	require.Len(t, learned, 1)
	assert.Equal(t, "voyage", learned[0].Word)
	assert.Equal(t, "travel", learned[0].Category)
	assert.Equal(t, models.LevelIntermediate, learned[0].Level)
	assert.NotEmpty(t, learned[0].LearnedDate)

	require.NoError(t, svc.MoveFromLearned("voyage"))

	// Back in the original category and level, ledger empty.
	words, err = svc.Words("2", "")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "voyage", words[0].Word)
	assert.Equal(t, "travel", words[0].Category)

	learned, err = svc.Learned()
	require.NoError(t, err)
	assert.Empty(t, learned)
}

func TestServiceMoveToLearnedNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.MoveToLearned(models.LevelBeginner, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceMoveFromLearnedNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.MoveFromLearned("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteWordNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteWord(models.LevelBeginner, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCategoryStats(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "cat", Meaning: "a feline", Category: "general"}))
	require.NoError(t, svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "dog", Meaning: "a canine", Category: "general"}))
	require.NoError(t, svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "atom", Meaning: "smallest unit", Category: "science"}))

	stats, err := svc.CategoryStats("1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"general": 2, "science": 1}, stats)
}

func TestServiceMergeDocument(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "cat", Meaning: "a feline", Category: "general"}))

	incoming := models.CategoryDocument{
		"general": {
			{Word: "CAT", Meaning: "duplicate, skipped"},
			{Word: "dog", Meaning: "a canine"},
		},
		"science": {
			{Word: "atom", Meaning: "smallest unit"},
		},
	}
	added, skipped, err := svc.MergeDocument(models.LevelBeginner, incoming)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, skipped)

	words, err := svc.Words("1", "")
	require.NoError(t, err)
	assert.Len(t, words, 3)
}

func TestServiceReplaceDocumentCanonicalizes(t *testing.T) {
	svc := newTestService(t)

	incoming := models.CategoryDocument{
		"general": {
			{Word: "cat", Meaning: "a feline", Expressions: []string{"a", "b", "c", "d", "e", "f", "g"}},
		},
		"General": {
			{Word: "CAT", Meaning: "case-variant duplicate"},
			{Word: "dog", Meaning: "a canine", Video: "dog.mp4"},
		},
		"": {
			{Word: "stray", Meaning: "no category"},
		},
	}
	count, err := svc.ReplaceDocument(models.LevelBeginner, incoming)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	doc, err := svc.Document(models.LevelBeginner)
	require.NoError(t, err)
	require.Len(t, doc, 1, "case-variant and empty category keys fold into one")
	require.Len(t, doc["general"], 3)

	assert.Equal(t, "cat", doc["general"][0].Word)
	assert.Len(t, doc["general"][0].Expressions, MaxExpressions, "expressions are capped on write")
	assert.Equal(t, "stray", doc["general"][1].Word)
	assert.Equal(t, "dog", doc["general"][2].Word)
	assert.Equal(t, "dog.mp4", doc["general"][2].Media, "legacy video alias resolved")

	words, err := svc.Words("1", "")
	require.NoError(t, err)
	assert.Len(t, words, 3, "the case-variant duplicate was dropped")
}

func TestServiceLearnedEntriesDefaultsCategory(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "data")
	ledger := NewLedger(fs, "data")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, ledger, log, false)

	// A hand-edited ledger entry without a category.
	raw := `[{"word":"cat","meaning":"a feline","learned_date":"2024-03-01T12:00:00Z"}]`
	require.NoError(t, afero.WriteFile(fs, "data/learned.json", []byte(raw), 0644))

	entries, err := svc.LearnedEntries("")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "general", entries[0].Category)

	// The defaulted category is visible to the filter.
	entries, err = svc.LearnedEntries("GENERAL")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cat", entries[0].Word)

	// And to the flattened word listing.
	words, err := svc.Words("learned", "general")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "cat", words[0].Word)
}

func TestServiceStrictCategories(t *testing.T) {
	svc := newTestService(t)
	svc.strict = true

	err := svc.AddWord(models.LevelBeginner, models.WordEntry{Word: "cat", Meaning: "a feline", Category: "astrology"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Unknown category: astrology", err.Error())
}
