package vocab

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbuilder/pkg/models"
)

func newTestLedger(t *testing.T) (*Ledger, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	ledger := NewLedger(fs, "data")
	ledger.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return ledger, fs
}

func TestLedgerAddStampsDate(t *testing.T) {
	ledger, _ := newTestLedger(t)

	added, err := ledger.Add(models.WordEntry{Word: "cat", Meaning: "a feline", Category: "general"})
	require.NoError(t, err)
	assert.True(t, added)

	entry, err := ledger.Find("cat")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", entry.LearnedDate)
}

func TestLedgerAddDuplicateIsNoOp(t *testing.T) {
	ledger, fs := newTestLedger(t)

	added, err := ledger.Add(models.WordEntry{Word: "cat", Meaning: "a feline"})
	require.NoError(t, err)
	require.True(t, added)

	before, err := afero.ReadFile(fs, "data/learned.json")
	require.NoError(t, err)

	// Same word, different case: nothing is appended and nothing rewritten.
	added, err = ledger.Add(models.WordEntry{Word: "CAT", Meaning: "a different feline"})
	require.NoError(t, err)
	assert.False(t, added)

	after, err := afero.ReadFile(fs, "data/learned.json")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerAddDefaultsCategory(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Add(models.WordEntry{Word: "cat", Meaning: "a feline"})
	require.NoError(t, err)

	entry, err := ledger.Find("cat")
	require.NoError(t, err)
	assert.Equal(t, "general", entry.Category)
}

func TestLedgerAddSurvivesCorruptFile(t *testing.T) {
	ledger, fs := newTestLedger(t)
	require.NoError(t, afero.WriteFile(fs, "data/learned.json", []byte("not json"), 0644))

	added, err := ledger.Add(models.WordEntry{Word: "cat", Meaning: "a feline"})
	require.NoError(t, err)
	assert.True(t, added, "a corrupt ledger is treated as empty")

	entries, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cat", entries[0].Word)
}

func TestLedgerRemove(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.Add(models.WordEntry{Word: "cat", Meaning: "a feline"})
	require.NoError(t, err)
	_, err = ledger.Add(models.WordEntry{Word: "dog", Meaning: "a canine"})
	require.NoError(t, err)

	removed, err := ledger.Remove("CAT")
	require.NoError(t, err)
	assert.True(t, removed)

	entries, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dog", entries[0].Word)

	removed, err = ledger.Remove("cat")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLedgerLoadMissingFile(t *testing.T) {
	ledger, _ := newTestLedger(t)

	entries, err := ledger.Load()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestLedgerSaveNilWritesEmptyArray(t *testing.T) {
	ledger, fs := newTestLedger(t)
	require.NoError(t, ledger.Save(nil))

	data, err := afero.ReadFile(fs, "data/learned.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
