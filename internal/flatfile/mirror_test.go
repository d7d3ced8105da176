package flatfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbuilder/pkg/models"
)

func TestMirrorRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	mirror := NewMirror(fs, "data/vocabulary.txt")

	words := []models.WordEntry{
		{Word: "cat", Meaning: "a feline", Phrase: "The cat sleeps.", Media: "cat.png", Category: "general"},
		{Word: "atom", Meaning: "smallest unit", Phrase: "", Media: "", Category: "science"},
	}
	require.NoError(t, mirror.Save(words))

	got, err := mirror.Load()
	require.NoError(t, err)
	assert.Equal(t, words, got)
}

func TestMirrorLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	mirror := NewMirror(fs, "data/vocabulary.txt")

	words, err := mirror.Load()
	require.NoError(t, err)
	assert.Nil(t, words)
}

func TestMirrorLoadSkipsMalformedLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	raw := "cat | a feline | The cat sleeps. | cat.png | general\n" +
		"\n" +
		"short | line\n" +
		"dog | a canine | The dog barks. |  | general\n"
	require.NoError(t, afero.WriteFile(fs, "data/vocabulary.txt", []byte(raw), 0644))

	mirror := NewMirror(fs, "data/vocabulary.txt")
	words, err := mirror.Load()
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "cat", words[0].Word)
	assert.Equal(t, "dog", words[1].Word)
	assert.Equal(t, "a canine", words[1].Meaning)
}

func TestEncodeLineFormat(t *testing.T) {
	words := []models.WordEntry{
		{Word: "cat", Meaning: "a feline", Phrase: "The cat sleeps.", Media: "cat.png", Category: "general"},
	}
	assert.Equal(t, "cat | a feline | The cat sleeps. | cat.png | general\n", string(Encode(words)))
}
