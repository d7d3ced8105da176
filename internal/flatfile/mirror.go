package flatfile

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/example/vocabbuilder/pkg/models"
)

// DefaultFileName is the conventional name of the flat mirror.
const DefaultFileName = "vocabulary.txt"

// separator between fields of a mirror line.
const separator = " | "

// Mirror is the pipe-delimited flat-text view of a vocabulary: one line per
// word, fields `word | meaning | phrase | media | category`. It exists for
// quick scans and legacy import/export, independent of the category-keyed
// JSON documents.
type Mirror struct {
	fs   afero.Fs
	path string
}

// NewMirror creates a mirror backed by the file at path.
func NewMirror(fs afero.Fs, path string) *Mirror {
	return &Mirror{fs: fs, path: path}
}

// Load reads the mirror into a flat word list. Blank lines and lines with
// fewer than five fields are skipped. A missing file yields an empty list.
func (m *Mirror) Load() ([]models.WordEntry, error) {
	exists, err := afero.Exists(m.fs, m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %v", m.path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", m.path, err)
	}

	var words []models.WordEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, separator)
		if len(parts) < 5 {
			continue
		}
		words = append(words, models.WordEntry{
			Word:     parts[0],
			Meaning:  parts[1],
			Phrase:   parts[2],
			Media:    parts[3],
			Category: parts[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %v", m.path, err)
	}
	return words, nil
}

// Save rewrites the mirror from a flattened word list, in list order, using
// the same five-field layout Load expects.
func (m *Mirror) Save(words []models.WordEntry) error {
	if err := afero.WriteFile(m.fs, m.path, Encode(words), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", m.path, err)
	}
	return nil
}

// Encode renders a word list into the mirror's line format.
func Encode(words []models.WordEntry) []byte {
	var buf bytes.Buffer
	for _, w := range words {
		fields := []string{w.Word, w.Meaning, w.Phrase, w.Media, w.Category}
		buf.WriteString(strings.Join(fields, separator))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
