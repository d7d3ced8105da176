package vocab

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/example/vocabbuilder/pkg/models"
)

// LedgerFileName is the learned-words document inside the data directory.
const LedgerFileName = "learned.json"

// Ledger is the flat document of words marked as mastered. Unlike the level
// documents it is a plain sequence, not category-keyed.
type Ledger struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewLedger creates a ledger stored under dir.
func NewLedger(fs afero.Fs, dir string) *Ledger {
	return &Ledger{
		fs:   fs,
		path: filepath.Join(dir, LedgerFileName),
		now:  time.Now,
	}
}

// Load reads the ledger. A missing file yields an empty sequence with a nil
// error; a malformed file yields an empty sequence plus the parse error for
// the caller to log.
func (l *Ledger) Load() ([]models.LearnedEntry, error) {
	exists, err := afero.Exists(l.fs, l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %v", l.path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(l.fs, l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", l.path, err)
	}
	var entries []models.LearnedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed ledger %s: %v", l.path, err)
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return entries, nil
}

// Save rewrites the ledger in full.
func (l *Ledger) Save(entries []models.LearnedEntry) error {
	if entries == nil {
		entries = []models.LearnedEntry{}
	}
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %v", err)
	}
	if err := afero.WriteFile(l.fs, l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", l.path, err)
	}
	return nil
}

// Add stamps the entry with the current time and appends it, unless a word
// with the same name (case-insensitive) is already present, in which case
// nothing is written and false is returned. A corrupt ledger is treated as
// empty, matching Load's fail-open policy.
func (l *Ledger) Add(entry models.WordEntry) (bool, error) {
	entries, err := l.Load()
	if err != nil {
		entries = nil
	}
	for _, e := range entries {
		if e.SameWord(entry.Word) {
			return false, nil
		}
	}
	entry.Normalize()
	if entry.Category == "" {
		entry.Category = "general"
	}
	entries = append(entries, models.LearnedEntry{
		WordEntry:   entry,
		LearnedDate: l.now().Format(time.RFC3339),
	})
	if err := l.Save(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Remove filters out every entry matching word (case-insensitive) and
// persists the remainder. It reports whether anything was removed.
func (l *Ledger) Remove(word string) (bool, error) {
	entries, err := l.Load()
	if err != nil {
		return false, err
	}
	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.SameWord(word) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return false, nil
	}
	return true, l.Save(kept)
}

// Find returns the ledger entry for word (case-insensitive) or ErrNotFound.
func (l *Ledger) Find(word string) (models.LearnedEntry, error) {
	entries, err := l.Load()
	if err != nil {
		return models.LearnedEntry{}, err
	}
	for _, e := range entries {
		if e.SameWord(word) {
			return e, nil
		}
	}
	return models.LearnedEntry{}, ErrNotFound
}
