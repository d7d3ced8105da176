package vocab

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/example/vocabbuilder/pkg/models"
)

// Store reads and writes the per-level category documents. Every operation
// is a full read of the document, an in-memory mutation and a full rewrite;
// there is no locking between writers.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// LevelFile returns the document path for a difficulty level.
func (s *Store) LevelFile(level int) string {
	return filepath.Join(s.dir, fmt.Sprintf("level%d.json", level))
}

// Load reads a level's document. A missing file is the normal first-run
// state and yields an empty document with a nil error. A malformed file also
// yields an empty document, but the parse error is returned so the caller
// can log it; read paths are expected to continue with the empty document.
func (s *Store) Load(level int) (models.CategoryDocument, error) {
	doc := models.CategoryDocument{}
	if !models.ValidLevel(level) {
		return doc, fmt.Errorf("invalid difficulty level: %d", level)
	}

	path := s.LevelFile(level)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return doc, fmt.Errorf("failed to stat %s: %v", path, err)
	}
	if !exists {
		return doc, nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return doc, fmt.Errorf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.CategoryDocument{}, fmt.Errorf("malformed document %s: %v", path, err)
	}

	// Canonicalize: resolve the legacy video alias and drop stray category
	// keys that older tools wrote into entries.
	for category, entries := range doc {
		for i := range entries {
			entries[i].Normalize()
			entries[i].Category = ""
			entries[i].Level = 0
		}
		doc[category] = entries
	}
	return doc, nil
}

// Save rewrites a level's document in full.
func (s *Store) Save(level int, doc models.CategoryDocument) error {
	if !models.ValidLevel(level) {
		return fmt.Errorf("invalid difficulty level: %d", level)
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %v", err)
	}
	path := s.LevelFile(level)
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// Add appends an entry to a category, creating the category list on demand.
// No uniqueness check happens at this layer; callers pre-check duplicates.
func (s *Store) Add(level int, category string, entry models.WordEntry) error {
	doc, err := s.Load(level)
	if err != nil {
		return err
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "general"
	}
	entry.Normalize()
	entry.Category = ""
	entry.Level = 0
	doc[category] = append(doc[category], entry)
	return s.Save(level, doc)
}

// Update replaces the first entry matching word (case-insensitive) anywhere
// in the level's document, keeping its category and position. Returns
// ErrNotFound when no entry matches.
func (s *Store) Update(level int, word string, entry models.WordEntry) error {
	doc, err := s.Load(level)
	if err != nil {
		return err
	}
	entry.Normalize()
	entry.Category = ""
	entry.Level = 0
	for _, category := range categoriesInOrder(doc) {
		entries := doc[category]
		for i := range entries {
			if entries[i].SameWord(word) {
				entries[i] = entry
				doc[category] = entries
				return s.Save(level, doc)
			}
		}
	}
	return ErrNotFound
}

// Delete removes every entry matching word (case-insensitive) from all
// categories of the level's document. It reports whether anything was
// removed; the document is only rewritten when it was.
func (s *Store) Delete(level int, word string) (bool, error) {
	doc, err := s.Load(level)
	if err != nil {
		return false, err
	}
	found := false
	for category, entries := range doc {
		kept := entries[:0]
		for _, e := range entries {
			if e.SameWord(word) {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		doc[category] = kept
	}
	if !found {
		return false, nil
	}
	return true, s.Save(level, doc)
}

// Find returns the first entry matching word (case-insensitive) with its
// category attached, or ErrNotFound.
func (s *Store) Find(level int, word string) (models.WordEntry, error) {
	doc, err := s.Load(level)
	if err != nil {
		return models.WordEntry{}, err
	}
	for _, category := range categoriesInOrder(doc) {
		for _, e := range doc[category] {
			if e.SameWord(word) {
				e.Category = category
				e.Level = level
				return e, nil
			}
		}
	}
	return models.WordEntry{}, ErrNotFound
}

// Stats returns per-category word counts for a flattened word list.
func Stats(entries []models.WordEntry) map[string]int {
	stats := make(map[string]int)
	for _, e := range entries {
		category := strings.ToLower(e.Category)
		if category == "" {
			category = "unknown"
		}
		stats[category]++
	}
	return stats
}

// FilterByCategory keeps entries whose category matches, ignoring case.
func FilterByCategory(entries []models.WordEntry, category string) []models.WordEntry {
	var filtered []models.WordEntry
	for _, e := range entries {
		if strings.EqualFold(e.Category, category) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// categoriesInOrder returns the document's category keys in the stable
// order Flatten uses: known categories first, then extras alphabetically.
func categoriesInOrder(doc models.CategoryDocument) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, c := range models.DefaultCategories {
		if _, ok := doc[c]; ok {
			ordered = append(ordered, c)
			seen[c] = true
		}
	}
	var extra []string
	for c := range doc {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}
