package vocab

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/example/vocabbuilder/pkg/models"
)

// Service orchestrates the category store and the learned ledger, owns the
// per-category uniqueness invariant and the two-file move semantics, and is
// the single entry point for the HTTP layer and the background jobs.
//
// Mutations are serialized through a mutex: the persistence layer is a
// read-modify-write full rewrite, so two concurrent writers in the same
// process would otherwise race and the last one would win.
type Service struct {
	mu     sync.Mutex
	store  *Store
	ledger *Ledger
	log    *slog.Logger
	strict bool
}

// NewService creates a service. strictCategories enables the category-set
// membership check on incoming entries.
func NewService(store *Store, ledger *Ledger, log *slog.Logger, strictCategories bool) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		log:    log,
		strict: strictCategories,
	}
}

// Store exposes the underlying category store (read-only use).
func (s *Service) Store() *Store { return s.store }

// Document loads a level's category document, substituting an empty one on
// corruption. The parse error is logged, never surfaced: read paths stay
// usable after a damaged file.
func (s *Service) Document(level int) (models.CategoryDocument, error) {
	if !models.ValidLevel(level) {
		return nil, fmt.Errorf("invalid difficulty level: %d", level)
	}
	doc, err := s.store.Load(level)
	if err != nil {
		s.log.Warn("substituting empty document", "level", level, "error", err)
	}
	return doc, nil
}

// Words returns the flattened word list for a level. level is "1".."3" or
// "learned"; an optional category filters the result (case-insensitive).
func (s *Service) Words(level, category string) ([]models.WordEntry, error) {
	var entries []models.WordEntry
	if strings.EqualFold(level, models.LearnedLevel) {
		learned, err := s.LearnedEntries(category)
		if err != nil {
			return nil, err
		}
		for _, e := range learned {
			entries = append(entries, e.WordEntry)
		}
		return entries, nil
	}

	n, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document(n)
	if err != nil {
		return nil, err
	}
	entries = doc.Flatten()
	for i := range entries {
		entries[i].Level = n
	}
	if category != "" {
		entries = FilterByCategory(entries, category)
	}
	return entries, nil
}

// Learned returns the ledger entries, substituting an empty sequence on
// corruption (logged).
func (s *Service) Learned() ([]models.LearnedEntry, error) {
	entries, err := s.ledger.Load()
	if err != nil {
		s.log.Warn("substituting empty learned ledger", "error", err)
	}
	return entries, nil
}

// LearnedEntries returns the ledger entries with an empty stored category
// defaulted to general, optionally filtered by category (case-insensitive).
// Every learned listing goes through here so filters and defaults agree.
func (s *Service) LearnedEntries(category string) ([]models.LearnedEntry, error) {
	entries, err := s.Learned()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Category == "" {
			entries[i].Category = "general"
		}
	}
	if category == "" {
		return entries, nil
	}
	var filtered []models.LearnedEntry
	for _, e := range entries {
		if strings.EqualFold(e.Category, category) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// AddWord validates the entry, pre-checks per-category uniqueness
// (case-insensitive) and appends it to the level's document.
func (s *Service) AddWord(level int, entry models.WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Normalize()
	entry.Category = strings.ToLower(strings.TrimSpace(entry.Category))
	if entry.Category == "" {
		entry.Category = "general"
	}
	if err := ValidateEntry(entry, s.strict); err != nil {
		return err
	}

	doc, err := s.store.Load(level)
	if err != nil {
		return err
	}
	for _, existing := range doc[entry.Category] {
		if existing.SameWord(entry.Word) {
			return ErrDuplicateWord
		}
	}
	return s.store.Add(level, entry.Category, entry)
}

// UpdateWord validates the replacement entry and swaps it in for the first
// match of word in the level's document.
func (s *Service) UpdateWord(level int, word string, entry models.WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Normalize()
	if err := ValidateEntry(entry, s.strict); err != nil {
		return err
	}
	return s.store.Update(level, word, entry)
}

// DeleteWord removes word from the level's document.
func (s *Service) DeleteWord(level int, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.store.Delete(level, word)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// MoveToLearned moves a word out of a level document into the learned
// ledger. The ledger is written first; if the source delete then fails the
// error is logged and a harmless duplicate is left behind rather than
// losing the word. The two writes are independent, there is no rollback.
func (s *Service) MoveToLearned(level int, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.Find(level, word)
	if err != nil {
		return err
	}

	added, err := s.ledger.Add(entry)
	if err != nil {
		return err
	}
	if !added {
		s.log.Info("word already in learned ledger", "word", entry.Word)
	}

	if _, err := s.store.Delete(level, word); err != nil {
		s.log.Error("learned ledger written but source delete failed, leaving duplicate",
			"word", entry.Word, "level", level, "error", err)
	}
	return nil
}

// MoveFromLearned moves a word back from the learned ledger into its
// original category document. The destination is written first; a failed
// ledger cleanup is logged and leaves a duplicate.
func (s *Service) MoveFromLearned(word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.ledger.Find(word)
	if err != nil {
		return err
	}

	level := entry.Level
	if !models.ValidLevel(level) {
		level = models.LevelBeginner
	}
	category := entry.Category
	if category == "" {
		category = "general"
	}
	if err := s.store.Add(level, category, entry.WordEntry); err != nil {
		return err
	}

	if _, err := s.ledger.Remove(word); err != nil {
		s.log.Error("word restored but ledger cleanup failed, leaving duplicate",
			"word", entry.Word, "error", err)
	}
	return nil
}

// CategoryStats returns per-category word counts for a level ("1".."3" or
// "learned").
func (s *Service) CategoryStats(level string) (map[string]int, error) {
	entries, err := s.Words(level, "")
	if err != nil {
		return nil, err
	}
	return Stats(entries), nil
}

// ReplaceDocument rewrites a level's document wholesale (bulk import). The
// incoming document goes through the same canonicalization as a merge:
// category keys are lower-cased (folding case variants together), entries
// normalized, expressions capped, and per-category duplicates dropped, first
// occurrence wins. It returns how many entries were persisted.
func (s *Service) ReplaceDocument(level int, doc models.CategoryDocument) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical := models.CategoryDocument{}
	count := 0
	for _, category := range categoriesInOrder(doc) {
		key := strings.ToLower(strings.TrimSpace(category))
		if key == "" {
			key = "general"
		}
		for _, entry := range doc[category] {
			entry.Normalize()
			if len(entry.Expressions) > MaxExpressions {
				entry.Expressions = entry.Expressions[:MaxExpressions]
			}
			dup := false
			for _, existing := range canonical[key] {
				if existing.SameWord(entry.Word) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			entry.Category = ""
			entry.Level = 0
			canonical[key] = append(canonical[key], entry)
			count++
		}
	}
	if err := s.store.Save(level, canonical); err != nil {
		return 0, err
	}
	return count, nil
}

// MergeDocument appends the entries of doc onto a level's document,
// skipping per-category duplicates. It returns how many entries were added
// and how many were skipped.
func (s *Service) MergeDocument(level int, doc models.CategoryDocument) (added, skipped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Load(level)
	if err != nil {
		return 0, 0, err
	}
	for _, category := range categoriesInOrder(doc) {
		for _, entry := range doc[category] {
			entry.Normalize()
			if len(entry.Expressions) > MaxExpressions {
				entry.Expressions = entry.Expressions[:MaxExpressions]
			}
			dup := false
			for _, existing := range current[category] {
				if existing.SameWord(entry.Word) {
					dup = true
					break
				}
			}
			if dup {
				skipped++
				continue
			}
			entry.Category = ""
			entry.Level = 0
			current[category] = append(current[category], entry)
			added++
		}
	}
	if err := s.store.Save(level, current); err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}

func parseLevel(level string) (int, error) {
	n, err := strconv.Atoi(level)
	if err != nil || !models.ValidLevel(n) {
		return 0, fmt.Errorf("invalid difficulty level: %s", level)
	}
	return n, nil
}
