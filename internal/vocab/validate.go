package vocab

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/vocabbuilder/pkg/models"
)

// Field limits for a word entry.
const (
	MaxWordLength    = 100
	MaxMeaningLength = 500
	MaxPhraseLength  = 500
	MaxExpressions   = 5
)

// Validate checks a candidate entry's required fields and length bounds.
// It is pure and returns the user-facing error message on failure. Category
// membership is not checked here; see ValidateStrict.
func Validate(word, meaning, phrase, category string) (bool, string) {
	if strings.TrimSpace(word) == "" {
		return false, "Word cannot be empty"
	}
	if strings.TrimSpace(meaning) == "" {
		return false, "Meaning cannot be empty"
	}
	if utf8.RuneCountInString(strings.TrimSpace(word)) > MaxWordLength {
		return false, fmt.Sprintf("Word is too long (max %d characters)", MaxWordLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(meaning)) > MaxMeaningLength {
		return false, fmt.Sprintf("Meaning is too long (max %d characters)", MaxMeaningLength)
	}
	if phrase != "" && utf8.RuneCountInString(strings.TrimSpace(phrase)) > MaxPhraseLength {
		return false, fmt.Sprintf("Phrase is too long (max %d characters)", MaxPhraseLength)
	}
	return true, ""
}

// ValidateStrict applies Validate plus membership of the fixed category set.
func ValidateStrict(word, meaning, phrase, category string) (bool, string) {
	if ok, msg := Validate(word, meaning, phrase, category); !ok {
		return ok, msg
	}
	if !models.ValidCategory(category) {
		return false, fmt.Sprintf("Unknown category: %s", category)
	}
	return true, ""
}

// ValidateEntry applies the field rules to a whole entry, including the
// write-time cap on expressions. strict additionally enforces the category
// set. A failure is returned as a *ValidationError.
func ValidateEntry(entry models.WordEntry, strict bool) error {
	check := Validate
	if strict {
		check = ValidateStrict
	}
	if ok, msg := check(entry.Word, entry.Meaning, entry.Phrase, entry.Category); !ok {
		return &ValidationError{Message: msg}
	}
	if len(entry.Expressions) > MaxExpressions {
		return &ValidationError{Message: fmt.Sprintf("Too many expressions (max %d)", MaxExpressions)}
	}
	return nil
}
