package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/vocabbuilder/internal/convert"
	"github.com/example/vocabbuilder/internal/flatfile"
	"github.com/example/vocabbuilder/internal/quiz"
	"github.com/example/vocabbuilder/internal/vocab"
	"github.com/example/vocabbuilder/pkg/models"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": models.DefaultCategories,
		"levels":     models.LevelDescriptions,
	})
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	level := r.PathValue("level")
	category := r.URL.Query().Get("category")

	if strings.EqualFold(level, models.LearnedLevel) {
		entries, err := s.svc.LearnedEntries(category)
		if err != nil {
			s.respondStorageError(w, err)
			return
		}
		if entries == nil {
			entries = []models.LearnedEntry{}
		}
		respondJSON(w, http.StatusOK, entries)
		return
	}

	words, err := s.svc.Words(level, category)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if words == nil {
		words = []models.WordEntry{}
	}
	respondJSON(w, http.StatusOK, words)
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	var entry models.WordEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.AddWord(level, entry); err != nil {
		s.respondWordError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	word := r.PathValue("word")

	var entry models.WordEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.UpdateWord(level, word, entry); err != nil {
		s.respondWordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteWord(level, r.PathValue("word")); err != nil {
		s.respondWordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLearnWord(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	if err := s.svc.MoveToLearned(level, r.PathValue("word")); err != nil {
		s.respondWordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "learned"})
}

func (s *Server) handleRestoreWord(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MoveFromLearned(r.PathValue("word")); err != nil {
		s.respondWordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// handleSearch queries the relational mirror across all levels. The mirror
// lags the documents by at most one sync interval.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter: q")
		return
	}
	words, err := s.mirror.Search(q)
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.CategoryStats(r.PathValue("level"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	pool, err := s.svc.Words(r.PathValue("level"), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pool) < quiz.OptionCount {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("need at least %d words for a quiz", quiz.OptionCount))
		return
	}

	question, err := s.gen.NewQuestion(pool, r.URL.Query().Get("word"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, question)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	doc, err := s.svc.Document(level)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	name := fmt.Sprintf("level%d.%s", level, format)

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+name)
		if err := convert.WriteCSV(w, doc); err != nil {
			s.log.Error("csv export failed", "level", level, "error", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+name)
		if err := convert.WriteXLSX(w, doc); err != nil {
			s.log.Error("xlsx export failed", "level", level, "error", err)
		}
	case "txt":
		entries := doc.Flatten()
		for i := range entries {
			entries[i].Level = level
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+name)
		w.Write(flatfile.Encode(entries))
	default:
		respondError(w, http.StatusBadRequest, "unsupported format: "+format)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	level, ok := s.levelParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	var doc models.CategoryDocument
	switch ext := strings.ToLower(filepath.Ext(header.Filename)); ext {
	case ".csv":
		doc, err = convert.ReadCSV(file)
	case ".xlsx", ".xls":
		doc, err = convert.ReadXLSX(file)
	case ".json":
		err = json.NewDecoder(file).Decode(&doc)
	default:
		respondError(w, http.StatusBadRequest, "unsupported file type: "+ext)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse %s: %v", header.Filename, err))
		return
	}

	if r.URL.Query().Get("mode") == "replace" {
		imported, err := s.svc.ReplaceDocument(level, doc)
		if err != nil {
			s.respondStorageError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"imported": imported})
		return
	}

	added, skipped, err := s.svc.MergeDocument(level, doc)
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"added": added, "skipped": skipped})
}

func (s *Server) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if err := s.fs.MkdirAll(s.cfg.MediaDir, 0755); err != nil {
		s.respondStorageError(w, err)
		return
	}

	// Uploads keep their original filename; a same-named upload silently
	// overwrites the previous one.
	name := filepath.Base(header.Filename)
	dst, err := s.fs.Create(filepath.Join(s.cfg.MediaDir, name))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		s.respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"path": "media/" + name})
}

// levelParam parses the 1-3 difficulty level path segment.
func (s *Server) levelParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil || !models.ValidLevel(level) {
		respondError(w, http.StatusBadRequest, "invalid difficulty level: "+r.PathValue("level"))
		return 0, false
	}
	return level, true
}

// respondWordError maps service errors onto HTTP statuses.
func (s *Server) respondWordError(w http.ResponseWriter, err error) {
	switch {
	case vocab.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, vocab.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, vocab.ErrDuplicateWord):
		respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondStorageError(w, err)
	}
}

func (s *Server) respondStorageError(w http.ResponseWriter, err error) {
	s.log.Error("storage failure", "error", err)
	respondError(w, http.StatusInternalServerError, "storage failure")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
