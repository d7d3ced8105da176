package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabbuilder/internal/database"
	"github.com/example/vocabbuilder/internal/flatfile"
	"github.com/example/vocabbuilder/internal/vocab"
	"github.com/example/vocabbuilder/pkg/models"
)

// Default job settings, overridable through the environment.
const (
	DefaultSyncIntervalMinutes = 15
	DefaultNotificationHour    = 9
)

// Notifier interface for sending the daily word
type Notifier interface {
	SendWordOfTheDay(entry models.WordEntry) error
}

// Scheduler manages scheduled tasks for the application: rebuilding the
// flat-text and relational mirrors from the JSON documents, and the daily
// word-of-the-day notification.
type Scheduler struct {
	scheduler *gocron.Scheduler
	svc       *vocab.Service
	mirror    *database.MirrorRepository
	flat      *flatfile.Mirror
	notifier  Notifier
	rnd       *rand.Rand
	log       *slog.Logger
}

// New creates a new scheduler instance. notifier may be nil, which disables
// the daily word job.
func New(svc *vocab.Service, mirror *database.MirrorRepository, flat *flatfile.Mirror, notifier Notifier, src rand.Source, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		svc:       svc,
		mirror:    mirror,
		flat:      flat,
		notifier:  notifier,
		rnd:       rand.New(src),
		log:       log,
	}
}

// Start begins running all scheduled tasks.
func (s *Scheduler) Start() error {
	interval := envInt("SYNC_INTERVAL_MINUTES", DefaultSyncIntervalMinutes)
	if _, err := s.scheduler.Every(interval).Minutes().Do(s.SyncMirrors); err != nil {
		return fmt.Errorf("failed to schedule mirror sync: %v", err)
	}

	if s.notifier != nil {
		hour := envInt("NOTIFICATION_HOUR", DefaultNotificationHour)
		at := fmt.Sprintf("%02d:00", hour)
		if _, err := s.scheduler.Every(1).Day().At(at).Do(s.sendWordOfTheDay); err != nil {
			return fmt.Errorf("failed to schedule daily word: %v", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// SyncMirrors rebuilds the flat mirror and the relational mirror from the
// JSON documents. The documents stay the source of truth; mirror failures
// are logged and never propagate into user actions.
func (s *Scheduler) SyncMirrors() {
	var all []models.WordEntry
	for level := models.LevelBeginner; level <= models.LevelAdvanced; level++ {
		doc, err := s.svc.Document(level)
		if err != nil {
			s.log.Error("mirror sync: failed to load document", "level", level, "error", err)
			continue
		}
		flattened := doc.Flatten()
		for i := range flattened {
			flattened[i].Level = level
		}
		all = append(all, flattened...)

		if err := s.mirror.ReplaceLevel(level, doc); err != nil {
			s.log.Error("mirror sync: failed to sync relational mirror", "level", level, "error", err)
		}
	}

	if err := s.flat.Save(all); err != nil {
		s.log.Error("mirror sync: failed to write flat mirror", "error", err)
	}

	learned, err := s.svc.Learned()
	if err != nil {
		s.log.Error("mirror sync: failed to load learned ledger", "error", err)
		return
	}
	if err := s.mirror.ReplaceLearned(learned); err != nil {
		s.log.Error("mirror sync: failed to sync learned mirror", "error", err)
	}

	s.log.Debug("mirror sync complete", "words", len(all), "learned", len(learned))
}

// sendWordOfTheDay draws a random word across all levels and hands it to
// the notifier.
func (s *Scheduler) sendWordOfTheDay() {
	var pool []models.WordEntry
	for level := models.LevelBeginner; level <= models.LevelAdvanced; level++ {
		words, err := s.svc.Words(strconv.Itoa(level), "")
		if err != nil {
			s.log.Error("word of the day: failed to load words", "level", level, "error", err)
			continue
		}
		pool = append(pool, words...)
	}
	if len(pool) == 0 {
		s.log.Info("word of the day: no words available")
		return
	}

	entry := pool[s.rnd.Intn(len(pool))]
	if err := s.notifier.SendWordOfTheDay(entry); err != nil {
		s.log.Error("word of the day: failed to send", "word", entry.Word, "error", err)
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
