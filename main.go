package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/example/vocabbuilder/internal/database"
	"github.com/example/vocabbuilder/internal/flatfile"
	"github.com/example/vocabbuilder/internal/logging"
	"github.com/example/vocabbuilder/internal/notify"
	"github.com/example/vocabbuilder/internal/quiz"
	"github.com/example/vocabbuilder/internal/scheduler"
	"github.com/example/vocabbuilder/internal/server"
	"github.com/example/vocabbuilder/internal/vocab"
)

func main() {
	// .env is optional; the environment wins either way
	_ = godotenv.Load()

	logger := logging.New()
	cfg := server.ConfigFromEnv()
	fs := afero.NewOsFs()

	if err := database.Connect(cfg.DataDir); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	store := vocab.NewStore(fs, cfg.DataDir)
	ledger := vocab.NewLedger(fs, cfg.DataDir)
	svc := vocab.NewService(store, ledger, logger, cfg.StrictCategories)
	gen := quiz.New(rand.NewSource(time.Now().UnixNano()))

	notifier, err := notify.NewTelegramFromEnv()
	if err != nil {
		log.Fatalf("Failed to configure telegram notifier: %v", err)
	}

	mirror := database.NewMirrorRepository()
	flat := flatfile.NewMirror(fs, filepath.Join(cfg.DataDir, flatfile.DefaultFileName))

	// A nil *TelegramNotifier must stay a nil interface so the daily job
	// is actually disabled.
	var daily scheduler.Notifier
	if notifier != nil {
		daily = notifier
	}
	sched := scheduler.New(svc, mirror, flat, daily, rand.NewSource(time.Now().UnixNano()), logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Bring the mirrors up to date before serving
	go sched.SyncMirrors()

	srv := server.New(cfg, svc, gen, mirror, fs, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Server started. Press Ctrl+C to stop.")
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Server stopped successfully")
}
