package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"empleo-engine/internal/config"
	"empleo-engine/internal/httpapi"
	"empleo-engine/internal/pipeline"
	"empleo-engine/internal/scheduler"
	"empleo-engine/internal/store"
)

func main() {
	defaultCfg := flag.String("config", filepath.Join("config", "settings.yaml"), "path to default settings")
	serve := flag.Bool("serve", false, "start the HTTP API")
	once := flag.Bool("once", false, "run a single pass and exit, ignoring schedule.interval_minutes")
	flag.Parse()

	dataDir := os.Getenv("EMPLEO_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, *defaultCfg)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, w := range validation.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			log.Printf("[config] error: %s", e)
		}
		os.Exit(1)
	}

	// One engine per data dir: overlapping runs would race the SQLite
	// writer and hammer the same boards twice.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("run lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance holds %s", lock.Path())
	}
	defer lock.Unlock()

	db, err := store.Open(cfg.DataStorage.SQLitePath)
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) (*pipeline.Result, error) {
		return pipeline.Run(ctx, cfg, db)
	}

	interval := time.Duration(cfg.Schedule.IntervalMinutes) * time.Minute

	if *serve {
		srv := httpapi.NewServer(db, func() (*pipeline.Result, error) {
			return runOnce(context.Background())
		})
		if interval > 0 && !*once {
			go scheduler.Every(ctx, interval, "pipeline", func(ctx context.Context) error {
				res, err := runOnce(ctx)
				if err == nil {
					srv.SetLastResult(res)
				}
				return err
			})
		}

		addr := fmt.Sprintf(":%d", cfg.App.Port)
		httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
		log.Printf("[engine] listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
		return
	}

	if interval > 0 && !*once {
		scheduler.Every(ctx, interval, "pipeline", func(ctx context.Context) error {
			_, err := runOnce(ctx)
			return err
		})
		return
	}

	res, err := runOnce(ctx)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}
	if res.Report.Sources.Successful == 0 {
		// Degenerate but legal outcome; make it visible to cron wrappers.
		log.Printf("[engine] zero sources succeeded this run")
		os.Exit(2)
	}
	log.Printf("[engine] run %s: %d filtered jobs, %d new rows", res.Report.RunID, res.Filtered, res.Added)
}
