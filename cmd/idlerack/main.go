// Package main is the entry point for the idlerack terminal game. It only
// handles flags and dependency injection; no game logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/engine"
	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/infra/storage"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/network"
	"github.com/idlerack/idlerack/internal/platform/logger"
	"github.com/idlerack/idlerack/internal/platform/metrics"
	"github.com/idlerack/idlerack/internal/platform/tuning"
	"github.com/idlerack/idlerack/internal/ui"
)

const version = "0.4.1"

func main() {
	var (
		savePath    = flag.String("save", "idlerack.db", "path to the save database")
		logPath     = flag.String("log", "idlerack.log", "path to the log file")
		seed        = flag.Int64("seed", 0, "simulation seed (0 = wall clock)")
		reset       = flag.Bool("reset", false, "delete the save and start fresh")
		listen      = flag.String("listen", "", "address for the websocket observer endpoint (off when empty)")
		metricsAddr = flag.String("metrics-addr", "", "address for the metrics endpoint (off when empty)")
		headless    = flag.Bool("headless", false, "run the engine without the terminal dashboard")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("idlerack %s\n", version)
		return
	}

	if err := catalog.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "idlerack: malformed catalog: %v\n", err)
		os.Exit(1)
	}

	if err := run(*savePath, *logPath, *seed, *reset, *listen, *metricsAddr, *headless); err != nil {
		fmt.Fprintf(os.Stderr, "idlerack: %v\n", err)
		os.Exit(1)
	}
}

func run(savePath, logPath string, seed int64, reset bool, listen, metricsAddr string, headless bool) error {
	appLogger, err := logger.NewFile(logPath)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	appLogger.Infof("idlerack %s starting", version)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	db, err := storage.InitSQLite(savePath)
	if err != nil {
		return err
	}
	defer db.Close()

	saveRepo := storage.NewSaveRepository(db)
	if reset {
		if err := saveRepo.Reset(); err != nil {
			return err
		}
		appLogger.Warn("Save deleted by --reset")
	}

	journalRepo := storage.NewJournalRepository(db)
	jrnl := journal.New(journalRepo, appLogger)
	defer jrnl.Close()

	state, banner, err := loadOrNew(saveRepo, seed, appLogger)
	if err != nil {
		return err
	}

	cfg := tuning.DefaultConfig()
	if headless {
		cfg = tuning.HeadlessConfig()
	}
	mux := engine.NewMux(cfg)
	dispatcher := engine.NewDispatcher(state, jrnl, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sinks []engine.SnapshotSink
	var hub *network.Hub
	if listen != "" {
		hub = network.NewHub(cfg, appLogger, jrnl)
		go hub.Run(ctx)
		sinks = append(sinks, hub)
	}

	var app *ui.App
	if !headless {
		app, err = ui.New(mux, jrnl, appLogger, banner)
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		sinks = append(sinks, app)
	}

	loop := engine.New(dispatcher, mux, jrnl, appLogger, saveRepo, sinks...)

	if listen != "" {
		wsMux := http.NewServeMux()
		wsMux.HandleFunc("/ws", hub.Handler())
		go func() {
			appLogger.Infof("Observer endpoint listening on %s", listen)
			if err := http.ListenAndServe(listen, wsMux); err != nil {
				appLogger.Errorf("observer listener: %v", err)
			}
		}()
	}
	if metricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.HandleFunc("/metrics", metrics.Handler())
		metricsMux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
		go func() {
			appLogger.Infof("Metrics listening on %s", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
				appLogger.Errorf("metrics listener: %v", err)
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	if app != nil {
		// The dashboard owns the foreground; quitting it submits Shutdown.
		if err := app.Run(ctx); err != nil {
			appLogger.Errorf("ui: %v", err)
		}
	} else {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLogger.Info("Signal received, shutting down")
		if err := mux.Submit(ctx, engine.Action{Kind: engine.ActionShutdown}); err != nil {
			cancel()
		}
	}

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case <-time.After(5 * time.Second):
		appLogger.Error("Dispatch loop did not stop in time")
	}
	return nil
}

// loadOrNew revives the saved state or starts fresh, returning a
// welcome-back banner when offline progress was applied.
func loadOrNew(repo *storage.SaveRepository, seed int64, log *logger.Logger) (*game.State, string, error) {
	state, report, err := repo.Load(seed)
	switch {
	case err == nil:
		banner := ""
		if report != nil && report.TicksApplied > 0 {
			banner = fmt.Sprintf("Welcome back! Away %s, earned %s CPU offline",
				humanize.Time(time.Now().Add(-report.Away)),
				ledger.FormatShort(report.Earned.Compute))
			if report.Capped {
				banner += " (8h cap reached)"
			}
		}
		log.Infof("Save loaded: tick %d, %d prestiges", state.TickCount, state.PrestigeCount)
		return state, banner, nil

	case errors.Is(err, storage.ErrNoSave):
		log.Info("No save found, starting a fresh run")
		return game.New(seed), "", nil

	default:
		// Corrupt or future-schema saves are not silently discarded.
		return nil, "", err
	}
}
