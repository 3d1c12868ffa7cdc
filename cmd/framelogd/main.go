package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"framelog/internal/diag"
	"framelog/internal/engine"
	"framelog/internal/global"
)

func main() {
	configPath := flag.String("config", global.DefaultConfigPath, "path to JSON configuration file")
	verbosity := flag.Int("verbosity", global.VerbosityStandard, "diagnostic verbosity (0-5)")
	simulate := flag.Bool("simulate", false, "run the built-in display driver simulator instead of waiting idle")
	simulateFor := flag.Duration("simulate-duration", 10*time.Second, "how long -simulate runs before stopping itself")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("framelogd %s\n", global.ProgVersion)
		fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		return
	}

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = diag.New(ctx, "global", *verbosity, done)
	logger := diag.GetLogger(ctx)
	diag.StartWatcher(logger, os.Stdout)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		diag.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		finish(cancel, done, logger)
		os.Exit(1)
	}

	eng, err := engine.New(ctx, cfg)
	if err != nil {
		diag.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "failed to start engine: %v\n", err)
		finish(cancel, done, logger)
		os.Exit(1)
	}

	var metricsSrv *http.Server
	var stopExport func()
	if cfg.MetricsEnabled {
		metricsSrv, stopExport = startMetricsServer(ctx, eng, cfg)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if *simulate {
		sim := newSimulator(eng)
		sim.start()
		select {
		case <-sigCh:
		case <-time.After(*simulateFor):
		}
		sim.stop()
	} else {
		<-sigCh
	}

	eng.Shutdown()
	if stopExport != nil {
		stopExport()
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsSrv.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	finish(cancel, done, logger)
}

// loadConfig resolves the engine configuration: a missing file at the
// default path falls back to engine.DefaultConfig(), but an explicitly
// requested path that fails to load is a startup error.
func loadConfig(path string) (engine.Config, error) {
	jc, err := engine.LoadConfig(path)
	if err != nil {
		if path == global.DefaultConfigPath {
			return engine.DefaultConfig(), nil
		}
		return engine.Config{}, fmt.Errorf("loading configuration from %q: %w", path, err)
	}
	return jc.ResolveEngineConfig()
}

// finish unwinds the diagnostics logger: close its done channel, wake its
// watcher goroutine, and wait for it to drain the remaining queue.
func finish(cancel context.CancelFunc, done chan struct{}, logger *diag.Logger) {
	cancel()
	close(done)
	logger.Wake()
	logger.Wait()
}
