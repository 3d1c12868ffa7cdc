package main

import (
	"context"
	"net/http"
	"time"

	"framelog/internal/diag"
	"framelog/internal/engine"
	"framelog/internal/externalio/server"
	"framelog/internal/global"
)

// metricsRetention bounds how long sampled metrics stay queryable.
const metricsRetention = 1 * time.Hour

// startMetricsServer wires the engine's metrics exporter into the local
// query HTTP server. Returns nil, nil if the listener fails to start;
// the engine itself still runs without it.
func startMetricsServer(ctx context.Context, eng *engine.Engine, cfg engine.Config) (*http.Server, func()) {
	registry, stopExport := eng.StartMetricsExporter(ctx, cfg.FlushInterval, metricsRetention)

	port := cfg.MetricsPort
	if port == 0 {
		port = global.HTTPListenPort
	}

	srv, err := server.SetupListener(
		ctx,
		port,
		engine.DataSearcher(registry),
		engine.Discoverer(registry),
		engine.AggSearcher(registry),
	)
	if err != nil {
		diag.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed to start metric query server, continuing without it: %v\n", err)
		stopExport()
		return nil, nil
	}

	go server.Start(ctx, srv)
	return srv, stopExport
}
