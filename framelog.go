// Package framelog is the process-wide convenience surface over
// internal/engine: a lazily-constructed default Engine plus package-level
// submission functions, for callers that don't want to carry an *Engine
// reference through the whole call graph.
package framelog

import (
	"context"
	"sync"

	"framelog/internal/engine"
)

var (
	defaultOnce   sync.Once
	defaultEngine *engine.Engine
)

// Default returns the process-wide Engine, constructing it on first use
// from engine.DefaultConfig(). Construction failures there are limited to
// config validation, which DefaultConfig cannot produce, so this never
// returns nil.
func Default() *engine.Engine {
	defaultOnce.Do(func() {
		e, err := engine.New(context.Background(), engine.DefaultConfig())
		if err != nil {
			panic("framelog: default engine construction failed: " + err.Error())
		}
		defaultEngine = e
	})
	return defaultEngine
}

// Configure replaces the default engine with one built from cfg, shutting
// down whatever engine was previously in use. Like the rest of engine
// reconfiguration, this is not concurrency-safe against in-flight Default()
// callers and is meant for startup, not steady-state use.
func Configure(ctx context.Context, cfg engine.Config) error {
	e, err := engine.New(ctx, cfg)
	if err != nil {
		return err
	}

	prior := defaultEngine
	defaultEngine = e
	defaultOnce.Do(func() {}) // ensure Default() never re-runs the lazy path

	if prior != nil {
		prior.Shutdown()
	}
	return nil
}

// Trace submits a Trace-level record to the default engine.
func Trace(message string) { Default().Trace(message) }

// Tracef submits a Trace-level printf-style record to the default engine.
func Tracef(format string, args ...any) { Default().Tracef(format, args...) }

// Debug submits a Debug-level record to the default engine.
func Debug(message string) { Default().Debug(message) }

// Debugf submits a Debug-level printf-style record to the default engine.
func Debugf(format string, args ...any) { Default().Debugf(format, args...) }

// Info submits an Info-level record to the default engine.
func Info(message string) { Default().Info(message) }

// Infof submits an Info-level printf-style record to the default engine.
func Infof(format string, args ...any) { Default().Infof(format, args...) }

// Warning submits a Warning-level record to the default engine.
func Warning(message string) { Default().Warning(message) }

// Warningf submits a Warning-level printf-style record to the default engine.
func Warningf(format string, args ...any) { Default().Warningf(format, args...) }

// Error submits an Error-level record to the default engine.
func Error(message string) { Default().Error(message) }

// Errorf submits an Error-level printf-style record to the default engine.
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }

// Critical submits a Critical-level record to the default engine.
func Critical(message string) { Default().Critical(message) }

// Criticalf submits a Critical-level printf-style record to the default engine.
func Criticalf(format string, args ...any) { Default().Criticalf(format, args...) }

// Flush requests a flush of the default engine.
func Flush() { Default().Flush() }

// Shutdown shuts down the default engine, if one has been constructed.
func Shutdown() {
	if defaultEngine != nil {
		defaultEngine.Shutdown()
	}
}
