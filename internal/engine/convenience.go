package engine

import "framelog/internal/record"

// Trace submits a Trace-level record.
func (e *Engine) Trace(message string) { e.Submit(record.Trace, message) }

// Tracef submits a Trace-level printf-style record.
func (e *Engine) Tracef(format string, args ...any) { e.Submitf(record.Trace, format, args...) }

// Debug submits a Debug-level record.
func (e *Engine) Debug(message string) { e.Submit(record.Debug, message) }

// Debugf submits a Debug-level printf-style record.
func (e *Engine) Debugf(format string, args ...any) { e.Submitf(record.Debug, format, args...) }

// Info submits an Info-level record.
func (e *Engine) Info(message string) { e.Submit(record.Info, message) }

// Infof submits an Info-level printf-style record.
func (e *Engine) Infof(format string, args ...any) { e.Submitf(record.Info, format, args...) }

// Warning submits a Warning-level record.
func (e *Engine) Warning(message string) { e.Submit(record.Warning, message) }

// Warningf submits a Warning-level printf-style record.
func (e *Engine) Warningf(format string, args ...any) { e.Submitf(record.Warning, format, args...) }

// Error submits an Error-level record.
func (e *Engine) Error(message string) { e.Submit(record.Error, message) }

// Errorf submits an Error-level printf-style record.
func (e *Engine) Errorf(format string, args ...any) { e.Submitf(record.Error, format, args...) }

// Critical submits a Critical-level record.
func (e *Engine) Critical(message string) { e.Submit(record.Critical, message) }

// Criticalf submits a Critical-level printf-style record.
func (e *Engine) Criticalf(format string, args ...any) { e.Submitf(record.Critical, format, args...) }
