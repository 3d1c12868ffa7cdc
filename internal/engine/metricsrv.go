package engine

import (
	"context"
	"fmt"
	"time"

	"framelog/internal/calc"
	"framelog/internal/global"
	"framelog/internal/metrics"
)

// metricInterval is the bucket width the registry groups samples into.
const metricInterval = 10 * time.Second

// StartMetricsExporter samples the engine's counters into a metrics
// registry every interval, pruning samples older than retention. It
// returns a stop function and the registry, which callers wire into
// internal/externalio/server via DataSearcher/Discoverer/AggSearcher.
// Metrics export is opt-in (config.metrics.enabled) and distinct from
// the always-on Stats surface: Stats is read synchronously, the
// registry is a historical time series for the query server.
func (e *Engine) StartMetricsExporter(ctx context.Context, interval time.Duration, retention time.Duration) (*metrics.Registry, func()) {
	if interval <= 0 {
		interval = metricInterval
	}

	registry := metrics.New()
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.sampleInto(registry, interval, retention)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var stopOnce bool
	stop := func() {
		if stopOnce {
			return
		}
		stopOnce = true
		close(stopCh)
	}
	return registry, stop
}

func (e *Engine) sampleInto(registry *metrics.Registry, interval, retention time.Duration) {
	now := time.Now()
	slice := registry.NewTimeSlice(now, interval)
	snap := e.stats.Snapshot()

	samples := []metrics.Metric{
		counterMetric("submitted", global.NSEngine, snap.Submitted, now),
		counterMetric("deduplicated", global.NSEngine, snap.Deduplicated, now),
		counterMetric("emitted", global.NSEngine, snap.Emitted, now),
		counterMetric("flush_cycles", global.NSEngine, snap.FlushCycles, now),
		gaugeMetric("active_buffer_depth", global.NSBuffer, uint64(e.buf.Depth()), now),
	}
	if e.netDispatch != nil {
		depth := e.netDispatch.queue.ActiveWrite.Load().Metrics.Depth.Load()
		samples = append(samples, gaugeMetric("dispatch_queue_depth", global.NSDispatch, depth, now))
	}

	registry.Add(slice, samples)
	if retention > 0 {
		registry.Prune(now, retention)
	}
}

func counterMetric(name, namespace string, value uint64, now time.Time) metrics.Metric {
	return metrics.Metric{
		Name:      name,
		Namespace: []string{namespace},
		Value:     metrics.MetricValue{Raw: value, Unit: "count"},
		Type:      metrics.Counter,
		Timestamp: now,
	}
}

func gaugeMetric(name, namespace string, value uint64, now time.Time) metrics.Metric {
	return metrics.Metric{
		Name:      name,
		Namespace: []string{namespace},
		Value:     metrics.MetricValue{Raw: value, Unit: "count"},
		Type:      metrics.Gauge,
		Timestamp: now,
	}
}

// DataSearcher returns a server.DataSearcher-shaped closure over registry.
func DataSearcher(registry *metrics.Registry) func(name string, ns []string, start, end time.Time) []metrics.Metric {
	return registry.Search
}

// Discoverer returns a server.Discoverer-shaped closure over registry.
func Discoverer(registry *metrics.Registry) func(name, description string, ns []string, unit string, mt metrics.MetricType) []metrics.Metric {
	return registry.Discover
}

// aggTrimPercent discards the top/bottom 10% of samples before averaging,
// matching the trimmed-mean's use elsewhere as a noise-resistant summary.
const aggTrimPercent = 0.10

// AggSearcher returns a server.AggSearcher-shaped closure: it searches the
// registry for the matching series, then reduces it to one Metric using
// the requested aggregation (min, max, sum, avg/mean).
func AggSearcher(registry *metrics.Registry) func(aggregation, name string, ns []string, start, end time.Time) (metrics.Metric, error) {
	return func(aggregation, name string, ns []string, start, end time.Time) (metrics.Metric, error) {
		matches := registry.Search(name, ns, start, end)
		if len(matches) == 0 {
			return metrics.Metric{}, fmt.Errorf("engine: no samples matched name=%q namespace=%v in range", name, ns)
		}

		values := make([]uint64, 0, len(matches))
		for _, m := range matches {
			v, ok := m.Value.Raw.(uint64)
			if !ok {
				continue
			}
			values = append(values, v)
		}

		reduced, err := reduce(aggregation, values)
		if err != nil {
			return metrics.Metric{}, err
		}

		out := matches[len(matches)-1]
		out.Value.Raw = reduced
		out.Timestamp = end
		return out, nil
	}
}

func reduce(aggregation string, values []uint64) (uint64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("engine: no numeric samples to aggregate")
	}
	switch aggregation {
	case "min":
		minVal := values[0]
		for _, v := range values[1:] {
			if v < minVal {
				minVal = v
			}
		}
		return minVal, nil
	case "max":
		maxVal := values[0]
		for _, v := range values[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		return maxVal, nil
	case "sum":
		var sum uint64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case "", "avg", "mean":
		return calc.TrimmedMeanUint64(values, aggTrimPercent), nil
	default:
		return 0, fmt.Errorf("engine: unknown aggregation %q", aggregation)
	}
}
