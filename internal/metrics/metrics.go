// Package metrics records deployment runs in a Prometheus registry that can
// be written out for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "muchos"

// Results used as label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder holds the collectors of one muchos invocation. A nil Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	remoteCommands *prometheus.CounterVec
	proxyProbes    *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		// Remote command metrics
		remoteCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_commands_total",
				Help:      "Total number of commands and transfers run against the proxy by kind and result",
			},
			[]string{"kind", "result"},
		),

		proxyProbes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proxy_probes_total",
				Help:      "Total number of proxy reachability probes by result",
			},
			[]string{"result"},
		),

		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_duration_seconds",
				Help:      "Duration of cluster actions in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"action"},
		),
	}

	r.registry.MustRegister(r.remoteCommands, r.proxyProbes, r.actionDuration)
	return r
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// RemoteCommand counts one command or transfer of the given kind.
func (r *Recorder) RemoteCommand(kind string, ok bool) {
	if r == nil {
		return
	}
	r.remoteCommands.WithLabelValues(kind, result(ok)).Inc()
}

// ProxyProbe counts one reachability probe.
func (r *Recorder) ProxyProbe(ok bool) {
	if r == nil {
		return
	}
	r.proxyProbes.WithLabelValues(result(ok)).Inc()
}

// ObserveAction records how long an action ran.
func (r *Recorder) ObserveAction(action string, d time.Duration) {
	if r == nil {
		return
	}
	r.actionDuration.WithLabelValues(action).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
