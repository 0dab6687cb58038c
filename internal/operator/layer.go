// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/pebble"
)

const (
	// ServiceName is the Pebble service, container and layer label.
	ServiceName = "kube-state-metrics"

	// MetricsPort serves the kube-state-metrics metrics.
	MetricsPort = 8080
	// TelemetryPort serves kube-state-metrics' own metrics.
	TelemetryPort = 8081

	MetricsPath = "/metrics"

	binary = "/kube-state-metrics"
)

// Layer renders the Pebble layer running kube-state-metrics with the
// given config.
func Layer(cfg Config) *pebble.Layer {
	return &pebble.Layer{
		Summary:     "kube-state-metrics layer",
		Description: "pebble config layer for kube-state-metrics",
		Services: map[string]*pebble.Service{
			ServiceName: {
				Override: pebble.OverrideReplace,
				Summary:  "kube-state-metrics",
				Command:  command(cfg),
				Startup:  pebble.StartupEnabled,
			},
		},
	}
}

func command(cfg Config) string {
	args := []string{
		binary,
		fmt.Sprintf("--port=%d", MetricsPort),
		fmt.Sprintf("--telemetry-port=%d", TelemetryPort),
	}
	for _, opt := range []struct {
		flag  string
		value string
	}{
		{"metric-allowlist", strings.Join(cfg.MetricAllowlist, ",")},
		{"metric-denylist", strings.Join(cfg.MetricDenylist, ",")},
		{"metric-labels-allowlist", cfg.MetricLabelsAllowlist},
		{"namespaces", strings.Join(cfg.Namespaces, ",")},
		{"resources", strings.Join(cfg.Resources, ",")},
	} {
		if opt.value != "" {
			args = append(args, "--"+opt.flag+"="+opt.value)
		}
	}
	return shellquote.Join(args...)
}
