// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

import (
	"context"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/pebble"
)

// ConfigGetter returns the current charm config.
type ConfigGetter interface {
	Config(ctx context.Context) (map[string]interface{}, error)
}

// Supervisor runs the workload services.
type Supervisor interface {
	AddLayer(ctx context.Context, label string, layer *pebble.Layer) error
	ServiceRunning(ctx context.Context, name string) (bool, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// StateStore persists values across hook invocations.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
