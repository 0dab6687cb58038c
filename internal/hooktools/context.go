// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hooktools talks to the unit agent through the hook tools
// available while a hook runs: config-get, network-get, relation-ids,
// relation-list, relation-set, status-set, state-get and state-set.
package hooktools

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
	"gopkg.in/yaml.v3"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/core/status"
)

var logger = loggo.GetLogger("ksm.hooktools")

// Context is the hook context of the local unit.
type Context struct {
	unitName string
	runner   Runner
}

// NewContext returns a Context for the named unit.
func NewContext(unitName string, runner Runner) (*Context, error) {
	if !names.IsValidUnit(unitName) {
		return nil, errors.NotValidf("unit name %q", unitName)
	}
	if runner == nil {
		return nil, errors.NotValidf("nil Runner")
	}
	return &Context{unitName: unitName, runner: runner}, nil
}

// NewContextFromEnv returns a Context for the unit named by
// JUJU_UNIT_NAME, running the real hook tools.
func NewContextFromEnv(getenv func(string) string) (*Context, error) {
	unitName := getenv("JUJU_UNIT_NAME")
	if unitName == "" {
		return nil, errors.NotFoundf("JUJU_UNIT_NAME")
	}
	return NewContext(unitName, ExecRunner{})
}

// UnitName returns the local unit name.
func (c *Context) UnitName() string {
	return c.unitName
}

// Config returns the current charm config.
func (c *Context) Config(ctx context.Context) (map[string]interface{}, error) {
	var cfg map[string]interface{}
	if err := c.runYAML(ctx, &cfg, "config-get", "--all", "--format=yaml"); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg == nil {
		cfg = make(map[string]interface{})
	}
	return cfg, nil
}

// IngressAddress returns the ingress address of the endpoint binding.
func (c *Context) IngressAddress(ctx context.Context, endpoint string) (string, error) {
	var out interface{}
	if err := c.runYAML(ctx, &out, "network-get", endpoint, "--ingress-address", "--format=yaml"); err != nil {
		return "", errors.Trace(err)
	}
	switch addr := out.(type) {
	case string:
		if addr != "" {
			return addr, nil
		}
	case []interface{}:
		// Older agents list every ingress address.
		if len(addr) > 0 {
			if s, ok := addr[0].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", errors.NotFoundf("ingress address for endpoint %q", endpoint)
}

// SetStatus sets the workload status of the local unit.
func (c *Context) SetStatus(ctx context.Context, info status.StatusInfo) error {
	if err := info.Validate(); err != nil {
		return errors.Trace(err)
	}
	args := []string{info.Status.String()}
	if info.Message != "" {
		args = append(args, info.Message)
	}
	_, err := c.runner.Run(ctx, "status-set", args...)
	return errors.Trace(err)
}

// Get returns the value stored under key in the unit's charm state, and
// whether the key was set.
func (c *Context) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := c.runYAML(ctx, &value, "state-get", key, "--format=yaml"); err != nil {
		return "", false, errors.Trace(err)
	}
	return value, value != "", nil
}

// Set stores value under key in the unit's charm state.
func (c *Context) Set(ctx context.Context, key, value string) error {
	_, err := c.runner.Run(ctx, "state-set", key+"="+value)
	return errors.Trace(err)
}

func (c *Context) runYAML(ctx context.Context, out interface{}, tool string, args ...string) error {
	stdout, err := c.runner.Run(ctx, tool, args...)
	if err != nil {
		return errors.Trace(err)
	}
	if strings.TrimSpace(string(stdout)) == "" {
		return nil
	}
	if err := yaml.Unmarshal(stdout, out); err != nil {
		return errors.Annotatef(err, "parsing %s output", tool)
	}
	return nil
}
