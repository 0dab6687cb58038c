// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pebble

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// Layer is a Pebble configuration layer.
type Layer struct {
	Summary     string              `yaml:"summary,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Services    map[string]*Service `yaml:"services,omitempty"`
}

// Service is one service entry of a layer.
type Service struct {
	Override    string            `yaml:"override"`
	Summary     string            `yaml:"summary,omitempty"`
	Command     string            `yaml:"command"`
	Startup     string            `yaml:"startup,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

const (
	OverrideReplace = "replace"
	OverrideMerge   = "merge"

	StartupEnabled = "enabled"
)

// Validate checks the fields Pebble rejects a layer for.
func (l *Layer) Validate() error {
	for name, svc := range l.Services {
		if svc == nil {
			return errors.NotValidf("service %q with no definition", name)
		}
		switch svc.Override {
		case OverrideReplace, OverrideMerge:
		default:
			return errors.NotValidf("service %q override %q", name, svc.Override)
		}
		if svc.Command == "" {
			return errors.NotValidf("service %q with empty command", name)
		}
	}
	return nil
}

// YAML renders the layer in the format accepted by the Pebble API.
func (l *Layer) YAML() ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}
