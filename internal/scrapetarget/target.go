// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import (
	"reflect"
)

// MaxPort is the highest port a target may be exposed on.
const MaxPort = 65535

// Target is a requested scrape target definition. ScrapeInterval,
// ScrapeTimeout and Labels are optional.
type Target struct {
	Port           int
	MetricsPath    string
	ScrapeInterval string
	ScrapeTimeout  string
	Labels         map[string]string
}

// ParseLabels checks that v is a mapping of strings to strings, such as
// a label set decoded from YAML or JSON.
func ParseLabels(v interface{}) (map[string]string, error) {
	switch labels := v.(type) {
	case map[string]string:
		return copyLabels(labels), nil
	case map[string]interface{}:
		out := make(map[string]string, len(labels))
		for k, val := range labels {
			s, ok := val.(string)
			if !ok {
				return nil, errLabelTypes
			}
			out[k] = s
		}
		return out, nil
	}

	// yaml.v2 style maps and anything else with map kind.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, &ConfigError{Reason: "labels must be a dictionary"}
	}
	out := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, kok := iter.Key().Interface().(string)
		val, vok := iter.Value().Interface().(string)
		if !kok || !vok {
			return nil, errLabelTypes
		}
		out[k] = val
	}
	return out, nil
}

var (
	errMissingPort = &ConfigError{Reason: "must provide a port to expose this scrape target"}
	errInvalidPort = &ConfigError{Field: KeyPort, Reason: "must be an integer between 1 and 65535"}
	errMissingPath = &ConfigError{Field: KeyMetricsPath, Reason: "must be set"}
	errLabelTypes  = &ConfigError{Reason: "label keys and values must be strings"}
)
