// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v3"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/scrapetarget"
)

// Charm config option names.
const (
	MetricAllowlistKey       = "metric-allowlist"
	MetricDenylistKey        = "metric-denylist"
	MetricLabelsAllowlistKey = "metric-labels-allowlist"
	NamespacesKey            = "namespaces"
	ResourcesKey             = "resources"
	ScrapeIntervalKey        = "scrape-interval"
	ScrapeTimeoutKey         = "scrape-timeout"
	ScrapeLabelsKey          = "scrape-labels"
)

var configFields = schema.Fields{
	MetricAllowlistKey:       schema.String(),
	MetricDenylistKey:        schema.String(),
	MetricLabelsAllowlistKey: schema.String(),
	NamespacesKey:            schema.String(),
	ResourcesKey:             schema.String(),
	ScrapeIntervalKey:        schema.String(),
	ScrapeTimeoutKey:         schema.String(),
	ScrapeLabelsKey:          schema.String(),
}

var configDefaults = schema.Defaults{
	MetricAllowlistKey:       "",
	MetricDenylistKey:        "",
	MetricLabelsAllowlistKey: "",
	NamespacesKey:            "",
	ResourcesKey:             "",
	ScrapeIntervalKey:        "",
	ScrapeTimeoutKey:         "",
	ScrapeLabelsKey:          "",
}

var configChecker = schema.FieldMap(configFields, configDefaults)

// Config is a coerced snapshot of the charm config.
type Config struct {
	MetricAllowlist       []string
	MetricDenylist        []string
	MetricLabelsAllowlist string
	Namespaces            []string
	Resources             []string

	ScrapeInterval string
	ScrapeTimeout  string
	ScrapeLabels   map[string]string
}

// ParseConfig coerces the raw option values returned by the config
// store. Unknown options are ignored and unset ones take their default.
func ParseConfig(attrs map[string]interface{}) (Config, error) {
	in := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if v != nil {
			in[k] = v
		}
	}
	out, err := configChecker.Coerce(in, nil)
	if err != nil {
		return Config{}, errors.NewNotValid(err, "charm config")
	}
	m := out.(map[string]interface{})

	cfg := Config{
		MetricAllowlist:       splitList(m[MetricAllowlistKey].(string)),
		MetricDenylist:        splitList(m[MetricDenylistKey].(string)),
		MetricLabelsAllowlist: strings.TrimSpace(m[MetricLabelsAllowlistKey].(string)),
		Namespaces:            splitList(m[NamespacesKey].(string)),
		Resources:             splitList(m[ResourcesKey].(string)),
		ScrapeInterval:        strings.TrimSpace(m[ScrapeIntervalKey].(string)),
		ScrapeTimeout:         strings.TrimSpace(m[ScrapeTimeoutKey].(string)),
	}
	if raw := strings.TrimSpace(m[ScrapeLabelsKey].(string)); raw != "" {
		var labels interface{}
		if err := yaml.Unmarshal([]byte(raw), &labels); err != nil {
			return Config{}, &scrapetarget.ConfigError{
				Field:  ScrapeLabelsKey,
				Reason: "must be a YAML or JSON mapping",
			}
		}
		cfg.ScrapeLabels, err = scrapetarget.ParseLabels(labels)
		if err != nil {
			return Config{}, errors.Trace(err)
		}
	}
	return cfg, nil
}

// Validate returns an error describing the first problem with the
// config that prevents the workload from running.
func (cfg Config) Validate() error {
	if len(cfg.MetricAllowlist) > 0 && len(cfg.MetricDenylist) > 0 {
		return errors.Errorf("%s and %s are mutually exclusive", MetricAllowlistKey, MetricDenylistKey)
	}
	return nil
}

// splitList splits a comma separated option, dropping empty and
// repeated items.
func splitList(s string) []string {
	var out []string
	seen := set.NewStrings()
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" || seen.Contains(item) {
			continue
		}
		seen.Add(item)
		out = append(out, item)
	}
	return out
}
