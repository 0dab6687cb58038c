// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Relation data keys read by the collector.
const (
	KeyHostname       = "hostname"
	KeyPort           = "port"
	KeyMetricsPath    = "metrics_path"
	KeyScrapeInterval = "scrape_interval"
	KeyScrapeTimeout  = "scrape_timeout"
	KeyLabels         = "labels"
)

// State is the scrape target as last announced to collectors. The zero
// value has every field unset.
type State struct {
	Port           int               `yaml:"port,omitempty"`
	MetricsPath    string            `yaml:"metrics-path,omitempty"`
	ScrapeInterval string            `yaml:"scrape-interval,omitempty"`
	ScrapeTimeout  string            `yaml:"scrape-timeout,omitempty"`
	Labels         map[string]string `yaml:"labels,omitempty"`
	Hostname       string            `yaml:"hostname,omitempty"`
}

// Registered reports whether the state holds a target that can be
// published.
func (s State) Registered() bool {
	return s.Port > 0
}

// Copy returns a deep copy of s.
func (s State) Copy() State {
	out := s
	out.Labels = copyLabels(s.Labels)
	return out
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// RelationData renders the flat settings written to each collector
// relation. Every key is present; unset optional fields are empty,
// which removes any value left by an earlier registration when the
// settings are merged into the relation.
func (s State) RelationData() map[string]string {
	data := map[string]string{
		KeyHostname:       s.Hostname,
		KeyPort:           strconv.Itoa(s.Port),
		KeyMetricsPath:    s.MetricsPath,
		KeyScrapeInterval: s.ScrapeInterval,
		KeyScrapeTimeout:  s.ScrapeTimeout,
		KeyLabels:         "",
	}
	if len(s.Labels) > 0 {
		data[KeyLabels] = encodeLabels(s.Labels)
	}
	return data
}

// encodeLabels writes labels as a JSON object with sorted keys, using
// the same separators collectors already parse from other providers:
// {"a": "1", "b": "2"}.
func encodeLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Write(quoteJSON(k))
		b.WriteString(": ")
		b.Write(quoteJSON(labels[k]))
	}
	b.WriteByte('}')
	return b.String()
}

// quoteJSON quotes s as a JSON string, leaving <, > and & unescaped.
func quoteJSON(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}
