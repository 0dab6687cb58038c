// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package scrapetarget implements the provider side of the Prometheus
// scrape relation: it validates the exporter's endpoint metadata and
// writes it to the local unit's data bag on every collector relation.
//
// The data bag holds:
//
//	hostname         always, the ingress address of the endpoint binding
//	port             always, decimal
//	metrics_path     if set
//	scrape_interval  if set, "<int>(s|m|h)"
//	scrape_timeout   if set, shorter than scrape_interval
//	labels           if set, JSON object of extra target labels
package scrapetarget
