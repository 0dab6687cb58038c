// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
	"github.com/prometheus/common/model"
)

var logger = loggo.GetLogger("ksm.scrapetarget")

const (
	// Collector side defaults, used only to cross-check an explicit
	// interval or timeout against the other.
	defaultIntervalSeconds = 60
	defaultTimeoutSeconds  = 10

	// Longer intervals leave gaps in graphs and instant vector queries
	// return nothing once samples go stale.
	maxAdvisedIntervalSeconds = 120
)

// RegistrarConfig holds the collaborators and identity of a Registrar.
type RegistrarConfig struct {
	// RelationName is the endpoint collectors relate to.
	RelationName string

	// UnitName is the local unit, e.g. "kube-state-metrics/0".
	UnitName string

	Relations RelationSource
	Bindings  BindingResolver

	// PeerAvailable, if set, is called after every collector join.
	PeerAvailable PeerAvailableFunc

	// State resumes a previously registered target.
	State State
}

// Validate returns an error if the config cannot be used.
func (cfg RegistrarConfig) Validate() error {
	if cfg.RelationName == "" {
		return errors.NotValidf("empty RelationName")
	}
	if !names.IsValidUnit(cfg.UnitName) {
		return errors.NotValidf("unit name %q", cfg.UnitName)
	}
	if cfg.Relations == nil {
		return errors.NotValidf("nil Relations")
	}
	if cfg.Bindings == nil {
		return errors.NotValidf("nil Bindings")
	}
	return nil
}

// Registrar announces this unit as a scrape target on every relation of
// one endpoint. It is not safe for concurrent use; events are expected
// to be delivered one at a time.
type Registrar struct {
	relationName  string
	unitName      string
	relations     RelationSource
	bindings      BindingResolver
	peerAvailable PeerAvailableFunc

	state State
}

// NewRegistrar returns a Registrar for the given config.
func NewRegistrar(cfg RegistrarConfig) (*Registrar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Registrar{
		relationName:  cfg.RelationName,
		unitName:      cfg.UnitName,
		relations:     cfg.Relations,
		bindings:      cfg.Bindings,
		peerAvailable: cfg.PeerAvailable,
		state:         cfg.State.Copy(),
	}, nil
}

// State returns a copy of the currently registered target.
func (r *Registrar) State() State {
	return r.state.Copy()
}

// Register validates the target and, only if every check passes,
// replaces the registered state and publishes it to all joined
// collectors. On error the registered state is left untouched.
func (r *Registrar) Register(ctx context.Context, target Target) error {
	next, err := r.validate(target)
	if err != nil {
		return err
	}

	// The binding may have changed since the last registration.
	hostname, err := r.bindings.IngressAddress(ctx, r.relationName)
	if err != nil {
		return errors.Annotatef(err, "resolving ingress address for %q", r.relationName)
	}
	next.Hostname = hostname

	r.state = next
	return errors.Trace(r.publish(ctx, hostname))
}

func (r *Registrar) validate(target Target) (State, error) {
	if target.Port == 0 {
		return State{}, errMissingPort
	}
	if target.Port < 0 || target.Port > MaxPort {
		return State{}, errInvalidPort
	}
	if target.MetricsPath == "" {
		return State{}, errMissingPath
	}

	labels := target.Labels
	if len(labels) == 0 {
		labels = map[string]string{"host": r.hostLabel()}
		logger.Debugf("adding default label to scrape target: host=%s", labels["host"])
	} else {
		labels = copyLabels(labels)
		for k := range labels {
			if !model.LabelNameRE.MatchString(k) {
				logger.Warningf("label %q is not a valid Prometheus label name and may be dropped by the collector", k)
			}
		}
	}

	intervalSeconds, timeoutSeconds := defaultIntervalSeconds, defaultTimeoutSeconds
	if target.ScrapeInterval != "" {
		secs, err := IntervalSeconds(KeyScrapeInterval, target.ScrapeInterval)
		if err != nil {
			return State{}, err
		}
		if secs > maxAdvisedIntervalSeconds {
			logger.Warningf("scrape_interval %s may be too high, suggest an interval of 2m or less", target.ScrapeInterval)
		}
		intervalSeconds = secs
	}
	if target.ScrapeTimeout != "" {
		secs, err := IntervalSeconds(KeyScrapeTimeout, target.ScrapeTimeout)
		if err != nil {
			return State{}, err
		}
		timeoutSeconds = secs
	}
	explicit := target.ScrapeInterval != "" || target.ScrapeTimeout != ""
	if explicit && timeoutSeconds >= intervalSeconds {
		return State{}, configErrorf(KeyScrapeTimeout,
			"must be shorter than scrape_interval: got interval %d and timeout %d seconds",
			intervalSeconds, timeoutSeconds)
	}

	return State{
		Port:           target.Port,
		MetricsPath:    target.MetricsPath,
		ScrapeInterval: target.ScrapeInterval,
		ScrapeTimeout:  target.ScrapeTimeout,
		Labels:         labels,
	}, nil
}

// hostLabel is the unit name in a form usable as a label value,
// e.g. "kube-state-metrics-0".
func (r *Registrar) hostLabel() string {
	return strings.ReplaceAll(r.unitName, "/", "-")
}

// Publish writes the registered target to every collector relation
// with at least one joined unit. Nothing is written before a target has
// been registered.
func (r *Registrar) Publish(ctx context.Context) error {
	if !r.state.Registered() {
		logger.Debugf("no scrape target registered yet, nothing to publish")
		return nil
	}
	hostname, err := r.bindings.IngressAddress(ctx, r.relationName)
	if err != nil {
		return errors.Annotatef(err, "resolving ingress address for %q", r.relationName)
	}
	return errors.Trace(r.publish(ctx, hostname))
}

func (r *Registrar) publish(ctx context.Context, hostname string) error {
	r.state.Hostname = hostname
	data := r.state.RelationData()

	relations, err := r.relations.Relations(ctx, r.relationName)
	if err != nil {
		return errors.Trace(err)
	}
	for _, rel := range relations {
		units, err := rel.Units(ctx)
		if err != nil {
			return errors.Annotatef(err, "listing units of relation %s", rel.ID())
		}
		if len(units) == 0 {
			logger.Debugf("relation %s has no units yet, skipping", rel.ID())
			continue
		}
		if err := rel.SetLocalUnitData(ctx, data); err != nil {
			return errors.Annotatef(err, "publishing scrape target on relation %s", rel.ID())
		}
		logger.Debugf("published scrape target to relation %s", rel.ID())
	}
	return nil
}

// PeerJoined handles a collector unit joining: the current target is
// republished, then PeerAvailable is notified. The notification is
// raised for every join.
func (r *Registrar) PeerJoined(ctx context.Context) error {
	if err := r.Publish(ctx); err != nil {
		return errors.Trace(err)
	}
	if r.peerAvailable == nil {
		return nil
	}
	return errors.Trace(r.peerAvailable(ctx))
}
