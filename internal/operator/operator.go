// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package operator drives the kube-state-metrics workload: it renders
// the Pebble layer from the charm config, keeps the unit status current
// and announces the metrics endpoint to related collectors.
package operator

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gopkg.in/yaml.v3"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/core/status"
	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/pebble"
	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/scrapetarget"
)

var logger = loggo.GetLogger("ksm.operator")

const (
	// MonitoringRelation is the endpoint collectors relate to.
	MonitoringRelation = "monitoring"

	scrapeTargetStateKey = "scrape-target"
)

// OperatorConfig holds the collaborators of an Operator.
type OperatorConfig struct {
	UnitName   string
	Config     ConfigGetter
	Supervisor Supervisor
	Status     status.StatusSetter
	Store      StateStore
	Relations  scrapetarget.RelationSource
	Bindings   scrapetarget.BindingResolver
}

// Validate returns an error if the config cannot be used.
func (cfg OperatorConfig) Validate() error {
	if cfg.Config == nil {
		return errors.NotValidf("nil Config")
	}
	if cfg.Supervisor == nil {
		return errors.NotValidf("nil Supervisor")
	}
	if cfg.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if cfg.Store == nil {
		return errors.NotValidf("nil Store")
	}
	return nil
}

// Operator handles the lifecycle events of one kube-state-metrics unit.
// Each handler runs to completion before the next event is delivered.
type Operator struct {
	config     ConfigGetter
	supervisor Supervisor
	status     status.StatusSetter
	store      StateStore
	registrar  *scrapetarget.Registrar
}

// NewOperator returns an Operator, resuming any scrape target
// registered by a previous hook.
func NewOperator(ctx context.Context, cfg OperatorConfig) (*Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	o := &Operator{
		config:     cfg.Config,
		supervisor: cfg.Supervisor,
		status:     cfg.Status,
		store:      cfg.Store,
	}
	saved, err := o.loadScrapeTarget(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	o.registrar, err = scrapetarget.NewRegistrar(scrapetarget.RegistrarConfig{
		RelationName:  MonitoringRelation,
		UnitName:      cfg.UnitName,
		Relations:     cfg.Relations,
		Bindings:      cfg.Bindings,
		PeerAvailable: o.onCollectorAvailable,
		State:         saved,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return o, nil
}

// OnWorkloadReady applies the layer and starts kube-state-metrics once
// its container can be reached.
func (o *Operator) OnWorkloadReady(ctx context.Context) error {
	cfg, ok, err := o.validConfig(ctx)
	if err != nil || !ok {
		return errors.Trace(err)
	}
	if err := o.supervisor.AddLayer(ctx, ServiceName, Layer(cfg)); err != nil {
		return errors.Trace(err)
	}
	running, err := o.supervisor.ServiceRunning(ctx, ServiceName)
	if err != nil {
		return errors.Trace(err)
	}
	if !running {
		if err := o.supervisor.Start(ctx, ServiceName); err != nil {
			return errors.Trace(err)
		}
	}
	return o.setStatus(ctx, status.Active, "")
}

// OnConfigChanged enforces a valid config, re-announces the scrape
// target and updates the running service. The target is announced
// whether or not the workload container can be reached.
func (o *Operator) OnConfigChanged(ctx context.Context) error {
	cfg, ok, err := o.validConfig(ctx)
	if err != nil || !ok {
		return errors.Trace(err)
	}

	registerErr := o.register(ctx, cfg)
	if registerErr != nil && !scrapetarget.IsConfigError(registerErr) {
		return errors.Trace(registerErr)
	}

	err = o.updateService(ctx, cfg)
	if err != nil && !errors.Is(err, pebble.ErrUnreachable) {
		return errors.Trace(err)
	}
	switch {
	case registerErr != nil:
		return o.setStatus(ctx, status.Blocked, registerErr.Error())
	case err != nil:
		// The container comes up later and delivers its own event.
		logger.Infof("workload not reachable yet: %v", err)
		return o.setStatus(ctx, status.Waiting, "waiting for "+ServiceName+" container")
	}
	return o.setStatus(ctx, status.Active, "")
}

// OnRelationJoined republishes the scrape target to a joining
// collector.
func (o *Operator) OnRelationJoined(ctx context.Context) error {
	if err := o.registrar.PeerJoined(ctx); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(o.saveScrapeTarget(ctx))
}

// onCollectorAvailable registers the target from the current config,
// so a collector joining before the first config-changed still gets it.
func (o *Operator) onCollectorAvailable(ctx context.Context) error {
	raw, err := o.config.Config(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		logger.Warningf("not registering scrape target: %v", err)
		return nil
	}
	err = o.register(ctx, cfg)
	if scrapetarget.IsConfigError(err) {
		logger.Warningf("not registering scrape target: %v", err)
		return nil
	}
	return errors.Trace(err)
}

// validConfig returns the current config, or sets a blocked status and
// returns ok=false if it cannot be used.
func (o *Operator) validConfig(ctx context.Context) (Config, bool, error) {
	raw, err := o.config.Config(ctx)
	if err != nil {
		return Config{}, false, errors.Trace(err)
	}
	cfg, err := ParseConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Warningf("invalid config: %v", err)
		return Config{}, false, o.setStatus(ctx, status.Blocked, err.Error())
	}
	return cfg, true, nil
}

// updateService applies the layer for cfg and restarts the service if
// it is running, so new flags take effect.
func (o *Operator) updateService(ctx context.Context, cfg Config) error {
	if err := o.supervisor.AddLayer(ctx, ServiceName, Layer(cfg)); err != nil {
		return errors.Trace(err)
	}
	running, err := o.supervisor.ServiceRunning(ctx, ServiceName)
	if err != nil {
		return errors.Trace(err)
	}
	if !running {
		return nil
	}
	if err := o.supervisor.Stop(ctx, ServiceName); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(o.supervisor.Start(ctx, ServiceName))
}

func (o *Operator) register(ctx context.Context, cfg Config) error {
	err := o.registrar.Register(ctx, scrapetarget.Target{
		Port:           MetricsPort,
		MetricsPath:    MetricsPath,
		ScrapeInterval: cfg.ScrapeInterval,
		ScrapeTimeout:  cfg.ScrapeTimeout,
		Labels:         cfg.ScrapeLabels,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(o.saveScrapeTarget(ctx))
}

func (o *Operator) loadScrapeTarget(ctx context.Context) (scrapetarget.State, error) {
	var st scrapetarget.State
	value, ok, err := o.store.Get(ctx, scrapeTargetStateKey)
	if err != nil || !ok {
		return st, errors.Trace(err)
	}
	if err := yaml.Unmarshal([]byte(value), &st); err != nil {
		return st, errors.Annotate(err, "reading stored scrape target")
	}
	return st, nil
}

func (o *Operator) saveScrapeTarget(ctx context.Context) error {
	data, err := yaml.Marshal(o.registrar.State())
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(o.store.Set(ctx, scrapeTargetStateKey, string(data)))
}

func (o *Operator) setStatus(ctx context.Context, s status.Status, message string) error {
	return errors.Trace(o.status.SetStatus(ctx, status.StatusInfo{Status: s, Message: message}))
}
