// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pebble

import (
	"context"
	"time"

	"github.com/canonical/pebble/client"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("ksm.pebble")

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/client_mock.go github.com/charmed-kubernetes/kube-state-metrics-operator/internal/pebble Client

// Client is the subset of the Pebble client used by Supervisor.
type Client interface {
	AddLayer(opts *client.AddLayerOptions) error
	Services(opts *client.ServicesOptions) ([]*client.ServiceInfo, error)
	Start(opts *client.ServiceOptions) (string, error)
	Stop(opts *client.ServiceOptions) (string, error)
	WaitChange(id string, opts *client.WaitChangeOptions) (*client.Change, error)
}

var _ Client = (*client.Client)(nil)

// ErrUnreachable is carried by errors caused by failing to talk to the
// Pebble daemon, typically because the workload container is not up.
const ErrUnreachable = errors.ConstError("pebble unreachable")

// DefaultChangeTimeout bounds how long Start and Stop wait for Pebble
// to finish the change.
const DefaultChangeTimeout = 30 * time.Second

// Supervisor manages workload services through Pebble.
type Supervisor struct {
	client  Client
	timeout time.Duration
}

// NewSupervisor returns a Supervisor using the given client.
func NewSupervisor(c Client) *Supervisor {
	return &Supervisor{client: c, timeout: DefaultChangeTimeout}
}

// Dial connects to the Pebble daemon listening on socket, normally
// /charm/containers/<container>/pebble.socket.
func Dial(socket string) (*Supervisor, error) {
	c, err := client.New(&client.Config{Socket: socket})
	if err != nil {
		return nil, errors.Annotatef(err, "connecting to pebble at %q", socket)
	}
	return NewSupervisor(c), nil
}

// AddLayer adds, or combines with an existing layer of the same label,
// the given layer.
func (s *Supervisor) AddLayer(ctx context.Context, label string, layer *Layer) error {
	if err := layer.Validate(); err != nil {
		return errors.Trace(err)
	}
	data, err := layer.YAML()
	if err != nil {
		return errors.Trace(err)
	}
	err = s.client.AddLayer(&client.AddLayerOptions{
		Combine:   true,
		Label:     label,
		LayerData: data,
	})
	return errors.Annotatef(classify(err), "adding layer %q", label)
}

// ServiceRunning reports whether the named service is active.
func (s *Supervisor) ServiceRunning(ctx context.Context, name string) (bool, error) {
	infos, err := s.client.Services(&client.ServicesOptions{Names: []string{name}})
	if err != nil {
		return false, errors.Annotatef(classify(err), "querying service %q", name)
	}
	for _, info := range infos {
		if info.Name == name {
			return info.Current == client.StatusActive, nil
		}
	}
	return false, nil
}

// Start starts the named service and waits for it to come up.
func (s *Supervisor) Start(ctx context.Context, name string) error {
	id, err := s.client.Start(&client.ServiceOptions{Names: []string{name}})
	if err != nil {
		return errors.Annotatef(classify(err), "starting service %q", name)
	}
	return errors.Annotatef(s.wait(id), "starting service %q", name)
}

// Stop stops the named service and waits for it to exit.
func (s *Supervisor) Stop(ctx context.Context, name string) error {
	id, err := s.client.Stop(&client.ServiceOptions{Names: []string{name}})
	if err != nil {
		return errors.Annotatef(classify(err), "stopping service %q", name)
	}
	return errors.Annotatef(s.wait(id), "stopping service %q", name)
}

func (s *Supervisor) wait(changeID string) error {
	change, err := s.client.WaitChange(changeID, &client.WaitChangeOptions{Timeout: s.timeout})
	if err != nil {
		return errors.Trace(classify(err))
	}
	if change.Err != "" {
		return errors.Errorf("change %s %s: %s", changeID, change.Status, change.Err)
	}
	logger.Debugf("change %s %s", changeID, change.Status)
	return nil
}

// classify marks connection failures with ErrUnreachable.
func classify(err error) error {
	if _, ok := errors.AsType[client.ConnectionError](err); ok {
		return errors.WithType(err, ErrUnreachable)
	}
	return err
}
