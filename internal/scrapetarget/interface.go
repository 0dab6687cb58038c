// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import "context"

// Relation is one established relation to a collector application, as
// seen from the local unit.
type Relation interface {
	// ID identifies the relation, e.g. "monitoring:3".
	ID() string

	// Units returns the remote units currently joined to the relation.
	Units(ctx context.Context) ([]string, error)

	// SetLocalUnitData writes the given settings into the local unit's
	// data bag on this relation.
	SetLocalUnitData(ctx context.Context, data map[string]string) error
}

// RelationSource lists the relations currently visible for an endpoint.
type RelationSource interface {
	Relations(ctx context.Context, endpoint string) ([]Relation, error)
}

// BindingResolver returns the address other applications should use to
// reach this unit over the named endpoint.
type BindingResolver interface {
	IngressAddress(ctx context.Context, endpoint string) (string, error)
}

// PeerAvailableFunc is called each time a collector unit joins.
type PeerAvailableFunc func(ctx context.Context) error
