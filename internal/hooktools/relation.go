// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"context"
	"sort"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/scrapetarget"
)

// Relations lists the relations established on endpoint, ordered by id.
func (c *Context) Relations(ctx context.Context, endpoint string) ([]scrapetarget.Relation, error) {
	var ids []string
	if err := c.runYAML(ctx, &ids, "relation-ids", endpoint, "--format=yaml"); err != nil {
		return nil, errors.Trace(err)
	}
	var relations []scrapetarget.Relation
	for _, id := range set.NewStrings(ids...).SortedValues() {
		relations = append(relations, &relation{ctx: c, id: id})
	}
	return relations, nil
}

// relation implements scrapetarget.Relation on top of relation-list and
// relation-set.
type relation struct {
	ctx *Context
	id  string
}

func (r *relation) ID() string {
	return r.id
}

// Units returns the remote units joined to the relation.
func (r *relation) Units(ctx context.Context) ([]string, error) {
	var units []string
	if err := r.ctx.runYAML(ctx, &units, "relation-list", "-r", r.id, "--format=yaml"); err != nil {
		return nil, errors.Trace(err)
	}
	return units, nil
}

// SetLocalUnitData writes all settings with a single relation-set call,
// so collectors never observe a half written bag. relation-set merges
// into the existing settings; an empty value removes the key.
func (r *relation) SetLocalUnitData(ctx context.Context, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{"-r", r.id}
	for _, k := range keys {
		args = append(args, k+"="+data[k])
	}
	if _, err := r.ctx.runner.Run(ctx, "relation-set", args...); err != nil {
		return errors.Trace(err)
	}
	logger.Tracef("relation-set on %s: %v", r.id, keys)
	return nil
}
