// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"context"

	"github.com/juju/errors"
)

// Status is the workload status of a unit, as reported to the model.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

const (
	// Maintenance is set when:
	// The unit is not yet providing services, but is actively doing stuff
	// in preparation for providing those services.
	// This is a "spinning" state, not an error state.
	Maintenance Status = "maintenance"

	// Waiting is set when:
	// The unit is unable to progress to an active state because something
	// it depends on, such as its workload container, is not ready.
	Waiting Status = "waiting"

	// Blocked is set when:
	// The unit needs manual intervention, usually a config change, to get
	// back to the Active state.
	Blocked Status = "blocked"

	// Active is set when:
	// The unit believes it is correctly offering all the services it has
	// been asked to offer.
	Active Status = "active"

	// Unknown is the status before the operator has set any.
	Unknown Status = "unknown"
)

// StatusInfo holds a Status and the human readable message shown
// alongside it.
type StatusInfo struct {
	Status  Status
	Message string
}

// Validate returns an error if the status cannot be set by a workload.
func (s StatusInfo) Validate() error {
	if !ValidWorkloadStatus(s.Status) {
		return errors.NotValidf("workload status %q", s.Status)
	}
	return nil
}

// StatusSetter represents a type whose workload status can be set.
type StatusSetter interface {
	SetStatus(ctx context.Context, info StatusInfo) error
}

// ValidWorkloadStatus returns true if status has a valid value (that is to say,
// a value that it's OK to set) for units.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case
		Blocked,
		Maintenance,
		Waiting,
		Active:
		return true
	default:
		return false
	}
}
