// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import (
	"fmt"

	"github.com/juju/errors"
)

// ConfigError describes a scrape target definition that cannot be
// published. Every validation failure in this package is a ConfigError.
type ConfigError struct {
	// Field names the offending input, if there is one.
	Field  string
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, errors.NotValid) to match a ConfigError.
func (e *ConfigError) Unwrap() error {
	return errors.NotValid
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
