// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrapetarget

import (
	"math"
	"regexp"
	"strconv"
)

var intervalRE = regexp.MustCompile(`^(\d+)(s|m|h)$`)

const intervalFormatReason = "must be expressed as an integer followed by s, m, or h"

var unitSeconds = map[string]int{
	"s": 1,
	"m": 60,
	"h": 3600,
}

// ValidateInterval checks that value is a duration of the form "15s",
// "2m" or "1h". The field name is only used in the returned error.
func ValidateInterval(field, value string) error {
	_, err := IntervalSeconds(field, value)
	return err
}

// IntervalSeconds converts a duration of the form "<int>(s|m|h)" into
// whole seconds.
func IntervalSeconds(field, value string) (int, error) {
	m := intervalRE.FindStringSubmatch(value)
	if m == nil {
		return 0, configErrorf(field, intervalFormatReason)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only reachable on overflow.
		return 0, configErrorf(field, intervalFormatReason)
	}
	mult := unitSeconds[m[2]]
	if n > math.MaxInt/mult {
		return 0, configErrorf(field, intervalFormatReason)
	}
	return n * mult, nil
}
