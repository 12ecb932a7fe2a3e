// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jllopis/gitagent/pkg/manifest"
)

var retentionPattern = regexp.MustCompile(`^(\d+)([ymd])$`)

// Minimum retention in years per framework.
const (
	finraMinRetentionYears = 6
	secMinRetentionYears   = 3
)

// RetentionYears converts a retention period such as "7y", "72m" or
// "400d" to years. Strings that do not match <int><y|m|d> report false.
func RetentionYears(period string) (float64, bool) {
	match := retentionPattern.FindStringSubmatch(period)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	switch match[2] {
	case "m":
		return float64(value) / 12, true
	case "d":
		return float64(value) / 365, true
	default:
		return float64(value), true
	}
}

// RetentionWarnings reports framework minimums the retention period does
// not meet. Malformed periods produce no warning.
func RetentionWarnings(c *manifest.Compliance) []string {
	if c == nil || c.Recordkeeping == nil || c.Recordkeeping.RetentionPeriod == "" {
		return nil
	}
	period := c.Recordkeeping.RetentionPeriod
	years, ok := RetentionYears(period)
	if !ok {
		return nil
	}
	var out []string
	if c.HasFramework(manifest.FrameworkFINRA) && years < finraMinRetentionYears {
		out = append(out, fmt.Sprintf("Retention %s may be below FINRA 4511 minimum (6 years)", period))
	}
	if c.HasFramework(manifest.FrameworkSEC) && years < secMinRetentionYears {
		out = append(out, fmt.Sprintf("Retention %s may be below SEC 17a-4 minimum (3 years)", period))
	}
	return out
}
