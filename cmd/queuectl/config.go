package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ad1ttyya/queuectl"
)

// canonicalConfigKey normalizes a dash-spelled config key alias
// ("max-retries", "backoff-base") to its canonical underscore form, so
// an operator can use either spelling on the command line while the
// store only ever sees the canonical one.
func canonicalConfigKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// validateConfigValue type-checks value for the recognized config keys
// (max_retries: integer, backoff_base: numeric). Validation happens
// here, at the control surface, rather than in the store: unrecognized
// keys are accepted without validation, since the store treats config
// as an open string map.
func validateConfigValue(key, value string) error {
	switch key {
	case "max_retries":
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return fmt.Errorf("%w: max_retries must be a non-negative integer, got %q", queuectl.ErrInvalidInput, value)
		}
	case "backoff_base":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%w: backoff_base must be numeric, got %q", queuectl.ErrInvalidInput, value)
		}
	}
	return nil
}
