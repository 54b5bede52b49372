package common

import "time"

// If given `value` is not empty, returns it. Else `defaultValue` will be returned.
func GetStrOr(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	} else {
		return value
	}
}

// GetDurationOr takes two duration values, if the first value is greater
// than zero, then this function returns this value, else the second value
// will be returned.
func GetDurationOr(value, defaultValue time.Duration) time.Duration {
	if value <= 0 {
		return defaultValue
	} else {
		return value
	}
}

// GetIntOr takes two integers, if the first value is greater than zero,
// then this function returns this value, else the second value will be
// returned.
func GetIntOr(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	} else {
		return value
	}
}
