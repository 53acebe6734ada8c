package utils

import "strconv"

// ParseInt converts a query parameter to a positive int, falling back to the
// default for empty, malformed or non-positive values.
func ParseInt(value string, defaultValue int) int {
	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}
	return result
}
