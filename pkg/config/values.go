package config

import (
	"fmt"
	"math"
)

// JSON numbers decode as float64 and YAML/Go callers pass ints; these accept both.

func stringValue(key string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
	}
	return s, nil
}

func boolValue(key string, value interface{}) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
	}
	return b, nil
}

func intValue(key string, value interface{}) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("invalid value for %s: %v is not a whole number", key, n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
}

func floatValue(key string, value interface{}) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
}
