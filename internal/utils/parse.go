package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeFor[time.Duration]()

// ParseStringAs parses a configuration string into T. Supported targets are
// string, bool, signed and unsigned integers, floats and time.Duration.
// Surrounding whitespace is ignored except for strings. A bare integer given
// for a time.Duration is read as seconds.
//
// Example:
//
//	enabled, err := ParseStringAs[bool]("true")
//	timeout, err := ParseStringAs[time.Duration]("90s")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()
	trimmed := strings.TrimSpace(content)

	if target.Type() == durationType {
		d, err := parseDuration(trimmed)
		if err != nil {
			return result, err
		}
		target.SetInt(int64(d))
		return result, nil
	}

	switch target.Kind() {
	case reflect.String:
		target.SetString(content)

	case reflect.Bool:
		val, err := strconv.ParseBool(trimmed)
		if err != nil {
			return result, fmt.Errorf("failed to parse %q as bool: %w", content, err)
		}
		target.SetBool(val)

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(trimmed, target.Type().Bits())
		if err != nil {
			return result, fmt.Errorf("failed to parse %q as float: %w", content, err)
		}
		target.SetFloat(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(trimmed, 10, target.Type().Bits())
		if err != nil {
			return result, fmt.Errorf("failed to parse %q as int: %w", content, err)
		}
		target.SetInt(val)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(trimmed, 10, target.Type().Bits())
		if err != nil {
			return result, fmt.Errorf("failed to parse %q as uint: %w", content, err)
		}
		target.SetUint(val)

	default:
		return result, fmt.Errorf("unsupported target type %T", result)
	}

	return result, nil
}

func parseDuration(s string) (time.Duration, error) {
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as duration: %w", s, err)
	}
	return d, nil
}
