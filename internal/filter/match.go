package filter

import (
	"strconv"
	"strings"
)

// Predicate defines a function that returns true if the given item matches a condition.
type Predicate[T any] func(item T, filterValue string) bool

// Options holds configuration for filtering behavior.
type Options[T any] struct {
	matchers map[string]Predicate[T]
}

// Option configures filter Options.
type Option[T any] func(*Options[T]) error

// Provider is a generic function type that encapsulates the logic for extracting
// a value of type V from an item of type T.
type Provider[T any, V any] func(T) V

// BoolValueProvider extracts a single boolean value from an item of type T.
type BoolValueProvider[T any] Provider[T, bool]

// StringValueProvider extracts a single string value from an item of type T.
type StringValueProvider[T any] Provider[T, string]

// StringValuesProvider extracts a slice of string values from an item of type T.
type StringValuesProvider[T any] Provider[T, []string]

// NormalizeString can be used to normalize a string value for filtering/comparison.
// The value is made lowercase and has any leading and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewOptions creates filter Options with defaults and applies given options.
func NewOptions[T any](opt ...Option[T]) (Options[T], error) {
	opts := Options[T]{
		matchers: make(map[string]Predicate[T]),
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options[T]{}, err
		}
	}
	return opts, nil
}

// Equals returns a Predicate that checks if the value extracted by the provider
// exactly matches the filter value (case-insensitive, normalized).
//
// Example:
//
// predicate := Equals(func(s domain.Server) string { return string(s.Health) }),
// result := predicate(server, "Healthy") // true if server.Health is "healthy"
func Equals[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		return NormalizeString(provider(item)) == NormalizeString(val)
	}
}

// EqualsBool returns a Predicate that checks if the value extracted by the provider
// matches the parsed boolean representation of the filter value.
// Unparseable filter values never match.
func EqualsBool[T any](provider BoolValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		parsedVal, err := strconv.ParseBool(NormalizeString(val))
		if err != nil {
			return false
		}
		return provider(item) == parsedVal
	}
}

// PartialAny returns a Predicate that checks if *ANY* of the values from the supplied providers contain the
// filter value as a substring (case-insensitive). Whitespace in the filter value is significant.
//
// Example:
//
// predicate := PartialAny(nameProvider, descriptionProvider),
// result := predicate(tool, "time") // true if the tool's name or description contains "time"
func PartialAny[T any](providers ...StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		q := strings.ToLower(val)
		for _, p := range providers {
			if strings.Contains(strings.ToLower(p(item)), q) {
				return true
			}
		}
		return false
	}
}

// Includes returns a Predicate that checks if any of the values extracted by the provider
// is exactly equal to the filter value (case-insensitive, normalized).
// Unlike a comma-separated set match, the filter value is treated as a single term.
func Includes[T any](provider StringValuesProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		q := NormalizeString(val)
		for _, v := range provider(item) {
			if NormalizeString(v) == q {
				return true
			}
		}
		return false
	}
}

// WithMatcher adds or overrides a matcher.
func WithMatcher[T any](key string, value Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		o.matchers[NormalizeString(key)] = value
		return nil
	}
}

// Match applies the provided filters to an item of type T using any configured Option matchers.
// Filters with an empty key or an empty value are ignored, as are keys with no associated matcher.
func Match[T any](item T, filters map[string]string, opts ...Option[T]) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	filterOpts, err := NewOptions(opts...)
	if err != nil {
		return false, err
	}

	for key, val := range filters {
		k := NormalizeString(key)
		if k == "" || val == "" {
			continue
		}

		matcher, ok := filterOpts.matchers[k]
		if !ok {
			continue
		}
		if !matcher(item, val) {
			return false, nil
		}
	}
	return true, nil
}

// MatchAll returns the items which satisfy every filter, preserving their order.
func MatchAll[T any](items []T, filters map[string]string, opts ...Option[T]) ([]T, error) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := Match(item, filters, opts...)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}
