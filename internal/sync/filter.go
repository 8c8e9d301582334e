package sync

import "strings"

// Matcher reports whether a record passes a client-side filter.
type Matcher[T Record] func(T) bool

// Search builds a case-insensitive substring matcher over the text fields
// extracted by fields. An empty term matches everything.
func Search[T Record](term string, fields func(T) []string) Matcher[T] {
	term = strings.ToLower(term)
	return func(rec T) bool {
		if term == "" {
			return true
		}
		for _, f := range fields(rec) {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	}
}

// Status builds an exact-match filter against an enum value. The sentinel
// "all" (or empty) matches everything.
func Status[T Record](want string, status func(T) string) Matcher[T] {
	return func(rec T) bool {
		if want == "" || want == "all" {
			return true
		}
		return status(rec) == want
	}
}

// And composes matchers; a record passes only if every matcher passes.
func And[T Record](matchers ...Matcher[T]) Matcher[T] {
	return func(rec T) bool {
		for _, m := range matchers {
			if !m(rec) {
				return false
			}
		}
		return true
	}
}

// Filter recomputes a filtered view of records. It never mutates the input,
// so reapplying the same matcher yields the same result.
func Filter[T Record](records []T, m Matcher[T]) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if m(rec) {
			out = append(out, rec)
		}
	}
	return out
}
