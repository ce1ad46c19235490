package fields

import "strings"

// Fields maps a field name to its values, in input order.
// Both CSV rows (duplicate header names) and multipart forms
// can yield more than one value for a key.
type Fields map[string][]string

// Extract returns the value of key as a single string.
//   - missing key or no values -> ""
//   - one value -> the value as-is
//   - several values -> joined with a single space, in order
func Extract(f Fields, key string) string {
	values := f[key]
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, " ")
	}
}

// Has reports whether key is present with at least one value
func Has(f Fields, key string) bool {
	return len(f[key]) > 0
}

// Add appends value to the values of key
func (f Fields) Add(key, value string) {
	f[key] = append(f[key], value)
}
