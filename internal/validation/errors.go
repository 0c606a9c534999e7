package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to its first validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records message for field unless the field already has one.
func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Check adds message for field when ok is false.
func (e FieldErrors) Check(ok bool, field, message string) {
	if !ok {
		e.Add(field, message)
	}
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns e as an error, or nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
