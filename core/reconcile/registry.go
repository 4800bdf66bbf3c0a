package reconcile

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateConverter is returned when two converters claim the same entity type.
	ErrDuplicateConverter = errors.New("duplicate converter for entity type")

	// ErrUnknownBaseType is returned when a base type has no registered converter.
	ErrUnknownBaseType = errors.New("unknown base type")
)

// Registry maps every trackable entity type to its converter and base type.
// It is built once during bootstrap and is read-only afterwards, so it is safe
// for concurrent use without locking.
type Registry struct {
	byEntityType map[string]Converter
	byBaseType   map[BaseType][]Converter
	baseTypes    []BaseType
}

// NewRegistry builds a registry from the given converters.
// Converters sharing a base type are grouped so each base type is diffed once per run.
func NewRegistry(converters ...Converter) (*Registry, error) {
	r := &Registry{
		byEntityType: make(map[string]Converter, len(converters)),
		byBaseType:   make(map[BaseType][]Converter),
	}

	for _, c := range converters {
		name := c.EntityType()
		if _, exists := r.byEntityType[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateConverter, name)
		}
		r.byEntityType[name] = c

		base := c.BaseType()
		if _, seen := r.byBaseType[base]; !seen {
			r.baseTypes = append(r.baseTypes, base)
		}
		r.byBaseType[base] = append(r.byBaseType[base], c)
	}

	sort.Slice(r.baseTypes, func(i, j int) bool {
		return r.baseTypes[i] < r.baseTypes[j]
	})

	return r, nil
}

// BaseTypes returns the distinct base types tracked, sorted by name.
func (r *Registry) BaseTypes() []BaseType {
	out := make([]BaseType, len(r.baseTypes))
	copy(out, r.baseTypes)
	return out
}

// ConvertersFor returns the converters targeting the given base type.
func (r *Registry) ConvertersFor(base BaseType) []Converter {
	converters := r.byBaseType[base]
	out := make([]Converter, len(converters))
	copy(out, converters)
	return out
}

// ConverterFor returns the converter registered for a concrete entity type.
func (r *Registry) ConverterFor(entityType string) (Converter, bool) {
	c, ok := r.byEntityType[entityType]
	return c, ok
}

// Tracks reports whether any converter targets the base type.
func (r *Registry) Tracks(base BaseType) bool {
	_, ok := r.byBaseType[base]
	return ok
}
