package domain

import (
	"slices"
	"strings"
)

// Registry is the ordered set of category labels plus the synthetic all-filter label.
// The zero value is not usable; build one with NewRegistry.
type Registry struct {
	all    string
	labels []string
}

// NewRegistry builds a registry, skipping blank and repeated labels.
func NewRegistry(allLabel string, labels []string) (Registry, error) {
	allLabel = strings.TrimSpace(allLabel)
	if allLabel == "" {
		return Registry{}, ErrInvalidLabel
	}
	reg := Registry{all: allLabel, labels: make([]string, 0, len(labels))}
	for _, raw := range labels {
		if next, ok := reg.Add(raw); ok {
			reg = next
		}
	}
	return reg, nil
}

// AllLabel returns the filter value that selects every task.
func (r Registry) AllLabel() string {
	return r.all
}

// Labels returns the storable category labels in registration order.
func (r Registry) Labels() []string {
	return slices.Clone(r.labels)
}

// Options returns the filter selector values: the all label first, then every category.
func (r Registry) Options() []string {
	out := make([]string, 0, len(r.labels)+1)
	out = append(out, r.all)
	return append(out, r.labels...)
}

// Len reports the number of storable labels.
func (r Registry) Len() int {
	return len(r.labels)
}

// Contains reports whether label is a filter option. Matching is exact and case-sensitive.
func (r Registry) Contains(label string) bool {
	return label == r.all || slices.Contains(r.labels, label)
}

// Add returns a registry with name appended. It reports false, leaving r untouched,
// when the trimmed name is empty or already a filter option.
func (r Registry) Add(name string) (Registry, bool) {
	name = strings.TrimSpace(name)
	if name == "" || r.Contains(name) {
		return r, false
	}
	labels := make([]string, len(r.labels), len(r.labels)+1)
	copy(labels, r.labels)
	return Registry{all: r.all, labels: append(labels, name)}, true
}
