// Package projection pairs aggregates with the timestamps their stores keep.
package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Created stamps a record first written at t.
func Created(t time.Time) Metadata {
	return Metadata{CreatedAt: t, UpdatedAt: t}
}

// Touch records a write at t.
func (m *Metadata) Touch(t time.Time) {
	m.UpdatedAt = t
}

// Projection is an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}
