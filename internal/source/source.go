// Package source provides the Incident Source collaborator: bulk loaders
// that hand the engine its record set once at the start of a run. Sources
// have no query, filter, or write-back responsibility.
package source

import (
	"context"

	"github.com/sifthq/corral/internal/core/model"
)

// IncidentSource loads the full record set for one analysis run.
type IncidentSource interface {
	LoadAll(ctx context.Context) ([]model.Incident, error)
	Close(ctx context.Context) error
}

// Memory is an in-process source backed by a fixed slice, used by tests
// and embedding callers that already hold the records.
type Memory struct {
	Incidents []model.Incident
}

func (m *Memory) LoadAll(ctx context.Context) ([]model.Incident, error) {
	return m.Incidents, nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }
