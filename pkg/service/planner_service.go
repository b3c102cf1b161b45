// Package service is the composition root the REST host binds against:
// a small struct holding its dependencies by interface, constructed
// with NewPlannerService, in the same shape as the teacher's
// server/rest/service.NavigationService{CH, KV, hungarian, ...}.
package service

import (
	"context"
	"time"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/planstore"
)

// Planner is the pure planning operation pkg/planner exposes.
type Planner interface {
	Plan(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error)
}

// PlannerFunc adapts a plain function to the Planner interface, letting
// callers pass planner.Plan directly without a wrapper type.
type PlannerFunc func(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error)

func (f PlannerFunc) Plan(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error) {
	return f(nodes, edges, cfg)
}

// Store is the subset of pkg/planstore.Store the service depends on.
type Store interface {
	Save(filename string, plan meshmodel.Plan) error
	Load(filename string) (map[string]meshmodel.PlanNode, error)
}

// Clock lets tests substitute a fixed time for planstore.Filename's
// timestamp component without touching wall-clock time.
type Clock func() time.Time

// PlannerService implements rest.PlannerService: it resolves a wire
// Request into the core's types, calls Planner.Plan, and persists the
// result through Store under the §6 filename convention.
type PlannerService struct {
	planner Planner
	store   Store
	now     Clock
}

// NewPlannerService wires the planning core and the embedded store
// into the one operation the REST host calls.
func NewPlannerService(planner Planner, store Store, now Clock) *PlannerService {
	if now == nil {
		now = time.Now
	}
	return &PlannerService{planner: planner, store: store, now: now}
}

// Plan resolves the wire request, runs the core planner, persists the
// resulting plan under a timestamped filename, and returns that
// filename alongside the plan itself.
func (s *PlannerService) Plan(ctx context.Context, req meshmodel.Request) (string, meshmodel.Plan, error) {
	nodes, edges, cfg := req.Resolve()

	plan, err := s.planner.Plan(nodes, edges, cfg)
	if err != nil {
		return "", meshmodel.Plan{}, err
	}

	filename := planstore.Filename(len(nodes), s.now())
	if err := s.store.Save(filename, plan); err != nil {
		return "", meshmodel.Plan{}, domain.WrapErrorf(err, domain.ErrInternalServerError, "persisting plan %s: %v", filename, err)
	}

	return filename, plan, nil
}

// Load fetches a previously persisted plan's per-node records by
// filename, wrapping a missing entry as domain.ErrNotFound so the REST
// layer renders a 404 rather than a bare pebble error.
func (s *PlannerService) Load(ctx context.Context, filename string) (map[string]meshmodel.PlanNode, error) {
	nodes, err := s.store.Load(filename)
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrNotFound, "plan %q not found: %v", filename, err)
	}
	return nodes, nil
}
