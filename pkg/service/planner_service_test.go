package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/service"
)

type fakeStore struct {
	saved map[string]meshmodel.Plan
}

func newFakeStore() *fakeStore { return &fakeStore{saved: map[string]meshmodel.Plan{}} }

func (s *fakeStore) Save(filename string, plan meshmodel.Plan) error {
	s.saved[filename] = plan
	return nil
}

func (s *fakeStore) Load(filename string) (map[string]meshmodel.PlanNode, error) {
	plan, ok := s.saved[filename]
	if !ok {
		return nil, domain.WrapErrorf(nil, domain.ErrNotFound, "plan %s not found", filename)
	}
	return plan.Nodes, nil
}

func fixedClock(at time.Time) service.Clock {
	return func() time.Time { return at }
}

func TestPlannerService_PlanSavesUnderConventionFilename(t *testing.T) {
	store := newFakeStore()
	plan := meshmodel.Plan{Nodes: map[string]meshmodel.PlanNode{
		"R": {Level: 0, Channel: []int{6135}, Bandwidth: []int{160}, MaxEIRP: []int{24}},
	}}

	svc := service.NewPlannerService(
		service.PlannerFunc(func(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error) {
			return plan, nil
		}),
		store,
		fixedClock(time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)),
	)

	req := meshmodel.Request{Nodes: map[string]meshmodel.NodeWire{"R": {}}}
	filename, got, err := svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "topology_1nodes_20260802_100000.json", filename)
	assert.Equal(t, plan, got)
	assert.Contains(t, store.saved, filename)
}

func TestPlannerService_PlanPropagatesPlannerError(t *testing.T) {
	store := newFakeStore()
	wantErr := domain.WrapErrorf(nil, domain.ErrInvalidInput, "bad input")

	svc := service.NewPlannerService(
		service.PlannerFunc(func(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error) {
			return meshmodel.Plan{}, wantErr
		}),
		store,
		nil,
	)

	_, _, err := svc.Plan(context.Background(), meshmodel.Request{})
	require.Error(t, err)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.True(t, errors.Is(derr.Code(), domain.ErrInvalidInput))
	assert.Empty(t, store.saved)
}

func TestPlannerService_LoadMissingReturnsNotFound(t *testing.T) {
	svc := service.NewPlannerService(nil, newFakeStore(), nil)

	_, err := svc.Load(context.Background(), "missing.json")
	require.Error(t, err)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.True(t, errors.Is(derr.Code(), domain.ErrNotFound))
}
