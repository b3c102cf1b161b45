package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/server/rest"
)

type fakePlannerService struct {
	planFilename string
	plan         meshmodel.Plan
	planErr      error

	historyNodes map[string]meshmodel.PlanNode
	historyErr   error
}

func (f *fakePlannerService) Plan(ctx context.Context, req meshmodel.Request) (string, meshmodel.Plan, error) {
	return f.planFilename, f.plan, f.planErr
}

func (f *fakePlannerService) Load(ctx context.Context, filename string) (map[string]meshmodel.PlanNode, error) {
	return f.historyNodes, f.historyErr
}

func newTestRouter(svc rest.PlannerService) *chi.Mux {
	r := chi.NewRouter()
	reg := prometheus.NewRegistry()
	rest.TopologyRouter(r, svc, rest.NewMetrics(reg))
	return r
}

func TestTopologyRouter_PlanReturnsFilenameAndPlan(t *testing.T) {
	svc := &fakePlannerService{
		planFilename: "topology_1nodes_20260802_100000.json",
		plan: meshmodel.Plan{Nodes: map[string]meshmodel.PlanNode{
			"R": {Level: 0, Channel: []int{6135}, Bandwidth: []int{160}, MaxEIRP: []int{24}},
		}},
	}
	r := newTestRouter(svc)

	body := `{"nodes":{"R":{"gps":[-6.2,106.8],"load":1,"channels":{"6GH":{"160M":[6135]}},"maxEirp":{"6GH":{"160M":[24]}}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/topology/plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, svc.planFilename, got["filename"])
}

func TestTopologyRouter_PlanRejectsEmptyNodes(t *testing.T) {
	svc := &fakePlannerService{}
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/topology/plan", bytes.NewBufferString(`{"nodes":{}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopologyRouter_PlanMapsTopologyUnreachableTo422(t *testing.T) {
	svc := &fakePlannerService{
		planErr: domain.WrapErrorDetails(nil, domain.ErrTopologyUnreachable,
			map[string]interface{}{"unreachable_nodes": []string{"C"}},
			"topology unreachable: 1 node(s) could not be connected"),
	}
	r := newTestRouter(svc)

	body := `{"nodes":{"R":{"gps":[-6.2,106.8],"load":1,"channels":{"6GH":{"160M":[6135]}},"maxEirp":{"6GH":{"160M":[24]}}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/topology/plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "topology_unreachable", got["kind"])
	assert.NotNil(t, got["details"])
}

func TestTopologyRouter_HistoryReturnsSavedPlan(t *testing.T) {
	svc := &fakePlannerService{
		historyNodes: map[string]meshmodel.PlanNode{
			"R": {Level: 0, Channel: []int{6135}, Bandwidth: []int{160}, MaxEIRP: []int{24}},
		},
	}
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/topology/history/topology_1nodes_20260802_100000.json", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
}

func TestTopologyRouter_HistoryMissingReturns404(t *testing.T) {
	svc := &fakePlannerService{
		historyErr: domain.WrapErrorf(nil, domain.ErrNotFound, "plan %q not found", "missing.json"),
	}
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/topology/history/missing.json", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
