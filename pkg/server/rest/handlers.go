package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
)

// PlannerService is what the REST host fronts -- the mesh-planning
// equivalent of the teacher's many-method NavigationService, scaled
// down to the one planning operation the core exposes (§4.5 Plan) plus
// a lookup of previously persisted plans (Load).
type PlannerService interface {
	Plan(ctx context.Context, req meshmodel.Request) (filename string, plan meshmodel.Plan, err error)
	Load(ctx context.Context, filename string) (map[string]meshmodel.PlanNode, error)
}

// PlannerHandler wires PlannerService into chi, following the teacher's
// NavigationHandler{svc, promeMetrics} shape.
type PlannerHandler struct {
	svc          PlannerService
	promeMetrics *metrics
}

// TopologyRouter mounts the planning endpoints, matching the teacher's
// NavigatorRouter(r, svc, m) signature and route-group style: one
// planning route (POST /plan) and one plan-history route
// (GET /history/{filename}).
func TopologyRouter(r *chi.Mux, svc PlannerService, m *metrics) {
	handler := &PlannerHandler{svc, m}

	r.Route("/api/topology", func(r chi.Router) {
		r.Post("/plan", handler.plan)
		r.Get("/history/{filename}", handler.history)
	})
}

// planRequest binds the §6 request record. It embeds meshmodel.Request
// directly so the go-playground validator tags already declared on
// NodeWire/EdgeWire/ConfigWire apply without duplication.
type planRequest struct {
	meshmodel.Request
}

func (p *planRequest) Bind(r *http.Request) error {
	if len(p.Nodes) == 0 {
		return errors.New("nodes must not be empty")
	}
	return nil
}

// planResponse is the §6/§4 success envelope: a status/data shape
// mirroring the original's api.py response, with the plan's per-node
// records keyed by ID.
type planResponse struct {
	Status   string                        `json:"status"`
	Filename string                        `json:"filename"`
	Data     map[string]meshmodel.PlanNode `json:"data"`
}

func newPlanResponse(filename string, plan meshmodel.Plan) *planResponse {
	return &planResponse{Status: "ok", Filename: filename, Data: plan.Nodes}
}

func (p *planResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *PlannerHandler) plan(w http.ResponseWriter, r *http.Request) {
	data := &planRequest{}
	if err := render.Bind(r, data); err != nil {
		h.promeMetrics.planRequests.WithLabelValues("rejected").Inc()
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(data.Request); err != nil {
		h.promeMetrics.planRequests.WithLabelValues("rejected").Inc()
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	h.promeMetrics.planNodesHistogram.Observe(float64(len(data.Nodes)))

	filename, plan, err := h.svc.Plan(r.Context(), data.Request)
	if err != nil {
		h.promeMetrics.planRequests.WithLabelValues("failed").Inc()
		h.promeMetrics.planErrors.WithLabelValues(errorKind(err)).Inc()
		render.Render(w, r, ErrPlanning(err))
		return
	}

	h.promeMetrics.planRequests.WithLabelValues("ok").Inc()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, newPlanResponse(filename, plan))
}

func (h *PlannerHandler) history(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	nodes, err := h.svc.Load(r.Context(), filename)
	if err != nil {
		render.Render(w, r, ErrPlanning(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, struct {
		Status string                        `json:"status"`
		Data   map[string]meshmodel.PlanNode `json:"data"`
	}{Status: "ok", Data: nodes})
}

// ErrResponse is the §7/§4 error record: status/kind/message plus the
// structured details a domain.Error carries, mirroring the teacher's
// ErrResponse shape with "kind" standing in for its AppCode.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Status     string                 `json:"status"`
	Kind       string                 `json:"kind,omitempty"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Validation []string               `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := make([]string, 0, len(errV))
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Status:         "error",
		Kind:           "invalid_input",
		Message:        "request failed validation",
		Validation:     vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Status:         "error",
		Kind:           "invalid_input",
		Message:        err.Error(),
	}
}

// ErrPlanning renders a domain.Error from pkg/planner/pkg/planstore,
// mapping its Code() onto an HTTP status the way the teacher's ErrChi
// maps server.Error onto status codes.
func ErrPlanning(err error) render.Renderer {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			Status:         "error",
			Kind:           "internal",
			Message:        err.Error(),
		}
	}

	return &ErrResponse{
		Err:            derr,
		HTTPStatusCode: statusForKind(derr.Code()),
		Status:         "error",
		Kind:           kindLabel(derr.Code()),
		Message:        derr.Error(),
		Details:        derr.Details(),
	}
}

func errorKind(err error) string {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return "internal"
	}
	return kindLabel(derr.Code())
}

func kindLabel(code error) string {
	switch {
	case errors.Is(code, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(code, domain.ErrTopologyUnreachable):
		return "topology_unreachable"
	case errors.Is(code, domain.ErrChannelAssignment):
		return "channel_assignment"
	case errors.Is(code, domain.ErrInternalInvariant):
		return "internal_invariant"
	case errors.Is(code, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func statusForKind(code error) int {
	switch {
	case errors.Is(code, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(code, domain.ErrTopologyUnreachable):
		return http.StatusUnprocessableEntity
	case errors.Is(code, domain.ErrChannelAssignment):
		return http.StatusUnprocessableEntity
	case errors.Is(code, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(code, domain.ErrInternalInvariant):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf(e.Translate(trans)))
	}
	return errs
}
