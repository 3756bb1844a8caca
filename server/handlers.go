package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"
	"github.com/inference-sim/cpusched/store"
)

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	storeState := "disabled"
	if s.store != nil {
		storeState = "enabled"
	}
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeState,
	})
}

type policyInfo struct {
	Choice     int    `json:"choice"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Dispatch   string `json:"dispatch"`
	Preemptive bool   `json:"preemptive"`
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	out := make([]policyInfo, 0, len(sim.PolicyNames))
	for i, name := range sim.PolicyNames {
		p, err := sim.NewPolicy(name, sim.DefaultQuantum)
		if err != nil {
			respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
			return
		}
		out = append(out, policyInfo{
			Choice:     i + 1,
			Name:       p.Name,
			Title:      p.Title,
			Dispatch:   p.Dispatch.String(),
			Preemptive: p.Preemptive(),
		})
	}
	respondOK(w, reqID, out)
}

// simulateRequest is the body of POST /simulate and POST /compare.
// The process set fields are inlined: either processes or generator (+seed).
type simulateRequest struct {
	Policy   string   `json:"policy,omitempty"`
	Policies []string `json:"policies,omitempty"` // compare only; empty means all
	Quantum  int      `json:"quantum,omitempty"`
	MaxTicks int64    `json:"max_ticks,omitempty"`
	Label    string   `json:"label,omitempty"`
	workload.ProcessSetSpec
}

type simulateResponse struct {
	RunID  string              `json:"run_id,omitempty"`
	Result *report.RunDocument `json:"result"`
}

type compareResponse struct {
	Best    string                `json:"best"`
	RunIDs  []string              `json:"run_ids,omitempty"`
	Results []*report.RunDocument `json:"results"`
}

// decodeRequest parses the body strictly and builds its process set.
// Writes the error response itself and returns ok=false on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*simulateRequest, *sim.ProcessSet, sim.EngineConfig, bool) {
	reqID := RequestIDFromContext(r.Context())
	cfg := s.engine

	var req simulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "Invalid JSON body: " + err.Error()})
		return nil, nil, cfg, false
	}
	set, err := req.ProcessSetSpec.Build()
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: err.Error()})
		return nil, nil, cfg, false
	}
	if req.Quantum != 0 {
		cfg.Quantum = req.Quantum
	}
	if req.MaxTicks != 0 {
		cfg.MaxTicks = req.MaxTicks
	}
	return &req, set, cfg, true
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	req, set, cfg, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := sim.Simulate(set, req.Policy, cfg)
	if err != nil {
		s.respondSimError(w, reqID, err)
		return
	}

	resp := simulateResponse{Result: report.NewRunDocument(res)}
	if s.store != nil {
		run := store.NewRun(set, res, req.Label)
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
			return
		}
		resp.RunID = run.ID
	}
	respondOK(w, reqID, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	req, set, cfg, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	names := req.Policies
	if len(names) == 0 {
		names = sim.PolicyNames
	}
	results, err := sim.Compare(set, names, cfg)
	if err != nil {
		s.respondSimError(w, reqID, err)
		return
	}

	resp := compareResponse{Best: sim.Best(results).Policy.Name}
	for _, res := range results {
		resp.Results = append(resp.Results, report.NewRunDocument(res))
		if s.store == nil {
			continue
		}
		run := store.NewRun(set, res, req.Label)
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
			return
		}
		resp.RunIDs = append(resp.RunIDs, run.ID)
	}
	respondOK(w, reqID, resp)
}

// respondSimError maps input errors to 400 and everything else to 500.
func (s *Server) respondSimError(w http.ResponseWriter, reqID string, err error) {
	for _, target := range []error{sim.ErrInvalidProcess, sim.ErrDuplicatePID, sim.ErrEmptyProcessSet, sim.ErrUnknownPolicy, sim.ErrInvalidQuantum} {
		if errors.Is(err, target) {
			respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: err.Error()})
			return
		}
	}
	s.logger.WithField("request_id", reqID).WithError(err).Error("simulation failed")
	respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
}

func (s *Server) requireStore(w http.ResponseWriter, reqID string) bool {
	if s.store == nil {
		respondError(w, reqID, http.StatusServiceUnavailable, &APIError{Code: ErrUnavailable, Message: "run history is not enabled"})
		return false
	}
	return true
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if !s.requireStore(w, reqID) {
		return
	}

	opts := store.ListOptions{Policy: r.URL.Query().Get("policy")}
	for key, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: key + " must be an integer"})
			return
		}
		*dst = v
	}
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	respondList(w, reqID, runs, &Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(runs) < total,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if !s.requireStore(w, reqID) {
		return
	}
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, reqID, http.StatusNotFound, &APIError{Code: ErrNotFound, Message: "run '" + id + "' not found"})
		return
	}
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
		return
	}
	respondOK(w, reqID, run)
}
