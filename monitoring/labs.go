package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/concurrency"
	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/paging"
	"github.com/sarchlab/oslab/shell"
)

var errBadRequest = errors.New("malformed request")

type errorRsp struct {
	Error string `json:"error"`
}

func (m *Monitor) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("failed to write response", "err", err)
	}
}

func (m *Monitor) writeError(w http.ResponseWriter, status int, err error) {
	m.logger.Debug("request rejected", "status", status, "err", err)
	m.writeJSON(w, status, errorRsp{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	return nil
}

func (m *Monitor) userContext(r *http.Request) context.Context {
	user := r.Header.Get(UserHeader)
	if user == "" {
		user = m.defaultUser
	}

	return lab.WithUser(r.Context(), user)
}

type labInfo struct {
	Kind     lab.Kind `json:"kind"`
	Policies []string `json:"policies,omitempty"`
}

func (m *Monitor) listLabs(w http.ResponseWriter, _ *http.Request) {
	pagePolicies := make([]string, 0, len(paging.Policies()))
	for _, p := range paging.Policies() {
		pagePolicies = append(pagePolicies, p.String())
	}

	m.writeJSON(w, http.StatusOK, []labInfo{
		{Kind: lab.CPU, Policies: []string{"FCFS", "SJF", "SRTF", "Priority", "RR"}},
		{Kind: lab.Memory, Policies: pagePolicies},
		{Kind: lab.Deadlock},
		{Kind: lab.Concurrency},
		{Kind: lab.Shell, Policies: shell.Commands()},
	})
}

type scheduleReq struct {
	Processes []cpu.Process `json:"processes"`
	Policy    string        `json:"policy"`
	Quantum   int           `json:"quantum"`
}

func (m *Monitor) schedule(w http.ResponseWriter, r *http.Request) {
	req := scheduleReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	policy, err := cpu.ParsePolicy(req.Policy, req.Quantum)
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	rsp, err := m.bench.CPU.Recompute(m.userContext(r), lab.CPUState{
		Processes: req.Processes,
		Policy:    policy,
	})
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

type memoryReq struct {
	References json.RawMessage `json:"references"`
	Frames     int             `json:"frames"`
	Policy     string          `json:"policy"`
}

// references accepts either a JSON array or a comma-separated string.
func (req memoryReq) references() ([]int, error) {
	raw := bytes.TrimSpace(req.References)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []int{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}

		return paging.ParseReferences(s)
	}

	var refs []int
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	return refs, nil
}

func (m *Monitor) simulateMemory(w http.ResponseWriter, r *http.Request) {
	req := memoryReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	refs, err := req.references()
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	policy, err := paging.ParsePolicy(req.Policy)
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	rsp, err := m.bench.Memory.Recompute(m.userContext(r), lab.MemoryState{
		References: refs,
		Frames:     req.Frames,
		Policy:     policy,
	})
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) compareMemory(w http.ResponseWriter, r *http.Request) {
	req := memoryReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	refs, err := req.references()
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	summaries, err := paging.Compare(refs, req.Frames)
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	rsp := make(map[string]paging.Summary, len(summaries))
	for p, s := range summaries {
		rsp[p.String()] = s
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

type bankerReq struct {
	Total     banker.Vector  `json:"total"`
	Processes []banker.Claim `json:"processes"`
	Process   int            `json:"process"`
	Request   banker.Vector  `json:"request"`
}

func (req bankerReq) state() lab.DeadlockState {
	return lab.DeadlockState{Total: req.Total, Claims: req.Processes}
}

func (m *Monitor) checkSafety(w http.ResponseWriter, r *http.Request) {
	req := bankerReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	rsp, err := m.bench.Deadlock.Recompute(m.userContext(r), req.state())
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) requestResources(w http.ResponseWriter, r *http.Request) {
	req := bankerReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	rsp, err := m.bench.Deadlock.Request(
		m.userContext(r), req.state(), req.Process, req.Request)
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

type shellReq struct {
	Input string `json:"input"`
}

func (m *Monitor) execShell(w http.ResponseWriter, r *http.Request) {
	req := shellReq{}
	if err := decode(r, &req); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}

	lines := m.bench.Shell.Execute(req.Input)
	if lines == nil {
		lines = []shell.Line{}
	}

	m.writeJSON(w, http.StatusOK, lines)
}

func (m *Monitor) shellHistory(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, http.StatusOK, m.bench.Shell.History())
}

func (m *Monitor) produce(w http.ResponseWriter, r *http.Request) {
	snap, err := m.bench.Concurrency.Produce(m.userContext(r))
	if err != nil {
		m.writeError(w, http.StatusConflict, err)
		return
	}

	m.writeJSON(w, http.StatusOK, snap)
}

func (m *Monitor) consume(w http.ResponseWriter, r *http.Request) {
	snap, err := m.bench.Concurrency.Consume(m.userContext(r))
	if err != nil {
		m.writeError(w, http.StatusConflict, err)
		return
	}

	m.writeJSON(w, http.StatusOK, snap)
}

func (m *Monitor) stepBuffer(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, http.StatusOK, m.bench.Concurrency.StepBuffer())
}

type philosophersRsp struct {
	Transitions []concurrency.Transition `json:"transitions"`
	State       lab.ConcurrencySnapshot  `json:"state"`
}

func (m *Monitor) stepPhilosophers(w http.ResponseWriter, _ *http.Request) {
	transitions, snap := m.bench.Concurrency.StepPhilosophers()
	if transitions == nil {
		transitions = []concurrency.Transition{}
	}

	m.writeJSON(w, http.StatusOK, philosophersRsp{
		Transitions: transitions,
		State:       snap,
	})
}
