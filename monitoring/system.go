package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/progress"
)

const defaultStateDepth = 4

var errNoState = errors.New("no state recorded")

// stateRoot returns what /api/state/{lab} serializes for a lab kind.
func (m *Monitor) stateRoot(kind lab.Kind) (any, error) {
	switch kind {
	case lab.Concurrency:
		snap := m.bench.Concurrency.Snapshot()
		return &snap, nil
	case lab.Shell:
		snap := m.bench.Shell.Snapshot()
		return &snap, nil
	case lab.CPU, lab.Memory, lab.Deadlock:
		r, ok := m.lastResult(kind)
		if !ok {
			return nil, fmt.Errorf("%w for lab %s", errNoState, kind)
		}

		return pointerTo(r), nil
	default:
		return nil, fmt.Errorf("unknown lab %q", kind)
	}
}

// pointerTo copies v into a new value and returns a pointer to it.
func pointerTo(v any) any {
	rv := reflect.ValueOf(v)
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)

	return p.Interface()
}

// labState serializes live lab state. The optional "field" query parameter
// is a dot-separated path into the state and "depth" limits nesting.
func (m *Monitor) labState(w http.ResponseWriter, r *http.Request) {
	kind := lab.Kind(mux.Vars(r)["lab"])

	root, err := m.stateRoot(kind)
	if err != nil {
		m.writeError(w, http.StatusNotFound, err)
		return
	}

	depth := defaultStateDepth
	if d := r.URL.Query().Get("depth"); d != "" {
		depth, err = strconv.Atoi(d)
		if err != nil || depth < 1 {
			m.writeError(w, http.StatusBadRequest,
				fmt.Errorf("%w: invalid depth %q", errBadRequest, d))
			return
		}
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(root)
	serializer.SetMaxDepth(depth)

	if field := r.URL.Query().Get("field"); field != "" {
		err = serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			m.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) userProgress(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]

	if m.tracker == nil {
		m.writeJSON(w, http.StatusOK, progress.NewStats(user))
		return
	}

	stats, err := m.tracker.Stats(r.Context(), user)
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	m.writeJSON(w, http.StatusOK, stats)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	m.writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		m.writeError(w, http.StatusConflict, err)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := json.Marshal(prof)
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}
