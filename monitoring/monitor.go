// Package monitoring serves the labs over HTTP. Besides the lab API it
// exposes the state of the running process: resource usage, a short CPU
// profile and serialized lab state.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/monitoring/web"
	"github.com/sarchlab/oslab/progress"
	"github.com/sarchlab/oslab/sim"
)

// UserHeader identifies the user a request is attributed to.
const UserHeader = "X-User-ID"

// Monitor turns a lab bench into a web server.
type Monitor struct {
	bench       *lab.Bench
	tracker     progress.Tracker
	defaultUser string
	portNumber  int
	logger      *slog.Logger

	profileDuration time.Duration

	lastLock sync.Mutex
	last     map[lab.Kind]any

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		logger:          slog.Default(),
		profileDuration: time.Second,
		last:            make(map[lab.Kind]any),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber <= 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger.
func (m *Monitor) WithLogger(logger *slog.Logger) *Monitor {
	m.logger = logger
	return m
}

// WithDefaultUser attributes requests without a user header to userID.
func (m *Monitor) WithDefaultUser(userID string) *Monitor {
	m.defaultUser = userID
	return m
}

// RegisterBench sets the labs served by the monitor. The monitor hooks
// itself onto the bench to remember the latest result of each lab.
func (m *Monitor) RegisterBench(b *lab.Bench) {
	m.bench = b
	b.AcceptHook(m)
}

// RegisterTracker enables the progress endpoint.
func (m *Monitor) RegisterTracker(t progress.Tracker) {
	m.tracker = t
}

// Func records the latest completion of each lab.
func (m *Monitor) Func(ctx sim.HookCtx) {
	if ctx.Pos != lab.HookPosTaskCompleted {
		return
	}

	c, ok := ctx.Item.(lab.Completion)
	if !ok {
		return
	}

	m.lastLock.Lock()
	m.last[c.Kind] = c.Result
	m.lastLock.Unlock()
}

func (m *Monitor) lastResult(kind lab.Kind) (any, bool) {
	m.lastLock.Lock()
	defer m.lastLock.Unlock()

	r, ok := m.last[kind]

	return r, ok
}

// Router builds the HTTP routes.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/labs", m.listLabs).Methods(http.MethodGet)
	api.HandleFunc("/cpu/schedule", m.schedule).Methods(http.MethodPost)
	api.HandleFunc("/memory/simulate", m.simulateMemory).Methods(http.MethodPost)
	api.HandleFunc("/memory/compare", m.compareMemory).Methods(http.MethodPost)
	api.HandleFunc("/banker/check", m.checkSafety).Methods(http.MethodPost)
	api.HandleFunc("/banker/request", m.requestResources).Methods(http.MethodPost)
	api.HandleFunc("/shell/exec", m.execShell).Methods(http.MethodPost)
	api.HandleFunc("/shell/history", m.shellHistory).Methods(http.MethodGet)
	api.HandleFunc("/concurrency/produce", m.produce).Methods(http.MethodPost)
	api.HandleFunc("/concurrency/consume", m.consume).Methods(http.MethodPost)
	api.HandleFunc("/concurrency/step", m.stepBuffer).Methods(http.MethodPost)
	api.HandleFunc("/concurrency/philosophers/step", m.stepPhilosophers).
		Methods(http.MethodPost)
	api.HandleFunc("/state/{lab}", m.labState).Methods(http.MethodGet)
	api.HandleFunc("/progress/{user}", m.userProgress).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring labs with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url, nil
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
