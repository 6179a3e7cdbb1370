package simulation

import (
	"log/slog"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/oslab/datarecording"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/monitoring"
	"github.com/sarchlab/oslab/progress"
	"github.com/sarchlab/oslab/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	userID         string
	seed           uint64
	logger         *slog.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
		seed:        1,
	}
}

// WithoutMonitoring sets the simulation to not start the lab server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording disables the database, which also disables progress
// tracking.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the database path, without the .sqlite3
// extension.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithUser attributes lab work done through the simulation to userID.
func (b Builder) WithUser(userID string) Builder {
	b.userID = userID
	return b
}

// WithSeed sets the seed of the interactive labs.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation. The simulation terminates itself when the
// program exits through atexit.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:     sim.NewUniqueIDGenerator().Generate(),
		userID: b.userID,
		logger: b.logger,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.bench = lab.NewBench(b.seed)
	s.bench.AcceptHook(sim.NewLogHook(s.logger))

	if b.recordingOn {
		if err := s.setupRecording(b.outputFileName); err != nil {
			return nil, err
		}
	} else if b.userID != "" {
		s.logger.Warn("recording disabled, progress will not be saved",
			"user", b.userID)
	}

	if b.monitorOn {
		if err := s.startMonitor(b.monitorPort); err != nil {
			s.Terminate()
			return nil, err
		}
	}

	atexit.Register(s.Terminate)

	return s, nil
}

func (s *Simulation) setupRecording(path string) error {
	if path == "" {
		path = "oslab_" + s.id
	}

	db, err := datarecording.Open(path)
	if err != nil {
		return err
	}

	s.dataRecorder = datarecording.NewWithDB(db)

	s.session, err = datarecording.NewSessionRecorder(s.dataRecorder)
	if err != nil {
		s.dataRecorder.Close()
		return err
	}

	s.session.Start()

	tracker, err := progress.NewSQLiteTracker(
		s.dataRecorder, datarecording.NewReaderWithDB(db))
	if err != nil {
		s.dataRecorder.Close()
		return err
	}

	s.tracker = tracker
	s.notifier = progress.NewNotifier(tracker, s.logger)
	s.bench.AcceptHook(s.notifier)

	s.logger.Debug("recording enabled", "db", path+".sqlite3")

	return nil
}

func (s *Simulation) startMonitor(port int) error {
	s.monitor = monitoring.NewMonitor().
		WithLogger(s.logger).
		WithDefaultUser(s.userID)
	if port > 0 {
		s.monitor.WithPortNumber(port)
	}

	s.monitor.RegisterBench(s.bench)

	if s.tracker != nil {
		s.monitor.RegisterTracker(s.tracker)
	}

	url, err := s.monitor.StartServer()
	if err != nil {
		return err
	}

	s.monitorURL = url

	return nil
}
