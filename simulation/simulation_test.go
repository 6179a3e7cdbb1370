package simulation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/datarecording"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/progress"
)

var _ = Describe("Simulation", func() {
	var (
		dbPath string
		logger *slog.Logger
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "sim")
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	schedule := func(s *Simulation) {
		_, err := s.Bench().CPU.Recompute(s.Context(context.Background()),
			lab.CPUState{
				Processes: []cpu.Process{{ID: 1, BurstTime: 3}},
				Policy:    cpu.FCFS{},
			})
		Expect(err).NotTo(HaveOccurred())
	}

	It("should reject a monitor port without monitoring", func() {
		Expect(func() {
			_, _ = MakeBuilder().WithoutMonitoring().WithMonitorPort(8080).Build()
		}).To(Panic())
	})

	It("should track progress of the configured user", func() {
		s, err := MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(dbPath).
			WithUser("alice").
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		schedule(s)
		schedule(s)

		stats, err := s.Stats(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Tasks).To(Equal(2))
		Expect(stats.Mastery[lab.CPU]).To(Equal(2 * progress.MasteryPerSync))
	})

	It("should not track anonymous work", func() {
		s, err := MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(dbPath).
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		schedule(s)

		_, err = s.Stats(context.Background())
		Expect(err).To(MatchError(progress.ErrNoUser))
	})

	It("should persist progress across runs", func() {
		s, err := MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(dbPath).
			WithUser("alice").
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())

		schedule(s)
		s.Terminate()
		s.Terminate()

		db, err := datarecording.Open(dbPath)
		Expect(err).NotTo(HaveOccurred())
		recorder := datarecording.NewWithDB(db)
		defer recorder.Close()

		tracker, err := progress.NewSQLiteTracker(
			recorder, datarecording.NewReaderWithDB(db))
		Expect(err).NotTo(HaveOccurred())

		stats, err := tracker.Stats(context.Background(), "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Tasks).To(Equal(1))

		reader := datarecording.NewReaderWithDB(db)
		Expect(reader.MapTable("exec_info", datarecording.SessionInfo{})).
			To(Succeed())
		_, sessions, err := reader.Query(context.Background(), "exec_info",
			datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(Equal(4))
	})

	It("should stop tracking once terminated", func() {
		s, err := MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(dbPath).
			WithUser("alice").
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())

		hooks := s.Bench().NumHooks()
		schedule(s)
		s.Terminate()

		Expect(s.Bench().NumHooks()).To(Equal(hooks - 1))
		schedule(s)

		db, err := datarecording.Open(dbPath)
		Expect(err).NotTo(HaveOccurred())
		recorder := datarecording.NewWithDB(db)
		defer recorder.Close()

		tracker, err := progress.NewSQLiteTracker(
			recorder, datarecording.NewReaderWithDB(db))
		Expect(err).NotTo(HaveOccurred())

		stats, err := tracker.Stats(context.Background(), "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Tasks).To(Equal(1))
	})

	It("should run without recording", func() {
		s, err := MakeBuilder().
			WithoutMonitoring().
			WithoutRecording().
			WithUser("alice").
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		schedule(s)

		Expect(s.GetDataRecorder()).To(BeNil())
		_, err = s.Stats(context.Background())
		Expect(err).To(MatchError(ErrNoTracker))
	})

	It("should serve the labs", func() {
		s, err := MakeBuilder().
			WithOutputFileName(dbPath).
			WithLogger(logger).
			Build()
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		Expect(s.MonitorURL()).To(HavePrefix("http://localhost:"))

		rsp, err := http.Get(s.MonitorURL() + "/api/labs")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})
