package datarecording

import (
	"os"
	"strings"
	"time"
)

const (
	sessionTable = "exec_info"
	timeLayout   = "2006-01-02 15:04:05.000000000"
)

// SessionInfo is one property of a recorded program run.
type SessionInfo struct {
	Property string
	Value    string
}

// SessionRecorder records when and how the program was run.
type SessionRecorder struct {
	recorder DataRecorder
	entries  []SessionInfo
}

// NewSessionRecorder creates the session table on recorder.
func NewSessionRecorder(recorder DataRecorder) (*SessionRecorder, error) {
	if err := recorder.CreateTable(sessionTable, SessionInfo{}); err != nil {
		return nil, err
	}

	return &SessionRecorder{recorder: recorder}, nil
}

// Start notes the start time, the command line and the working directory.
func (e *SessionRecorder) Start() {
	e.entries = append(e.entries,
		SessionInfo{"Start Time", time.Now().Format(timeLayout)},
		SessionInfo{"Command", strings.Join(os.Args, " ")},
	)

	if cwd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, SessionInfo{"Working Directory", cwd})
	}
}

// End writes the session along with the exit time.
func (e *SessionRecorder) End() error {
	for _, entry := range e.entries {
		if err := e.recorder.InsertData(sessionTable, entry); err != nil {
			return err
		}
	}

	e.entries = nil

	end := SessionInfo{"End Time", time.Now().Format(timeLayout)}
	if err := e.recorder.InsertData(sessionTable, end); err != nil {
		return err
	}

	return e.recorder.Flush()
}
