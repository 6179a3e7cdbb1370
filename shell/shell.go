// Package shell is a toy command interpreter that fakes a handful of system
// calls against an in-memory process table.
package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt precedes every echoed command.
const Prompt = "root@vlab:~# "

// InitPID is the pid of the first process and the parent of every fork.
const InitPID = 101

// LineKind tells echoed input from command output.
type LineKind string

// Line kinds.
const (
	LineInput  LineKind = "input"
	LineOutput LineKind = "output"
)

// A Line is one row of the terminal.
type Line struct {
	Kind    LineKind `json:"kind"`
	Content string   `json:"content"`
}

// A Proc is an entry of the process table.
type Proc struct {
	PID  int    `json:"pid"`
	PPID int    `json:"ppid"`
	Name string `json:"name"`
}

// Rand picks pid increments. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type command func(s *Shell) []Line

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":   (*Shell).help,
		"ls":     (*Shell).ls,
		"whoami": (*Shell).whoami,
		"ps":     (*Shell).ps,
		"fork":   (*Shell).fork,
	}
}

// Shell holds the terminal history and the process table.
type Shell struct {
	History []Line `json:"history"`
	Procs   []Proc `json:"procs"`

	rng Rand
}

// New creates a shell with a banner and a lone init process.
func New(rng Rand) *Shell {
	return &Shell{
		History: []Line{
			output("vlab shell [version 1.0]"),
			output(`Type "help" to see available system calls.`),
		},
		Procs: []Proc{{PID: InitPID, PPID: 0, Name: "init"}},
		rng:   rng,
	}
}

// Execute runs one command line and returns the lines it added to the
// history. Commands are case-insensitive. "clear" empties the history and
// returns nothing.
func (s *Shell) Execute(input string) []Line {
	cmd := strings.ToLower(strings.TrimSpace(input))

	if cmd == "clear" {
		s.History = nil
		return nil
	}

	lines := []Line{{Kind: LineInput, Content: Prompt + input}}

	if cmd != "" {
		if c, ok := commands[cmd]; ok {
			lines = append(lines, c(s)...)
		} else {
			lines = append(lines, output("sh: command not found: "+cmd))
		}
	}

	s.History = append(s.History, lines...)

	return lines
}

// Commands lists the supported command names.
func Commands() []string {
	names := []string{"clear"}
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (s *Shell) help() []Line {
	return []Line{output("Available: " + strings.Join(Commands(), ", "))}
}

func (s *Shell) ls() []Line {
	return []Line{output("bin/  boot/  dev/  etc/  home/  proc/  root/")}
}

func (s *Shell) whoami() []Line {
	return []Line{output("root (system administrator)")}
}

func (s *Shell) ps() []Line {
	lines := []Line{output("PID\tPPID\tCMD")}
	for _, p := range s.Procs {
		lines = append(lines, output(fmt.Sprintf("%d\t%d\t%s", p.PID, p.PPID, p.Name)))
	}

	return lines
}

// fork adds a child of init whose pid is 1 to 10 above the newest pid.
func (s *Shell) fork() []Line {
	last := s.Procs[len(s.Procs)-1].PID
	pid := last + s.rng.IntN(10) + 1

	s.Procs = append(s.Procs, Proc{PID: pid, PPID: InitPID, Name: "child_proc"})

	return []Line{output(fmt.Sprintf(
		"[SYSCALL] fork() successful. New child PID: %d", pid))}
}

func output(content string) Line {
	return Line{Kind: LineOutput, Content: content}
}
