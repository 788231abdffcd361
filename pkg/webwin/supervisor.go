package webwin

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/webdisplay/internal/errors"
	"github.com/vango-dev/webdisplay/internal/platform"
)

// pidTagPrefix marks launch tags of directly spawned clients.
const pidTagPrefix = "pid:"

// PIDTag returns the launch tag recorded for a spawned process.
func PIDTag(pid int) string {
	return pidTagPrefix + strconv.Itoa(pid)
}

// ParsePIDTag extracts the process id from a launch tag. Tags of other
// launch modes and malformed or non-positive ids report false.
func ParsePIDTag(tag string) (int, bool) {
	rest, ok := strings.CutPrefix(tag, pidTagPrefix)
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(rest)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Supervisor spawns display clients and kills them on request. A
// process id is signalled at most once, whoever spawned it.
type Supervisor struct {
	platform platform.Platform
	logger   *slog.Logger
	metrics  *Metrics

	mu     sync.Mutex
	pids   map[int]string
	halted map[int]struct{}
}

// NewSupervisor returns a supervisor using p. logger and metrics may be nil.
func NewSupervisor(p platform.Platform, logger *slog.Logger, metrics *Metrics) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		platform: p,
		logger:   logger.With("component", "supervisor"),
		metrics:  metrics,
		pids:     make(map[int]string),
		halted:   make(map[int]struct{}),
	}
}

// Spawn starts program with argv and tracks the child.
func (s *Supervisor) Spawn(program string, argv []string) (int, error) {
	if program == "" {
		return 0, errors.New(errors.CodeSpawnFailed).WithDetail("no program to spawn")
	}

	pid, err := s.platform.Spawn(program, argv)
	if err != nil {
		return 0, errors.New(errors.CodeSpawnFailed).WithDetailf("spawn %s", program).Wrap(err)
	}

	s.mu.Lock()
	s.pids[pid] = program
	delete(s.halted, pid)
	s.mu.Unlock()

	s.metrics.processSpawned()
	s.logger.Info("spawned display client", "pid", pid, "program", program)
	return pid, nil
}

// Halt kills the process named by a "pid:<n>" tag, spawned here or not.
// Other tags and ids already halted are ignored. Kill errors are logged
// and absorbed.
func (s *Supervisor) Halt(tag string) {
	pid, ok := ParsePIDTag(tag)
	if !ok {
		return
	}

	s.mu.Lock()
	_, done := s.halted[pid]
	s.halted[pid] = struct{}{}
	delete(s.pids, pid)
	s.mu.Unlock()

	if done {
		return
	}
	s.kill(pid)
}

// HaltAll kills every tracked process.
func (s *Supervisor) HaltAll() {
	s.mu.Lock()
	pids := make([]int, 0, len(s.pids))
	for pid := range s.pids {
		pids = append(pids, pid)
		s.halted[pid] = struct{}{}
	}
	s.pids = make(map[int]string)
	s.mu.Unlock()

	sort.Ints(pids)
	for _, pid := range pids {
		s.kill(pid)
	}
}

// Tracked returns the ids of spawned processes not yet halted.
func (s *Supervisor) Tracked() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pids := make([]int, 0, len(s.pids))
	for pid := range s.pids {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

func (s *Supervisor) kill(pid int) {
	if err := s.platform.Kill(pid); err != nil {
		s.logger.Debug("kill display client", "pid", pid, "error", err)
		return
	}
	s.metrics.processHalted()
	s.logger.Info("halted display client", "pid", pid)
}
