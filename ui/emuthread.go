package ui

import (
	"sync"

	"github.com/user-none/emfx/fx"
)

// CommandKind identifies a request queued for the emulation goroutine.
type CommandKind int

const (
	// CmdSet sets one sound's play state.
	CmdSet CommandKind = iota
	// CmdToggle switches a sound between Off and its default mode.
	CmdToggle
	// CmdStopAll silences every sound.
	CmdStopAll
	// CmdSaveState snapshots the machine.
	CmdSaveState
	// CmdLoadState restores the last snapshot.
	CmdLoadState
)

// Command is a single request from the Ebiten thread.
type Command struct {
	Kind  CommandKind
	Slot  fx.Slot
	State fx.State
}

// SharedCommands queues commands written by the Ebiten thread and drained
// by the emulation goroutine between frames. The machine itself is only
// ever touched by the emulation goroutine.
type SharedCommands struct {
	mu      sync.Mutex
	pending []Command
}

// Push queues a command.
func (sc *SharedCommands) Push(c Command) {
	sc.mu.Lock()
	sc.pending = append(sc.pending, c)
	sc.mu.Unlock()
}

// Drain appends all queued commands to dst in arrival order and empties
// the queue.
func (sc *SharedCommands) Drain(dst []Command) []Command {
	sc.mu.Lock()
	dst = append(dst, sc.pending...)
	sc.pending = sc.pending[:0]
	sc.mu.Unlock()
	return dst
}

// Status is a snapshot of the machine published once per frame.
type Status struct {
	Frame         uint64
	MotorOn       bool
	SoundsEnabled bool
	Clips         [fx.NumSlots]fx.ClipStatus
	// Peak absolute sample of the last frame, per channel
	PeakLeft  int
	PeakRight int
	Message   string
}

// SharedStatus holds the status written by the emulation goroutine and
// read by Ebiten's Draw() method.
type SharedStatus struct {
	mu     sync.Mutex
	status Status
}

// Update publishes a new snapshot. An empty message keeps the previous one.
func (ss *SharedStatus) Update(s Status) {
	ss.mu.Lock()
	if s.Message == "" {
		s.Message = ss.status.Message
	}
	ss.status = s
	ss.mu.Unlock()
}

// SetMessage replaces the status line message.
func (ss *SharedStatus) SetMessage(msg string) {
	ss.mu.Lock()
	ss.status.Message = msg
	ss.mu.Unlock()
}

// Read returns a copy of the current snapshot.
func (ss *SharedStatus) Read() Status {
	ss.mu.Lock()
	s := ss.status
	ss.mu.Unlock()
	return s
}

// Peaks returns the peak absolute value of the left and right channels of
// an interleaved stereo frame.
func Peaks(samples []int16) (left, right int) {
	for i := 0; i+1 < len(samples); i += 2 {
		if v := abs16(samples[i]); v > left {
			left = v
		}
		if v := abs16(samples[i+1]); v > right {
			right = v
		}
	}
	return left, right
}

func abs16(v int16) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}

// EmuControl manages pause/resume/stop coordination between
// the Ebiten thread and the emulation goroutine.
type EmuControl struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pauseReq bool
	paused   bool
	stopReq  bool
}

// NewEmuControl creates a new emulation control.
func NewEmuControl() *EmuControl {
	ec := &EmuControl{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// RequestPause asks the emulation goroutine to pause and blocks until it
// acknowledges the pause or stops.
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if ec.stopReq {
		return
	}
	ec.pauseReq = true
	for !ec.paused && !ec.stopReq {
		ec.cond.Wait()
	}
}

// RequestResume tells the emulation goroutine to resume.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.cond.Broadcast()
	ec.mu.Unlock()
}

// CheckPause is called by the emulation goroutine between frames.
// If a pause has been requested, it acknowledges and blocks until resumed
// or stopped. Returns false if the goroutine should exit.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.pauseReq && !ec.stopReq {
		ec.paused = true
		ec.cond.Broadcast()
		for ec.pauseReq && !ec.stopReq {
			ec.cond.Wait()
		}
		ec.paused = false
	}
	return !ec.stopReq
}

// Stop signals the emulation goroutine to exit.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.stopReq = true
	ec.pauseReq = false
	ec.cond.Broadcast()
	ec.mu.Unlock()
}

// ShouldRun returns true if the goroutine should continue running.
func (ec *EmuControl) ShouldRun() bool {
	ec.mu.Lock()
	r := !ec.stopReq
	ec.mu.Unlock()
	return r
}

// IsPaused returns true if the emulation goroutine is currently paused.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	p := ec.paused
	ec.mu.Unlock()
	return p
}

// TogglePause pauses a running goroutine or resumes a paused one.
func (ec *EmuControl) TogglePause() {
	ec.mu.Lock()
	req := ec.pauseReq
	ec.mu.Unlock()
	if req {
		ec.RequestResume()
		return
	}
	ec.RequestPause()
}
