// Package cli provides the interactive runner for the drive host.
// It polls the keyboard for sound commands and runs the machine in a window.
package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emubridge "github.com/user-none/emfx/bridge/ebiten"
	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
	"github.com/user-none/emfx/ui"
)

// ADT buffer thresholds in bytes.
const (
	adtMinBuffer = 9600
	adtMaxBuffer = 19200
)

// Runner drives a machine in command-line mode.
// The machine runs on a dedicated goroutine with audio-driven timing and is
// touched by no other goroutine. The Ebiten thread polls keys into a
// command queue and draws from the shared status.
type Runner struct {
	machine     *drive.Machine
	audioPlayer *ui.AudioPlayer
	view        *emubridge.StatusView

	// ADT goroutine control
	emuControl     *ui.EmuControl
	sharedCommands *ui.SharedCommands
	sharedStatus   *ui.SharedStatus
	emuDone        chan struct{}

	// Owned by the emulation goroutine
	saved    []byte
	commands []ui.Command
	frame    uint64
}

// NewRunner creates a new Runner wrapping the given machine.
// Audio initialization failure is non-fatal; the runner will work without sound.
func NewRunner(m *drive.Machine, volume float64) *Runner {
	player, err := ui.NewAudioPlayer(m.GetTiming().SampleRate, volume)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	r := &Runner{
		machine:        m,
		audioPlayer:    player,
		view:           emubridge.NewStatusView(),
		emuControl:     ui.NewEmuControl(),
		sharedCommands: &ui.SharedCommands{},
		sharedStatus:   &ui.SharedStatus{},
		emuDone:        make(chan struct{}),
	}
	if !m.SoundsEnabled() {
		r.sharedStatus.SetMessage("drive sounds unavailable")
	}

	go r.emulationLoop()

	return r
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}

	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// emulationLoop runs on a dedicated goroutine with ADT.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.machine.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()

	for {
		if !r.emuControl.CheckPause() {
			return
		}

		r.applyCommands()

		r.machine.RunFrame()
		r.frame++

		samples := r.machine.GetAudioSamples()
		if r.audioPlayer != nil {
			r.audioPlayer.QueueSamples(samples)
		}
		r.publishStatus(samples)

		// ADT sleep
		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed

		if r.audioPlayer != nil {
			bufferLevel := r.audioPlayer.GetBufferLevel()
			if bufferLevel < adtMinBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 0.9)
			} else if bufferLevel > adtMaxBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 1.1)
			}
		}

		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// applyCommands executes queued key commands against the machine.
func (r *Runner) applyCommands() {
	r.commands = r.sharedCommands.Drain(r.commands[:0])
	for _, c := range r.commands {
		switch c.Kind {
		case ui.CmdSet:
			r.machine.SetCommand(c.Slot, c.State)
		case ui.CmdToggle:
			r.machine.ToggleCommand(c.Slot, c.State)
		case ui.CmdStopAll:
			r.machine.StopAll()
		case ui.CmdSaveState:
			data, err := r.machine.Serialize()
			if err != nil {
				log.Printf("Warning: save state failed: %v", err)
				r.sharedStatus.SetMessage("save failed")
				continue
			}
			r.saved = data
			r.sharedStatus.SetMessage(fmt.Sprintf("state saved at frame %d", r.frame))
		case ui.CmdLoadState:
			if r.saved == nil {
				r.sharedStatus.SetMessage("no saved state")
				continue
			}
			if err := r.machine.Deserialize(r.saved); err != nil {
				log.Printf("Warning: load state failed: %v", err)
				r.sharedStatus.SetMessage("load failed")
				continue
			}
			if r.audioPlayer != nil {
				r.audioPlayer.Flush()
			}
			r.sharedStatus.SetMessage("state loaded")
		}
	}
}

func (r *Runner) publishStatus(samples []int16) {
	left, right := ui.Peaks(samples)
	r.sharedStatus.Update(ui.Status{
		Frame:         r.frame,
		MotorOn:       r.machine.MotorOn(),
		SoundsEnabled: r.machine.SoundsEnabled(),
		Clips:         r.machine.Status(),
		PeakLeft:      left,
		PeakRight:     right,
	})
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	r.pollKeys()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.view.Draw(screen, r.sharedStatus.Read(), r.emuControl.IsPaused())
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.view.Layout(outsideWidth, outsideHeight)
}

// pollKeys turns key presses into commands for the emulation goroutine.
func (r *Runner) pollKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.emuControl.TogglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdToggle, Slot: fx.SlotMotor, State: fx.PlayingLooped})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdSet, Slot: fx.SlotSeek, State: fx.PlayingOnce})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdToggle, Slot: fx.SlotRead, State: fx.PlayingLooped})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdStopAll})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdSaveState})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		r.sharedCommands.Push(ui.Command{Kind: ui.CmdLoadState})
	}
}
