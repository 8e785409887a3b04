package drive

import "github.com/user-none/emfx/fx"

// Floppy controller command codes (low five bits of the command byte).
const (
	fdcReadTrack       = 0x02
	fdcReadData        = 0x06
	fdcRecalibrate     = 0x07
	fdcSenseInterrupt  = 0x08
	fdcReadDeletedData = 0x0C
	fdcSeek            = 0x0F

	fdcCommandMask = 0x1F
)

// Main status register bits returned on the command port.
const (
	fdcStatusBusy  = 0x10
	fdcStatusReady = 0x80
)

// Drive translates motor latch and controller command writes into sound
// effect commands. Head noises only play while the motor is running.
type Drive struct {
	sounds  *fx.Store
	motor   bool
	reading bool
	lastCmd uint8
}

// NewDrive creates a drive that plays its noises through sounds.
func NewDrive(sounds *fx.Store) *Drive {
	return &Drive{sounds: sounds}
}

// WriteMotor handles a write to the motor latch. Bit 0 switches the
// spindle motor.
func (d *Drive) WriteMotor(val uint8) {
	on := val&0x01 != 0
	if on == d.motor {
		return
	}
	d.motor = on
	if on {
		d.sounds.SetCommand(fx.SlotMotor, fx.PlayingLooped)
		return
	}
	d.reading = false
	d.sounds.SetCommand(fx.SlotMotor, fx.Off)
	d.sounds.SetCommand(fx.SlotRead, fx.Off)
}

// WriteCommand handles a command byte written to the controller.
func (d *Drive) WriteCommand(cmd uint8) {
	d.lastCmd = cmd

	switch cmd & fdcCommandMask {
	case fdcSeek, fdcRecalibrate:
		d.stopReading()
		if d.motor {
			d.sounds.SetCommand(fx.SlotSeek, fx.PlayingOnce)
		}
	case fdcReadData, fdcReadDeletedData, fdcReadTrack:
		if d.motor {
			d.reading = true
			d.sounds.SetCommand(fx.SlotRead, fx.PlayingLooped)
		}
	default:
		d.stopReading()
	}
}

func (d *Drive) stopReading() {
	if !d.reading {
		return
	}
	d.reading = false
	d.sounds.SetCommand(fx.SlotRead, fx.Off)
}

// Status returns the main status register.
func (d *Drive) Status() uint8 {
	st := uint8(fdcStatusReady)
	if d.reading {
		st |= fdcStatusBusy
	}
	return st
}

// MotorLatch returns the value read back from the motor latch.
func (d *Drive) MotorLatch() uint8 {
	if d.motor {
		return 0x01
	}
	return 0x00
}

// MotorOn reports whether the spindle motor is running.
func (d *Drive) MotorOn() bool { return d.motor }

// Reading reports whether a read command is in progress.
func (d *Drive) Reading() bool { return d.reading }
