// Package controller implements NES controller (gamepad) emulation: an
// 8-bit parallel-load shift register read serially through CPU registers
// $4016 (controller 1) and $4017 (controller 2).
package controller

// Button is a single bit position in the packed button mask, matching the
// real controller's A/B/Select/Start/Up/Down/Left/Right wiring order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller holds one pad's live button mask plus the shift register and
// strobe state $4016/$4017 reads drain.
type Controller struct {
	buttons uint8 // live button mask; bit set = pressed

	strobe bool  // true while $4016 bit 0 is held high
	shift  uint8 // latched snapshot of buttons, shifted out one bit per read
}

// NewController creates a controller with no buttons held.
func NewController() *Controller {
	return &Controller{}
}

// SetButton sets or clears one button in the live mask.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// IsPressed reports whether a button is currently held in the live mask.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a CPU write to $4016. While the strobe bit stays high the
// shift register continuously reloads from the live button mask; the
// falling edge freezes whatever it last loaded for the read sequence.
func (c *Controller) Write(value uint8) {
	c.strobe = value&0x01 != 0
	if c.strobe {
		c.shift = c.buttons
	}
}

// Read shifts out the next button bit (A first, then B, Select, Start, Up,
// Down, Left, Right), returning 1 for every read past the eighth, per the
// real 4021 shift register's open input line.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}

	value := c.shift & 0x01
	c.shift = c.shift>>1 | 0x80
	return value
}

// Reset clears strobe and shift state. Live button presses persist across
// a reset, matching a physical pad staying plugged in.
func (c *Controller) Reset() {
	c.strobe = false
	c.shift = c.buttons
}
