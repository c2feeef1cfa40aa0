// Package hal owns the platform surface of the marker board: the pixel
// framebuffer the renderer paints into, the base tick stream that drives the
// sampling cadence, and keyboard input for the manual affordances.
package hal

import "errors"

// ErrShutdown is returned by an app step to request a clean exit.
var ErrShutdown = errors.New("shutdown requested")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeySpace
	KeyEscape
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer.
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices.
type Input interface {
	Keyboard() Keyboard
}

// Time provides a base 1ms tick stream.
//
// Ticks the consumer does not drain in time are dropped, never queued; the
// board renders whatever the current tick is and carries no backlog.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the contact point between the board logic and the host platform.
type HAL interface {
	Display() Display
	Input() Input
	Time() Time
}
