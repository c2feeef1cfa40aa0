package hal

// WindowConfig controls the desktop window runner. It lives outside the
// cgo-gated files so no-window builds still see it through the RunWindow
// stub signature.
type WindowConfig struct {
	Width      int
	Height     int
	Scale      int
	Fullscreen bool
}
