package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"camsync/hal"
	"camsync/internal/journal"
	"camsync/marker"
	"camsync/render"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time { return c.at }

type fakeKeyboard struct {
	ch chan hal.KeyEvent
}

func (k *fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeTime struct {
	ch chan uint64
}

func (t *fakeTime) Ticks() <-chan uint64 { return t.ch }

type fakeHAL struct {
	fb  hal.Framebuffer
	kbd *fakeKeyboard
	t   *fakeTime
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		fb:  hal.NewFramebuffer(w, h),
		kbd: &fakeKeyboard{ch: make(chan hal.KeyEvent, 16)},
		t:   &fakeTime{ch: make(chan uint64, 1024)},
	}
}

func (f *fakeHAL) Display() hal.Display { return f }
func (f *fakeHAL) Input() hal.Input     { return f }
func (f *fakeHAL) Time() hal.Time       { return f.t }

func (f *fakeHAL) Framebuffer() hal.Framebuffer { return f.fb }
func (f *fakeHAL) Keyboard() hal.Keyboard       { return f.kbd }

func testBoard(t *testing.T, cadence int, j *journal.Journal) (*fakeHAL, *fakeClock, func() error) {
	t.Helper()
	lay := render.Layout{Cell: 8, Margin: 16}
	h := newFakeHAL(lay.Width(), lay.Height())
	c := &fakeClock{at: time.Date(2025, time.August, 15, 14, 3, 9, 0, time.UTC)}
	step := New(h, Config{
		CadenceMillis: cadence,
		Layout:        lay,
		Clock:         c,
		Journal:       j,
		Log:           zerolog.Nop(),
	})
	return h, c, step
}

func pixelAt(fb hal.Framebuffer, x, y int) uint16 {
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

// cellPixel reads the center pixel of one cell of one tile.
func cellPixel(fb hal.Framebuffer, lay render.Layout, tile, row, col int) uint16 {
	x0, y0 := lay.TileOrigin(tile)
	return pixelAt(fb, x0+col*lay.Cell+lay.Cell/2, y0+row*lay.Cell+lay.Cell/2)
}

func TestFirstTickRendersSample(t *testing.T) {
	lay := render.Layout{Cell: 8, Margin: 16}
	h, _, step := testBoard(t, 1000, nil)

	h.t.ch <- 1
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}

	// 14:03:09 on day 227: each tile shows the independent encoding of its
	// field.
	fields := map[int]uint32{
		render.TileDay:    227,
		render.TileHour:   14,
		render.TileMinute: 3,
		render.TileSecond: 9,
	}
	for tile, v := range fields {
		p := marker.Encode(v)
		for row := 0; row < marker.GridSize; row++ {
			for col := 0; col < marker.GridSize; col++ {
				want := uint16(0xFFFF)
				if p[row][col] {
					want = 0x0000
				}
				if got := cellPixel(h.fb, lay, tile, row, col); got != want {
					t.Fatalf("tile %s cell (%d,%d) = %#04x, want %#04x",
						render.Labels[tile], row, col, got, want)
				}
			}
		}
	}
}

func TestStepWithoutTickDoesNothing(t *testing.T) {
	h, _, step := testBoard(t, 1000, nil)

	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}

	// No tick ever arrived, so the framebuffer is still all zero.
	for _, b := range h.fb.Buffer() {
		if b != 0 {
			t.Fatalf("framebuffer painted without a tick")
		}
	}
}

func TestCadenceHoldsBetweenRenders(t *testing.T) {
	h, c, step := testBoard(t, 100, nil)

	h.t.ch <- 5
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	first := append([]byte(nil), h.fb.Buffer()...)

	// Clock moves but the cadence has not elapsed: no repaint.
	c.at = c.at.Add(30 * time.Second)
	h.t.ch <- 50
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	if !bytes.Equal(first, h.fb.Buffer()) {
		t.Fatalf("board repainted before the cadence elapsed")
	}

	// Cadence elapsed: repaint with the new sample.
	h.t.ch <- 105
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	if bytes.Equal(first, h.fb.Buffer()) {
		t.Fatalf("board did not repaint after the cadence elapsed")
	}
}

func TestSkippedTicksAreDropped(t *testing.T) {
	h, _, step := testBoard(t, 100, nil)

	// A burst of stale ticks followed by the newest one: exactly one render
	// happens, at the newest tick, with no catch-up backlog.
	for seq := uint64(1); seq <= 500; seq += 50 {
		h.t.ch <- seq
	}
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	first := append([]byte(nil), h.fb.Buffer()...)

	// The very next tick is within the cadence window measured from the
	// newest drained tick (451), not from any of the dropped ones.
	h.t.ch <- 460
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	if !bytes.Equal(first, h.fb.Buffer()) {
		t.Fatalf("dropped ticks were replayed")
	}
}

func TestManualSyncForcesRender(t *testing.T) {
	h, c, step := testBoard(t, 100000, nil)

	h.t.ch <- 1
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	first := append([]byte(nil), h.fb.Buffer()...)

	// Enter forces a repaint even though the cadence is nowhere near due
	// and no new tick arrived.
	c.at = c.at.Add(time.Second)
	h.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	if bytes.Equal(first, h.fb.Buffer()) {
		t.Fatalf("manual sync did not repaint")
	}
}

func TestKeyReleaseIsIgnored(t *testing.T) {
	h, _, step := testBoard(t, 100000, nil)

	h.t.ch <- 1
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	first := append([]byte(nil), h.fb.Buffer()...)

	h.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: false}
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	if !bytes.Equal(first, h.fb.Buffer()) {
		t.Fatalf("key release triggered a render")
	}
}

func TestEscapeShutsDown(t *testing.T) {
	h, _, step := testBoard(t, 1000, nil)

	h.kbd.ch <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	if err := step(); !errors.Is(err, hal.ErrShutdown) {
		t.Fatalf("step() error = %v, want ErrShutdown", err)
	}
}

func TestJournalOncePerSecond(t *testing.T) {
	j, err := journal.Open(":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer j.Close()

	h, c, step := testBoard(t, 10, j)

	// Two renders inside the same displayed second journal once.
	h.t.ch <- 1
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	h.t.ch <- 20
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}

	n, err := j.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("journal rows = %d, want 1", n)
	}

	// The second rolls over: one more row.
	c.at = c.at.Add(time.Second)
	h.t.ch <- 40
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	n, err = j.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("journal rows = %d, want 2", n)
	}
}
