// Package app runs the sample-encode-render loop. The loop owns no business
// state: each tick builds a fresh TimeSample, encodes four throwaway marker
// patterns and hands them to the renderer. Only the schedule itself (the
// last-rendered tick) persists between ticks.
package app

import (
	"github.com/rs/zerolog"

	"camsync/clock"
	"camsync/hal"
	"camsync/internal/journal"
	"camsync/marker"
	"camsync/render"
)

// Config controls one board instance.
type Config struct {
	// CadenceMillis is the render cadence. 1000 gives a second-granularity
	// display; 10 is sub-frame for high-speed cameras.
	CadenceMillis int
	Layout        render.Layout
	Clock         clock.Clock
	Journal       *journal.Journal
	Log           zerolog.Logger
}

type board struct {
	cfg Config
	h   hal.HAL
	b   *render.Board

	now           uint64
	lastRender    uint64
	rendered      bool
	lastJournaled int
	forced        bool
}

// New wires a board against h and returns the per-tick step function the
// window or headless runner invokes. Steps run strictly one at a time.
func New(h hal.HAL, cfg Config) func() error {
	if cfg.CadenceMillis <= 0 {
		cfg.CadenceMillis = 1000
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System
	}

	fb := h.Display().Framebuffer()
	bd := &board{
		cfg:           cfg,
		h:             h,
		b:             render.New(fb, cfg.Layout),
		lastJournaled: -1,
	}

	cfg.Log.Info().
		Int("cadence_ms", cfg.CadenceMillis).
		Int("width", fb.Width()).
		Int("height", fb.Height()).
		Bool("journal", cfg.Journal != nil).
		Msg("marker board up")

	return bd.step
}

func (b *board) step() error {
	if err := b.handleKeys(); err != nil {
		return err
	}

	if now, any := b.drainTicks(); any {
		b.now = now
	} else if !b.forced {
		return nil
	}

	due := !b.rendered || b.now-b.lastRender >= uint64(b.cfg.CadenceMillis)
	if !due && !b.forced {
		return nil
	}
	b.forced = false
	b.rendered = true
	b.lastRender = b.now

	return b.renderOnce()
}

// renderOnce runs one full sample-encode-render pass.
func (b *board) renderOnce() error {
	s := clock.Sample(b.cfg.Clock.Now())

	m, overflow := encodeSample(s)
	if overflow {
		b.cfg.Log.Warn().
			Int("day", s.DayOfYear).Int("hour", s.Hour).
			Int("minute", s.Minute).Int("second", s.Second).
			Msg("marker value exceeds 25 bits, truncated")
	}

	if err := b.b.Draw(s, m); err != nil {
		return err
	}

	if b.cfg.Journal != nil && s.Second != b.lastJournaled {
		b.lastJournaled = s.Second
		if err := b.cfg.Journal.Append(s); err != nil {
			// The display is the product; journal failures are logged, not fatal.
			b.cfg.Log.Error().Err(err).Msg("journal append failed")
		}
	}
	return nil
}

// encodeSample encodes the four time fields independently, as four separate
// markers. The overflow flag is diagnostic only; the truncated patterns are
// rendered regardless.
func encodeSample(s clock.TimeSample) (render.MarkerSet, bool) {
	var m render.MarkerSet
	var overflow bool

	for i, v := range [...]uint32{
		render.TileDay:    uint32(s.DayOfYear),
		render.TileHour:   uint32(s.Hour),
		render.TileMinute: uint32(s.Minute),
		render.TileSecond: uint32(s.Second),
	} {
		p, over := marker.EncodeChecked(v)
		m[i] = p
		overflow = overflow || over
	}
	return m, overflow
}

// handleKeys drains pending key events. Enter or Space forces an immediate
// out-of-cadence render; Escape shuts the board down.
func (b *board) handleKeys() error {
	kbd := b.h.Input().Keyboard()
	if kbd == nil {
		return nil
	}
	ch := kbd.Events()
	if ch == nil {
		return nil
	}
	for {
		select {
		case ev := <-ch:
			if !ev.Press {
				continue
			}
			switch ev.Code {
			case hal.KeyEnter, hal.KeySpace:
				b.forced = true
				b.cfg.Log.Debug().Msg("manual sync render")
			case hal.KeyEscape:
				return hal.ErrShutdown
			}
		default:
			return nil
		}
	}
}

// drainTicks consumes all pending base ticks and keeps only the newest.
// Ticks are never queued for catch-up; a tick the host skipped is gone.
func (b *board) drainTicks() (now uint64, any bool) {
	t := b.h.Time()
	if t == nil {
		return 0, false
	}
	ch := t.Ticks()
	if ch == nil {
		return 0, false
	}
	for {
		select {
		case seq := <-ch:
			now = seq
			any = true
		default:
			return now, any
		}
	}
}
