// mkmarker encodes values into markers offline: an ANSI preview on the
// terminal and optionally a PNG for print or test targets.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	fcolor "github.com/fatih/color"

	"camsync/clock"
	"camsync/marker"
)

func main() {
	var (
		value   int64
		nowFlag bool
		pngPath string
		cell    int
	)
	flag.Int64Var(&value, "value", -1, "Value to encode (0..33554431; larger values truncate).")
	flag.BoolVar(&nowFlag, "now", false, "Encode the current time's four fields instead of -value.")
	flag.StringVar(&pngPath, "png", "", "Also write the marker as a PNG to this path (single value only).")
	flag.IntVar(&cell, "cell", 57, "PNG pixels per marker module.")
	flag.Parse()

	if err := run(value, nowFlag, pngPath, cell); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(value int64, nowFlag bool, pngPath string, cell int) error {
	if nowFlag {
		s := clock.Sample(time.Now())
		fields := []struct {
			name string
			v    uint32
		}{
			{"day", uint32(s.DayOfYear)},
			{"hour", uint32(s.Hour)},
			{"minute", uint32(s.Minute)},
			{"second", uint32(s.Second)},
		}
		fmt.Printf("Unix: %d\n\n", s.EpochMillis)
		for _, f := range fields {
			fmt.Printf("%s = %d\n", f.name, f.v)
			preview(marker.Encode(f.v))
			fmt.Println()
		}
		return nil
	}

	if value < 0 {
		return fmt.Errorf("pass -value N or -now")
	}

	p, overflow := marker.EncodeChecked(uint32(value))
	if overflow {
		fmt.Fprintf(os.Stderr, "warning: %d exceeds %d, high bits truncated\n", value, marker.MaxValue)
	}
	fmt.Printf("value = %d (decodes back to %d)\n", value, marker.Decode(p))
	preview(p)

	if pngPath != "" {
		if cell <= 0 {
			return fmt.Errorf("invalid -cell %d", cell)
		}
		if err := writePNG(pngPath, p, cell); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

// preview prints the marker as colored half-width blocks, two characters per
// cell, with a one-cell white quiet zone.
func preview(p marker.Pattern) {
	black := fcolor.New(fcolor.BgBlack)
	white := fcolor.New(fcolor.BgWhite)

	blank := func() {
		for i := 0; i < marker.GridSize+2; i++ {
			white.Print("  ")
		}
		fmt.Println()
	}

	blank()
	for row := 0; row < marker.GridSize; row++ {
		white.Print("  ")
		for col := 0; col < marker.GridSize; col++ {
			if p[row][col] {
				black.Print("  ")
			} else {
				white.Print("  ")
			}
		}
		white.Print("  ")
		fmt.Println()
	}
	blank()
}

// writePNG renders p at cell pixels per module with a one-cell quiet zone.
func writePNG(path string, p marker.Pattern, cell int) error {
	size := (marker.GridSize + 2) * cell
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}

	for row := 0; row < marker.GridSize; row++ {
		for col := 0; col < marker.GridSize; col++ {
			if !p[row][col] {
				continue
			}
			x0 := (col + 1) * cell
			y0 := (row + 1) * cell
			for y := y0; y < y0+cell; y++ {
				for x := x0; x < x0+cell; x++ {
					img.SetGray(x, y, color.Gray{Y: 0})
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
