// Package marker encodes integers into fixed-size optical markers.
//
// A marker is a 7x7 grid of black and white cells. The outer ring is always
// black so camera-side detectors can find the frame; the inner 5x5 area
// carries a 25-bit payload, most-significant bit first, row-major. The bit
// layout is a wire format shared with external optical decoders and must not
// change.
package marker

const (
	// GridSize is the full marker width and height in cells.
	GridSize = 7
	// InnerSize is the width and height of the payload area in cells.
	InnerSize = 5
	// PayloadBits is the marker capacity in bits.
	PayloadBits = InnerSize * InnerSize
	// MaxValue is the largest value a marker can carry without truncation.
	MaxValue = 1<<PayloadBits - 1
)

// Pattern is one marker. true cells render black, false cells render white.
// Row index first, column second.
type Pattern [GridSize][GridSize]bool

// Encode builds the marker for v. Values above MaxValue are truncated to
// their low 25 bits; the truncation is deterministic and part of the wire
// format, so Encode(1<<25) equals Encode(0).
func Encode(v uint32) Pattern {
	p, _ := EncodeChecked(v)
	return p
}

// EncodeChecked is Encode plus an overflow report. overflow is true when v
// does not fit in 25 bits; the returned pattern is the truncated encoding
// either way, so the visual output never depends on the flag.
func EncodeChecked(v uint32) (p Pattern, overflow bool) {
	overflow = v > MaxValue

	for i := 0; i < GridSize; i++ {
		p[0][i] = true
		p[GridSize-1][i] = true
		p[i][0] = true
		p[i][GridSize-1] = true
	}

	for bit := 0; bit < PayloadBits; bit++ {
		row := 1 + bit/InnerSize
		col := 1 + bit%InnerSize
		p[row][col] = v&(1<<(PayloadBits-1-bit)) != 0
	}
	return p, overflow
}

// Decode reads the payload bits back out of p, MSB first, row-major. It is
// the inverse of Encode for all values in [0, MaxValue]. Border cells are
// ignored.
func Decode(p Pattern) uint32 {
	var v uint32
	for bit := 0; bit < PayloadBits; bit++ {
		row := 1 + bit/InnerSize
		col := 1 + bit%InnerSize
		v <<= 1
		if p[row][col] {
			v |= 1
		}
	}
	return v
}

// BorderOK reports whether every cell of the outer ring is black. Encode
// always produces a valid border; this exists for checking patterns that
// arrived from elsewhere.
func BorderOK(p Pattern) bool {
	for i := 0; i < GridSize; i++ {
		if !p[0][i] || !p[GridSize-1][i] || !p[i][0] || !p[i][GridSize-1] {
			return false
		}
	}
	return true
}

// String renders p as GridSize text lines, '#' for black and '.' for white.
func (p Pattern) String() string {
	buf := make([]byte, 0, GridSize*(GridSize+1))
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if p[row][col] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
