// Package span holds the byte/point coordinates shared by every layer of the
// module. Rows and columns are zero-based; columns count bytes, not runes.
package span

import "fmt"

// Point is a row/column position in a source buffer.
type Point struct {
	Row    uint `json:"row"`
	Column uint `json:"column"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Range is a half-open byte range with its matching points.
type Range struct {
	StartByte  uint  `json:"start_byte"`
	EndByte    uint  `json:"end_byte"`
	StartPoint Point `json:"start_point"`
	EndPoint   Point `json:"end_point"`
}

// Lines returns the number of line breaks the range spans.
func (r Range) Lines() uint {
	if r.EndPoint.Row < r.StartPoint.Row {
		return 0
	}
	return r.EndPoint.Row - r.StartPoint.Row
}

// Len returns the byte length of the range.
func (r Range) Len() uint {
	if r.EndByte < r.StartByte {
		return 0
	}
	return r.EndByte - r.StartByte
}

// Contains reports whether byte offset b falls inside the range.
func (r Range) Contains(b uint) bool {
	return b >= r.StartByte && b < r.EndByte
}

// Advance returns the point reached after scanning text from p. A '\n'
// moves to the start of the next row; any other byte advances the column.
func Advance(p Point, text []byte) Point {
	for _, c := range text {
		if c == '\n' {
			p.Row++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}

// PointAt returns the point of byteOffset in source. Offsets past the end
// clamp to the end of the buffer.
func PointAt(source []byte, byteOffset int) Point {
	if byteOffset > len(source) {
		byteOffset = len(source)
	}
	if byteOffset < 0 {
		byteOffset = 0
	}
	return Advance(Point{}, source[:byteOffset])
}

// OffsetAt returns the byte offset of p in source. A column past the end of
// its row clamps to the row's line break; a row past the end clamps to len(source).
func OffsetAt(source []byte, p Point) int {
	var row uint
	i := 0
	for row < p.Row {
		if i >= len(source) {
			return len(source)
		}
		if source[i] == '\n' {
			row++
		}
		i++
	}
	for col := uint(0); col < p.Column; col++ {
		if i >= len(source) || source[i] == '\n' {
			break
		}
		i++
	}
	return i
}
