// Package edit builds the descriptors that let a previous syntax tree seed
// an incremental reparse.
//
// All offsets are UTF-8 byte offsets and all columns are byte columns. Mixing
// in rune or UTF-16 offsets will not be detected and corrupts node boundaries
// downstream.
package edit

import (
	"fmt"

	"github.com/DeusData/syntaxcore/internal/span"
)

// Position is a location addressed both ways.
type Position struct {
	Byte  uint       `json:"byte"`
	Point span.Point `json:"point"`
}

// Descriptor describes one text change in old and new coordinates.
type Descriptor struct {
	StartByte   uint       `json:"start_byte"`
	OldEndByte  uint       `json:"old_end_byte"`
	NewEndByte  uint       `json:"new_end_byte"`
	StartPoint  span.Point `json:"start_point"`
	OldEndPoint span.Point `json:"old_end_point"`
	NewEndPoint span.Point `json:"new_end_point"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("edit[%d..%d -> %d | %s..%s -> %s]",
		d.StartByte, d.OldEndByte, d.NewEndByte, d.StartPoint, d.OldEndPoint, d.NewEndPoint)
}

// Insert describes inserting text at a position.
func Insert(at Position, text []byte) Descriptor {
	return Descriptor{
		StartByte:   at.Byte,
		OldEndByte:  at.Byte,
		NewEndByte:  at.Byte + uint(len(text)),
		StartPoint:  at.Point,
		OldEndPoint: at.Point,
		NewEndPoint: span.Advance(at.Point, text),
	}
}

// InsertAt is Insert with the position spelled out.
func InsertAt(row, col, startByte uint, text []byte) Descriptor {
	return Insert(Position{Byte: startByte, Point: span.Point{Row: row, Column: col}}, text)
}

// Delete describes removing the range [start, end). The caller supplies the
// old range; nothing here inspects a tree to find it.
func Delete(startPoint, endPoint span.Point, startByte, oldEndByte uint) Descriptor {
	return Descriptor{
		StartByte:   startByte,
		OldEndByte:  oldEndByte,
		NewEndByte:  startByte,
		StartPoint:  startPoint,
		OldEndPoint: endPoint,
		NewEndPoint: startPoint,
	}
}

// Replace describes replacing [start, oldEnd) with text.
func Replace(start, oldEnd Position, text []byte) Descriptor {
	return Descriptor{
		StartByte:   start.Byte,
		OldEndByte:  oldEnd.Byte,
		NewEndByte:  start.Byte + uint(len(text)),
		StartPoint:  start.Point,
		OldEndPoint: oldEnd.Point,
		NewEndPoint: span.Advance(start.Point, text),
	}
}

// Inverse returns the descriptor that undoes d, given the text d removed.
func (d Descriptor) Inverse(removed []byte) Descriptor {
	return Descriptor{
		StartByte:   d.StartByte,
		OldEndByte:  d.NewEndByte,
		NewEndByte:  d.StartByte + uint(len(removed)),
		StartPoint:  d.StartPoint,
		OldEndPoint: d.NewEndPoint,
		NewEndPoint: span.Advance(d.StartPoint, removed),
	}
}

// Splice applies d to source, returning a new buffer. text must be the
// replacement the descriptor was built from.
func (d Descriptor) Splice(source, text []byte) ([]byte, error) {
	if d.StartByte > d.OldEndByte || d.OldEndByte > uint(len(source)) {
		return nil, fmt.Errorf("splice %s: old range outside %d-byte source", d, len(source))
	}
	if d.NewEndByte-d.StartByte != uint(len(text)) {
		return nil, fmt.Errorf("splice %s: replacement is %d bytes", d, len(text))
	}
	out := make([]byte, 0, len(source)-int(d.OldEndByte-d.StartByte)+len(text))
	out = append(out, source[:d.StartByte]...)
	out = append(out, text...)
	out = append(out, source[d.OldEndByte:]...)
	return out, nil
}

// Removed returns the bytes of source that d replaces.
func (d Descriptor) Removed(source []byte) []byte {
	if d.OldEndByte > uint(len(source)) || d.StartByte > d.OldEndByte {
		return nil
	}
	return source[d.StartByte:d.OldEndByte]
}

// Locate converts a row/column in source to a Position.
func Locate(source []byte, p span.Point) Position {
	off := span.OffsetAt(source, p)
	return Position{Byte: uint(off), Point: span.PointAt(source, off)}
}
