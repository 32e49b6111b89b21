// Package input presents source text to the engine's pull-based reader.
//
// The engine addresses its input by absolute byte offset with a 32-bit
// width. A Source answers "what bytes start at offset N" without requiring
// the text to be contiguous in memory.
package input

import (
	"math"

	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// MaxLen is the largest source the engine can address.
const MaxLen = math.MaxUint32

// Source is text addressable by byte offset.
type Source interface {
	// Len returns the total length in bytes.
	Len() int
	// Read returns the bytes from offset to the end of the contiguous run
	// that contains it. ok is false at or past Len.
	Read(offset int) (chunk []byte, ok bool)
	// Slice returns bytes [start, end). The result may alias the source.
	Slice(start, end int) []byte
}

// Bytes is a contiguous Source.
type Bytes []byte

// FromBytes checks that b fits the engine's addressing width.
func FromBytes(b []byte) (Bytes, error) {
	if uint64(len(b)) > MaxLen {
		return nil, syntaxerr.Inputf("source is %d bytes, limit is %d", len(b), uint64(MaxLen))
	}
	return Bytes(b), nil
}

func (b Bytes) Len() int { return len(b) }

func (b Bytes) Read(offset int) ([]byte, bool) {
	if offset < 0 || offset >= len(b) {
		return nil, false
	}
	return b[offset:], true
}

func (b Bytes) Slice(start, end int) []byte {
	return b[start:end]
}

// Contiguous returns src as one buffer, copying only when src is chunked.
func Contiguous(src Source) []byte {
	switch s := src.(type) {
	case Bytes:
		return s
	case *Chunks:
		return s.Bytes()
	}
	return src.Slice(0, src.Len())
}
