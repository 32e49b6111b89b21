package input

import (
	"iter"
	"sort"
	"sync"

	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// Chunks is an ordered list of non-contiguous buffers read as one stream.
// The buffers are borrowed; callers must not modify them while the Chunks
// (or any tree parsed from it) is in use.
type Chunks struct {
	bufs   [][]byte
	starts []int // starts[i] is the absolute offset of bufs[i]; strictly increasing
	total  int

	flatOnce sync.Once
	flat     []byte
}

// Build indexes chunks. Zero-length chunks are dropped so that they never
// own an offset and a read at a boundary lands on the next chunk's start.
func Build(chunks [][]byte) (*Chunks, error) {
	c := &Chunks{}
	var total uint64
	for _, b := range chunks {
		if len(b) == 0 {
			continue
		}
		if total+uint64(len(b)) > MaxLen {
			return nil, syntaxerr.Inputf("chunked source exceeds %d bytes", uint64(MaxLen))
		}
		c.bufs = append(c.bufs, b)
		c.starts = append(c.starts, int(total))
		total += uint64(len(b))
	}
	c.total = int(total)
	return c, nil
}

// BuildStrings is Build for string chunks.
func BuildStrings(chunks ...string) (*Chunks, error) {
	bufs := make([][]byte, len(chunks))
	for i, s := range chunks {
		bufs[i] = []byte(s)
	}
	return Build(bufs)
}

func (c *Chunks) Len() int { return c.total }

// Count returns the number of non-empty chunks.
func (c *Chunks) Count() int { return len(c.bufs) }

// locate returns the index of the chunk covering offset, or -1.
func (c *Chunks) locate(offset int) int {
	if offset < 0 || offset >= c.total {
		return -1
	}
	// first chunk starting after offset, minus one
	return sort.Search(len(c.starts), func(i int) bool { return c.starts[i] > offset }) - 1
}

// Read returns the remainder of the chunk covering offset.
func (c *Chunks) Read(offset int) ([]byte, bool) {
	i := c.locate(offset)
	if i < 0 {
		return nil, false
	}
	return c.bufs[i][offset-c.starts[i]:], true
}

// Slice copies bytes [start, end) out of the chunks. It only allocates when
// the range crosses a chunk boundary.
func (c *Chunks) Slice(start, end int) []byte {
	if start >= end {
		return nil
	}
	first, ok := c.Read(start)
	if !ok {
		return nil
	}
	if len(first) >= end-start {
		return first[:end-start]
	}
	out := make([]byte, 0, end-start)
	for off := start; off < end; {
		b, ok := c.Read(off)
		if !ok {
			break
		}
		if len(b) > end-off {
			b = b[:end-off]
		}
		out = append(out, b...)
		off += len(b)
	}
	return out
}

// Bytes returns the concatenated text. It is built once and cached.
func (c *Chunks) Bytes() []byte {
	c.flatOnce.Do(func() {
		c.flat = make([]byte, 0, c.total)
		for _, b := range c.bufs {
			c.flat = append(c.flat, b...)
		}
	})
	return c.flat
}

// All yields each non-empty chunk with its absolute start offset.
func (c *Chunks) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i, b := range c.bufs {
			if !yield(c.starts[i], b) {
				return
			}
		}
	}
}

// Cursor returns a pull cursor positioned at offset.
func (c *Chunks) Cursor(offset int) *Cursor {
	return &Cursor{src: c, off: offset}
}

// Cursor pulls successive runs of bytes from a Source.
type Cursor struct {
	src Source
	off int
}

// Offset returns the absolute offset of the next read.
func (cur *Cursor) Offset() int { return cur.off }

// Next returns the next run and advances past it. ok is false at end of input.
func (cur *Cursor) Next() ([]byte, bool) {
	b, ok := cur.src.Read(cur.off)
	if !ok {
		return nil, false
	}
	cur.off += len(b)
	return b, true
}
