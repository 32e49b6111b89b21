package parser

import (
	"errors"

	"github.com/DeusData/syntaxcore/internal/edit"
	"github.com/DeusData/syntaxcore/internal/input"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/span"
)

var errReleased = errors.New("lease already released")

// Lease is exclusive ownership of one pooled parser. Release transfers the
// parser back to its pool and leaves the lease empty. A Lease must not be
// copied: a copy would release the same parser twice. Share the pointer.
type Lease struct {
	noCopy noCopy
	pool   *Pool
	h      *Handle
}

// noCopy lets go vet's copylocks check flag copies of the struct holding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Language returns the language the leased parser is bound to.
func (l *Lease) Language() lang.Language {
	if l.h == nil {
		return ""
	}
	return l.h.lang
}

// Parse parses a contiguous buffer. previous may be nil.
func (l *Lease) Parse(source []byte, previous *Tree) (*Tree, error) {
	src, err := input.FromBytes(source)
	if err != nil {
		return nil, err
	}
	return l.ParseInput(src, previous)
}

// ParseChunked parses an ordered list of non-contiguous buffers as one document.
func (l *Lease) ParseChunked(chunks [][]byte, previous *Tree) (*Tree, error) {
	src, err := input.Build(chunks)
	if err != nil {
		return nil, err
	}
	return l.ParseInput(src, previous)
}

// ParseInput parses any Source.
func (l *Lease) ParseInput(src input.Source, previous *Tree) (*Tree, error) {
	if l.h == nil {
		return nil, errReleased
	}
	return l.h.parse(src, previous)
}

// Reparse applies d to a clone of previous and parses src, the text after
// the edit, reusing the unchanged parts of previous. It also returns the
// ranges whose syntax changed. previous is left as it was.
func (l *Lease) Reparse(previous *Tree, d edit.Descriptor, src input.Source) (*Tree, []span.Range, error) {
	edited := previous.Edit(d)
	defer edited.Close()
	tree, err := l.ParseInput(src, edited)
	if err != nil {
		return nil, nil, err
	}
	return tree, edited.ChangedRanges(tree), nil
}

// Release returns the parser to the pool. Calling it again is a no-op.
func (l *Lease) Release() {
	h := l.h
	l.h = nil
	if h != nil {
		l.pool.release(h)
	}
}
