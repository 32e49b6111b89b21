package query

import (
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/span"
)

// piece is one top-level pattern and its offset in the enclosing text.
type piece struct {
	offset int
	text   string
}

// Lint compiles each top-level pattern of text on its own so that a file
// with several mistakes reports all of them. Offsets in the returned
// diagnostics are relative to text. A nil result means text compiles.
func Lint(r parser.Resolver, l lang.Language, text string) ([]*Diagnostic, error) {
	ok, err := Validate(r, l, text)
	if ok {
		return nil, nil
	}
	if _, isDiag := err.(*Diagnostic); !isDiag {
		return nil, err
	}

	src := []byte(text)
	var diags []*Diagnostic
	for _, p := range splitPatterns(text) {
		_, err := Validate(r, l, p.text)
		d, isDiag := err.(*Diagnostic)
		if !isDiag {
			continue
		}
		d.Offset += uint(p.offset)
		pt := span.PointAt(src, int(d.Offset))
		d.Row, d.Column = pt.Row, pt.Column
		diags = append(diags, d)
	}
	if len(diags) == 0 {
		// The pieces compile alone but not together.
		diags = append(diags, err.(*Diagnostic))
	}
	return diags, nil
}

// splitPatterns cuts text at each bracket or string that opens at nesting
// depth zero. Captures and quantifiers after a closing bracket stay with
// the pattern they follow. Comments and string contents are skipped.
func splitPatterns(text string) []piece {
	var (
		out   []piece
		start = -1
		depth int
	)
	flush := func(end int) {
		if start >= 0 {
			out = append(out, piece{offset: start, text: text[start:end]})
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		case c == '"':
			if depth == 0 {
				flush(i)
				start = i
			}
			for i++; i < len(text) && text[i] != '"'; i++ {
				if text[i] == '\\' {
					i++
				}
			}
			continue
		case c == '(' || c == '[':
			if depth == 0 {
				flush(i)
				start = i
			}
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		}
		if start < 0 && !isSpace(c) {
			start = i
		}
	}
	flush(len(text))
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
