package query

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/span"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// Kind classifies a pattern compilation failure.
type Kind int

const (
	KindPatternSyntax Kind = iota
	KindUnknownNodeType
	KindUnknownField
	KindUnknownCapture
	KindStructural
	KindLanguageMismatch
)

var kindNames = [...]string{
	KindPatternSyntax:    "pattern-syntax",
	KindUnknownNodeType:  "unknown-node-type",
	KindUnknownField:     "unknown-field",
	KindUnknownCapture:   "unknown-capture",
	KindStructural:       "structural",
	KindLanguageMismatch: "language-mismatch",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText lets diagnostics serialize their kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic describes why a pattern failed to compile. Offset is a byte
// offset into the pattern text; Row and Column are zero-based.
type Diagnostic struct {
	Language lang.Language `json:"language"`
	Kind     Kind          `json:"kind"`
	Offset   uint          `json:"offset"`
	Row      uint          `json:"row"`
	Column   uint          `json:"column"`
	Message  string        `json:"message,omitempty"`
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("compile %s query: %s at %d:%d", d.Language, d.Kind, d.Row+1, d.Column+1)
	if d.Message != "" {
		msg += ": " + d.Message
	}
	return msg
}

// Is makes name-resolution failures match syntaxerr.ErrConfiguration: the
// pattern is well formed but names something the grammar lacks.
func (d *Diagnostic) Is(target error) bool {
	if target != syntaxerr.ErrConfiguration {
		return false
	}
	switch d.Kind {
	case KindUnknownNodeType, KindUnknownField, KindUnknownCapture, KindLanguageMismatch:
		return true
	}
	return false
}

// Position returns the 1-based line and column of the failure in pattern.
func (d *Diagnostic) Position(pattern string) (line, column int) {
	p := span.PointAt([]byte(pattern), int(d.Offset))
	return int(p.Row) + 1, int(p.Column) + 1
}

func newDiagnostic(l lang.Language, qe *tree_sitter.QueryError) *Diagnostic {
	return &Diagnostic{
		Language: l,
		Kind:     kindOf(qe.Kind),
		Offset:   qe.Offset,
		Row:      qe.Row,
		Column:   qe.Column,
		Message:  qe.Message,
	}
}

func kindOf(k tree_sitter.QueryErrorKind) Kind {
	switch k {
	case tree_sitter.QueryErrorNodeType:
		return KindUnknownNodeType
	case tree_sitter.QueryErrorField:
		return KindUnknownField
	case tree_sitter.QueryErrorCapture:
		return KindUnknownCapture
	case tree_sitter.QueryErrorStructure:
		return KindStructural
	case tree_sitter.QueryErrorLanguage:
		return KindLanguageMismatch
	default:
		// Syntax and predicate errors.
		return KindPatternSyntax
	}
}
