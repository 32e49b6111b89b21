package extract

import (
	"iter"
	"log/slog"

	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/span"
)

type role int

const (
	roleNone role = iota
	roleRecord
	roleName
	roleDetail
)

// pending accumulates one match until its last capture arrives.
type pending struct {
	rule      int
	record    span.Range
	hasRecord bool
	name      string
	nameRange span.Range
	hasName   bool
	detail    *string
}

// Symbols reduces a capture stream to symbols using rules.
//
// The first capture of a match that names a rule fixes that rule for the
// match; later captures are read against it. When the match's last capture
// arrives the symbol is emitted if both its record and name captures were
// seen, and dropped otherwise. A match whose last capture no rule names is
// dropped even when record and name were seen. Symbols come out in the order their matches
// end.
func Symbols(captures iter.Seq[query.Capture], rules []Rule) []Symbol {
	return reduceSymbols(fromQuery(captures), rules)
}

func reduceSymbols(captures iter.Seq[capture], rules []Rule) []Symbol {
	var out []Symbol
	open := make(map[uint]*pending)
	for c := range captures {
		p := open[c.match]
		if p == nil {
			p = &pending{rule: -1}
			open[c.match] = p
		}
		matched := p.bind(c, rules)
		if !c.last {
			continue
		}
		delete(open, c.match)
		// A match ending on a capture no rule names is dropped whole.
		if matched && p.rule >= 0 && p.hasRecord && p.hasName {
			out = append(out, Symbol{
				Name:           p.name,
				Detail:         p.detail,
				Kind:           rules[p.rule].Kind,
				Range:          p.record,
				SelectionRange: p.nameRange,
			})
		}
	}
	return out
}

// bind records c in the accumulator and reports whether any rule names it.
func (p *pending) bind(c capture, rules []Rule) bool {
	ri, r := resolve(rules, p.rule, c.name)
	if ri < 0 {
		return false
	}
	if p.rule < 0 {
		p.rule = ri
	} else if ri != p.rule {
		slog.Debug("extract.rule_conflict", "capture", c.name,
			"fixed", rules[p.rule].Record, "other", rules[ri].Record)
		return true
	}
	switch r {
	case roleRecord:
		p.record, p.hasRecord = c.rng, true
	case roleName:
		p.name, p.nameRange, p.hasName = c.text(), c.rng, true
	case roleDetail:
		d := c.text()
		p.detail = &d
	}
	return true
}

// resolve finds the rule and role for a capture name, trying the fixed rule
// first and then the table in order.
func resolve(rules []Rule, fixed int, name string) (int, role) {
	if fixed >= 0 {
		if r := roleIn(rules[fixed], name); r != roleNone {
			return fixed, r
		}
	}
	for i, rule := range rules {
		if r := roleIn(rule, name); r != roleNone {
			return i, r
		}
	}
	return -1, roleNone
}

func roleIn(rule Rule, name string) role {
	switch name {
	case rule.Record:
		return roleRecord
	case rule.Name:
		return roleName
	}
	if rule.Detail != "" && name == rule.Detail {
		return roleDetail
	}
	return roleNone
}
