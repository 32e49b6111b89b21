package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/span"
)

type captureResult struct {
	Match   uint       `json:"match"`
	Pattern uint       `json:"pattern"`
	Name    string     `json:"name"`
	Kind    string     `json:"kind"`
	Text    string     `json:"text"`
	Range   span.Range `json:"range"`
}

func (s *Server) handleRunQuery(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	pattern := getStringArg(args, "query")
	if pattern == "" {
		return errResult("missing required 'query' parameter"), nil
	}
	maxResults := min(max(getIntArg(args, "max_results", 200), 1), 1000)

	src, err := s.resolveSource(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	q, err := s.engine.Compile(src.language, pattern)
	if err != nil {
		return errResult(fmt.Sprintf("query error: %v", err)), nil
	}
	defer q.Close()

	tree, err := s.engine.Parse(src.language, src.text)
	if err != nil {
		return errResult(fmt.Sprintf("parse: %v", err)), nil
	}
	defer tree.Close()

	var opts []query.Option
	if limit := s.engine.Config().EffectiveMatchLimit(); limit > 0 {
		opts = append(opts, query.WithMatchLimit(limit))
	}
	cur, err := q.Execute(tree.Root(), opts...)
	if err != nil {
		return errResult(fmt.Sprintf("execute: %v", err)), nil
	}
	defer cur.Close()

	captures := []captureResult{}
	total := 0
	for c := range cur.All() {
		total++
		if len(captures) >= maxResults {
			continue
		}
		captures = append(captures, captureResult{
			Match:   c.MatchID,
			Pattern: c.PatternIndex,
			Name:    c.Name,
			Kind:    c.Node.Kind(),
			Text:    c.Node.Text(),
			Range:   c.Node.Range(),
		})
	}
	return jsonResult(map[string]any{
		"language":  src.language,
		"captures":  captures,
		"total":     total,
		"truncated": cur.Truncated() || total > len(captures),
	}), nil
}

type diagnosticResult struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  uint   `json:"offset"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleValidateQuery(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "language")
	pattern := getStringArg(args, "query")
	if name == "" || pattern == "" {
		return errResult("language and query are required"), nil
	}
	l, ok := lang.Parse(name)
	if !ok {
		return errResult(fmt.Sprintf("unknown language: %s", name)), nil
	}

	diags, err := s.engine.Lint(l, pattern)
	if err != nil {
		var d *query.Diagnostic
		if !errors.As(err, &d) {
			return errResult(fmt.Sprintf("validate: %v", err)), nil
		}
		diags = []*query.Diagnostic{d}
	}

	results := make([]diagnosticResult, 0, len(diags))
	for _, d := range diags {
		line, col := d.Position(pattern)
		results = append(results, diagnosticResult{
			Kind:    d.Kind.String(),
			Line:    line,
			Column:  col,
			Offset:  d.Offset,
			Message: d.Message,
		})
	}
	return jsonResult(map[string]any{
		"language":    l,
		"valid":       len(results) == 0,
		"diagnostics": results,
	}), nil
}
