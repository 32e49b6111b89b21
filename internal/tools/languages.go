package tools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/queries"
)

type languageInfo struct {
	Name       lang.Language  `json:"name"`
	Extensions []string       `json:"extensions,omitempty"`
	Patterns   []queries.Kind `json:"patterns"`
}

func (s *Server) handleListLanguages(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	available := s.engine.Registry().Available()
	out := make([]languageInfo, 0, len(available))
	for _, l := range available {
		info := languageInfo{Name: l, Patterns: []queries.Kind{}}
		if spec := lang.ForLanguage(l); spec != nil {
			info.Extensions = spec.FileExtensions
		}
		for _, k := range queries.Kinds() {
			_, err := s.engine.Patterns().Pattern(l, k)
			switch {
			case err == nil:
				info.Patterns = append(info.Patterns, k)
			case !errors.Is(err, queries.ErrNotFound):
				return errResult(err.Error()), nil
			}
		}
		out = append(out, info)
	}
	return jsonResult(map[string]any{
		"languages": out,
		"total":     len(out),
	}), nil
}
