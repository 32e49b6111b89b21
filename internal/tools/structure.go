package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/syntaxcore/internal/discover"
	"github.com/DeusData/syntaxcore/internal/lang"
)

func (s *Server) handleOutline(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	src, err := s.resolveSource(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	symbols, err := s.engine.Outline(src.language, src.text)
	if err != nil {
		return errResult(fmt.Sprintf("outline: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"path":     src.path,
		"language": src.language,
		"symbols":  symbols,
		"total":    len(symbols),
	}), nil
}

func (s *Server) handleOutlineDirectory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	dir := s.resolvePath(getStringArg(args, "path"))
	if dir == "" {
		return errResult("path is required"), nil
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return errResult(fmt.Sprintf("not a directory: %s", dir)), nil
	}

	opts := &discover.Options{MaxFileSize: maxFileSize}
	for _, name := range getStringsArg(args, "languages") {
		l, ok := lang.Parse(name)
		if !ok {
			return errResult(fmt.Sprintf("unknown language: %s", name)), nil
		}
		opts.Languages = append(opts.Languages, l)
	}

	files, err := s.engine.OutlineDir(ctx, dir, opts)
	if err != nil {
		return errResult(fmt.Sprintf("outline directory: %v", err)), nil
	}
	failed := 0
	for _, f := range files {
		if f.Error != "" {
			failed++
		}
	}
	return jsonResult(map[string]any{
		"root":   dir,
		"files":  files,
		"total":  len(files),
		"failed": failed,
	}), nil
}

func (s *Server) handleFoldingRanges(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	src, err := s.resolveSource(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	folds, err := s.engine.Folds(src.language, src.text)
	if err != nil {
		return errResult(fmt.Sprintf("folding ranges: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"path":     src.path,
		"language": src.language,
		"folds":    folds,
		"total":    len(folds),
	}), nil
}

func (s *Server) handleHighlights(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	src, err := s.resolveSource(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	highlights, err := s.engine.Highlights(src.language, src.text)
	if err != nil {
		return errResult(fmt.Sprintf("highlights: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"path":       src.path,
		"language":   src.language,
		"highlights": highlights,
		"total":      len(highlights),
	}), nil
}

func (s *Server) handleSyntaxTree(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	src, err := s.resolveSource(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	tree, err := s.engine.Parse(src.language, src.text)
	if err != nil {
		return errResult(fmt.Sprintf("parse: %v", err)), nil
	}
	defer tree.Close()

	root := tree.Root()
	return jsonResult(map[string]any{
		"path":       src.path,
		"language":   src.language,
		"has_errors": root.HasError(),
		"tree":       root.SExpr(),
	}), nil
}
