package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/syntaxcore/internal/engine"
	"github.com/DeusData/syntaxcore/internal/lang"
)

// Version is reported in the MCP handshake.
var Version = "dev"

// maxFileSize caps files read from disk by path.
const maxFileSize = 1 << 20

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp    *mcp.Server
	engine *engine.Engine
	root   string
}

// NewServer creates a new MCP server with all tools registered. Relative
// paths in tool arguments resolve against root.
func NewServer(e *engine.Engine, root string) *Server {
	srv := &Server{
		engine: e,
		root:   root,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "syntaxcore",
				Version: Version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

const sourceProperties = `
				"path": {
					"type": "string",
					"description": "File to read (absolute, or relative to the project root). Either path or content is required."
				},
				"content": {
					"type": "string",
					"description": "Source text to analyze instead of a file"
				},
				"language": {
					"type": "string",
					"description": "Language name or alias (e.g. 'go', 'js'). Detected from the path extension when omitted; required with content."
				}`

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "outline",
		Description: "List the symbols defined in a source file: functions, methods, classes, types, constants. Each symbol has a kind, a name, an optional detail (e.g. the parameter list), the range of the whole definition and the range of its name.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + sourceProperties + `
			}
		}`),
	}, s.handleOutline)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "outline_directory",
		Description: "Outline every supported source file under a directory. Skips vendored and generated files and anything listed in .syntaxcoreignore. Files that fail to parse are reported with an error instead of symbols.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Directory to scan (absolute, or relative to the project root). Empty for the project root."
				},
				"languages": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Only outline these languages"
				}
			}
		}`),
	}, s.handleOutlineDirectory)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "folding_ranges",
		Description: "Return the collapsible line ranges of a source file (blocks, bodies, literals, comment runs). Lines are zero-based.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + sourceProperties + `
			}
		}`),
	}, s.handleFoldingRanges)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "highlights",
		Description: "Classify spans of a source file for syntax highlighting (keyword, string, function, type, ...).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + sourceProperties + `
			}
		}`),
	}, s.handleHighlights)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "run_query",
		Description: "Run a tree-sitter query pattern over a source file and return every capture with its name, text and range, grouped by match.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + sourceProperties + `,
				"query": {
					"type": "string",
					"description": "Query pattern, e.g. (function_declaration name: (identifier) @name)"
				},
				"max_results": {
					"type": "integer",
					"description": "Maximum number of captures to return (default 200, max 1000)"
				}
			},
			"required": ["query"]
		}`),
	}, s.handleRunQuery)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "validate_query",
		Description: "Check whether query pattern text compiles for a language. Reports every failing top-level pattern with its error kind and 1-based line and column.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {
					"type": "string",
					"description": "Language name or alias"
				},
				"query": {
					"type": "string",
					"description": "Query pattern text"
				}
			},
			"required": ["language", "query"]
		}`),
	}, s.handleValidateQuery)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "syntax_tree",
		Description: "Return the concrete syntax tree of a source file as an S-expression, plus whether it contains parse errors. Use to discover node types and field names when writing queries.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + sourceProperties + `
			}
		}`),
	}, s.handleSyntaxTree)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_languages",
		Description: "List the languages with a grammar available, their file extensions, and which pattern kinds (outline, folds, highlights) exist for each.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListLanguages)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getStringsArg extracts a string array argument, skipping non-strings.
func getStringsArg(args map[string]any, key string) []string {
	vs, _ := args[key].([]any)
	var out []string
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (s *Server) resolvePath(p string) string {
	if p == "" {
		return s.root
	}
	if filepath.IsAbs(p) || s.root == "" {
		return p
	}
	return filepath.Join(s.root, p)
}

// source is the text a tool operates on.
type source struct {
	path     string
	language lang.Language
	text     []byte
}

// resolveSource reads the path or content argument and settles its language.
func (s *Server) resolveSource(args map[string]any) (*source, error) {
	src := &source{}
	name := getStringArg(args, "language")
	if name != "" {
		l, ok := lang.Parse(name)
		if !ok {
			return nil, fmt.Errorf("unknown language: %s", name)
		}
		src.language = l
	}

	if content, ok := args["content"].(string); ok {
		if src.language == "" {
			return nil, fmt.Errorf("language is required with content")
		}
		src.text = []byte(content)
		return src, nil
	}

	p := getStringArg(args, "path")
	if p == "" {
		return nil, fmt.Errorf("path or content is required")
	}
	src.path = s.resolvePath(p)
	info, err := os.Stat(src.path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", src.path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, use outline_directory instead")
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large (%d bytes, max %d)", info.Size(), maxFileSize)
	}
	if src.language == "" {
		l, ok := lang.Detect(src.path)
		if !ok {
			return nil, fmt.Errorf("cannot detect language of %s, pass language", src.path)
		}
		src.language = l
	}
	src.text, err = os.ReadFile(src.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return src, nil
}
