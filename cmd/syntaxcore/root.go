package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/config"
	"github.com/DeusData/syntaxcore/internal/engine"
	"github.com/DeusData/syntaxcore/internal/lang"
)

var version = "dev"

// globals holds the persistent flags.
type globals struct {
	root     string
	language string
	jsonOut  bool
	noCache  bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:          "syntaxcore",
		Short:        "Structural views of source files",
		Long:         "Outline, fold, highlight and query source files with tree-sitter grammars.",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.root, "root", "", "Project root (default: current directory)")
	root.PersistentFlags().StringVarP(&g.language, "lang", "l", "", "Language name or alias (default: detected from the file extension)")
	root.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Print JSON")
	root.PersistentFlags().BoolVar(&g.noCache, "no-cache", false, "Do not read or write the result cache")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log debug events to stderr")

	root.AddCommand(
		newOutlineCmd(g),
		newFoldsCmd(g),
		newHighlightsCmd(g),
		newASTCmd(g),
		newQueryCmd(g),
		newLintCmd(g),
		newLanguagesCmd(g),
		newCacheCmd(g),
	)
	return root
}

// projectRoot returns the --root flag, or the working directory.
func (g *globals) projectRoot() (string, error) {
	if g.root != "" {
		return filepath.Abs(g.root)
	}
	return os.Getwd()
}

// loadConfig reads the project settings and installs the logger.
func (g *globals) loadConfig(stderr io.Writer) (*config.Config, string, error) {
	root, err := g.projectRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, "", err
	}
	if g.noCache {
		cfg.Cache.Disabled = true
	}
	level := cfg.EffectiveLogLevel()
	if g.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return cfg, root, nil
}

// openEngine opens an engine for the project. The caller must Close it.
func (g *globals) openEngine(cmd *cobra.Command) (*engine.Engine, string, error) {
	cfg, root, err := g.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, "", err
	}
	return engine.Open(cfg, root), root, nil
}

// readSource reads path and settles its language from --lang or the
// extension.
func (g *globals) readSource(path string) (lang.Language, []byte, error) {
	l, err := g.languageFor(path)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read source: %w", err)
	}
	return l, data, nil
}

func (g *globals) languageFor(path string) (lang.Language, error) {
	if g.language != "" {
		l, ok := lang.Parse(g.language)
		if !ok {
			return "", fmt.Errorf("unknown language: %s", g.language)
		}
		return l, nil
	}
	l, ok := lang.Detect(path)
	if !ok {
		return "", fmt.Errorf("cannot detect language of %s, pass --lang", path)
	}
	return l, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
