package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// mcpServerKey names our entry in client configurations.
const mcpServerKey = "syntaxcore"

// installConfig holds settings for the install/uninstall commands.
type installConfig struct {
	dryRun bool
}

func parseInstallArgs(args []string) installConfig {
	cfg := installConfig{}
	for _, a := range args {
		if a == "--dry-run" {
			cfg.dryRun = true
		}
	}
	return cfg
}

// editor is an MCP client configured through a JSON file.
type editor struct {
	name string
	path func(home string) string
}

var editors = []editor{
	{"Cursor", func(home string) string { return filepath.Join(home, ".cursor", "mcp.json") }},
	{"Windsurf", func(home string) string { return filepath.Join(home, ".codeium", "windsurf", "mcp_config.json") }},
}

func runInstall(args []string) int {
	cfg := parseInstallArgs(args)
	binaryPath, err := detectBinaryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("\nsyntaxcore-mcp %s: install\n", version)
	fmt.Printf("Binary: %s\n\n", binaryPath)

	if claudePath := findCLI("claude"); claudePath != "" {
		fmt.Printf("[Claude Code] detected (%s)\n", claudePath)
		if cfg.dryRun {
			fmt.Printf("  [dry-run] Would run: %s mcp add --scope user %s -- %s\n", claudePath, mcpServerKey, binaryPath)
		} else {
			// Not registered yet is fine.
			_ = execCLI(claudePath, "mcp", "remove", "-s", "user", mcpServerKey)
			if err := execCLI(claudePath, "mcp", "add", "--scope", "user", mcpServerKey, "--", binaryPath); err != nil {
				fmt.Printf("  ! MCP registration failed: %v\n", err)
			} else {
				fmt.Println("  + MCP server registered (scope: user)")
			}
		}
	} else {
		fmt.Println("[Claude Code] not found, skipping")
	}

	for _, ed := range editors {
		p := ed.path(home)
		fmt.Printf("[%s] MCP config: %s\n", ed.name, p)
		if cfg.dryRun {
			fmt.Printf("  [dry-run] Would upsert %s in %s\n", mcpServerKey, p)
			continue
		}
		if err := upsertServer(p, binaryPath); err != nil {
			fmt.Printf("  ! %v\n", err)
			continue
		}
		fmt.Printf("  + MCP server registered in %s\n", p)
	}

	fmt.Println("\nDone. Restart your editor to activate.")
	return 0
}

func runUninstall(args []string) int {
	cfg := parseInstallArgs(args)
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("\nsyntaxcore-mcp %s: uninstall\n\n", version)

	if claudePath := findCLI("claude"); claudePath != "" {
		fmt.Printf("[Claude Code] detected (%s)\n", claudePath)
		if cfg.dryRun {
			fmt.Printf("  [dry-run] Would run: %s mcp remove -s user %s\n", claudePath, mcpServerKey)
		} else if err := execCLI(claudePath, "mcp", "remove", "-s", "user", mcpServerKey); err != nil {
			fmt.Printf("  ! MCP deregistration: %v\n", err)
		}
	}

	for _, ed := range editors {
		p := ed.path(home)
		if cfg.dryRun {
			fmt.Printf("[%s] [dry-run] Would remove %s from %s\n", ed.name, mcpServerKey, p)
			continue
		}
		removed, err := removeServer(p)
		switch {
		case err != nil:
			fmt.Printf("[%s] ! %v\n", ed.name, err)
		case removed:
			fmt.Printf("[%s] - Removed %s from %s\n", ed.name, mcpServerKey, p)
		}
	}

	fmt.Println("\nDone. Binary and cache were NOT removed.")
	return 0
}

// detectBinaryPath resolves the current binary's real path.
func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("detect binary: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve symlink: %w", err)
	}
	return resolved, nil
}

// findCLI locates a CLI binary by name.
func findCLI(name string) string {
	if p, err := exec.LookPath(name); err == nil {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidates := []string{
		"/usr/local/bin/" + name,
		filepath.Join(home, ".npm", "bin", name),
		filepath.Join(home, ".local", "bin", name),
	}
	if runtime.GOOS == "darwin" {
		candidates = append(candidates, "/opt/homebrew/bin/"+name)
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// execCLI runs a CLI command and returns any error.
func execCLI(path string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// readServers loads the config at path. A missing or invalid file yields
// an empty document.
func readServers(path string) (root, servers map[string]any) {
	root = make(map[string]any)
	if data, err := os.ReadFile(path); err == nil {
		if json.Unmarshal(data, &root) != nil {
			root = make(map[string]any)
		}
	}
	servers, ok := root["mcpServers"].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	return root, servers
}

func writeConfig(path string, root map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// upsertServer adds or replaces our entry in the JSON config at path,
// keeping every other server.
func upsertServer(path, binaryPath string) error {
	root, servers := readServers(path)
	servers[mcpServerKey] = map[string]any{"command": binaryPath}
	root["mcpServers"] = servers
	return writeConfig(path, root)
}

// removeServer deletes our entry from the JSON config at path. It reports
// whether there was one.
func removeServer(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	root, servers := readServers(path)
	if _, ok := servers[mcpServerKey]; !ok {
		return false, nil
	}
	delete(servers, mcpServerKey)
	root["mcpServers"] = servers
	return true, writeConfig(path, root)
}
