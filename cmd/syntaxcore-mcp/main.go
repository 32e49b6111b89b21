package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/syntaxcore/internal/config"
	"github.com/DeusData/syntaxcore/internal/engine"
	"github.com/DeusData/syntaxcore/internal/tools"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Println("syntaxcore-mcp", version)
			os.Exit(0)
		case "install":
			os.Exit(runInstall(os.Args[2:]))
		case "uninstall":
			os.Exit(runUninstall(os.Args[2:]))
		}
	}

	root, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd err=%v", err)
	}
	cfg, err := config.LoadDir(root)
	if err != nil {
		log.Fatalf("config err=%v", err)
	}
	// stdout carries the protocol; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.EffectiveLogLevel()})))

	e := engine.Open(cfg, root)
	tools.Version = version
	srv := tools.NewServer(e, root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go e.WatchPatterns(ctx)

	slog.Info("server.start", "root", root, "version", version)
	runErr := srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
	stop()
	e.Close()
	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("server err=%v", runErr)
	}
}
