// Command terrapump-mcp exposes TerraPump workout data over the Model
// Context Protocol on stdio. It runs in one of two modes: connected
// directly to the database (-db), or against a running TerraPump server
// (-url).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/terrapump/internal/mcp"
	"github.com/meltforce/terrapump/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dsn := flag.String("db", "", "PostgreSQL DSN for direct database access")
	baseURL := flag.String("url", "", "base URL of a running TerraPump server")
	userID := flag.Int("user", 1, "user ID to scope queries to (direct mode)")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*dsn == "") == (*baseURL == "") {
		fmt.Fprintf(os.Stderr, "Usage: terrapump-mcp (-db DSN | -url http://host:port) [-user N]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *dsn != "" {
		db, err := storage.New(context.Background(), *dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("mcp server starting", "mode", "database", "user", *userID)
	} else {
		ds = mcp.NewHTTPClient(*baseURL)
		log.Info("mcp server starting", "mode", "http", "url", *baseURL)
	}

	s := mcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
