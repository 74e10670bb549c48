package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"chathub/internal"
	"chathub/repositories"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the process lifecycle, and centralizes
// error reporting, so that 'defer' statements (like database cleanup) are executed
// before the program exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Store handles for the dashboard
	channelRepository := repositories.NewChannelRepository(db)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Store inspector (transport layers attach to the service packages
	// directly; this process owns the store and its operational surface)
	internal.StartDebugServer(db, config.DebugPort, "/inspect", rowMapper, statsProvider(channelRepository))
	log.Info("Store inspector started", "port", config.DebugPort, "at", time.Now().UTC())

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	return nil
}

func statsProvider(channels repositories.IChannelRepository) internal.StatsProvider {
	return func() map[string]any {
		stats := map[string]any{
			"Time": time.Now().UTC().Format(time.RFC822),
		}
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		stats["AllocMemMb"] = m.Alloc / 1024 / 1024
		if all, err := channels.List(); err == nil {
			stats["Channels"] = len(all)
		}
		return stats
	}
}

// rowMapper enriches the generic view with the fields that matter per row
// kind: channel name and kind, membership role and flags, message content.
func rowMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)

	var fields map[string]any
	if err := json.Unmarshal(val, &fields); err != nil {
		return row
	}

	if kind, ok := fields["kind"].(string); ok {
		row.Type = strings.ToUpper(kind)
	}
	if name, ok := fields["name"].(string); ok {
		row.Detail = name
	}
	if role, ok := fields["role"].(string); ok {
		row.Detail = role
	}
	if content, ok := fields["content"].(string); ok {
		row.Detail = content
	}

	var flags []string
	if banned, ok := fields["is_banned"].(bool); ok && banned {
		flags = append(flags, "banned")
	}
	if muted, ok := fields["is_muted"].(bool); ok && muted {
		flags = append(flags, "muted")
	}
	if len(flags) > 0 {
		row.Flags = strings.Join(flags, " ")
	}
	return row
}
