package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/b0ase/path402/apps/mcstatus/internal/config"
	"github.com/b0ase/path402/apps/mcstatus/internal/daemon"
	"github.com/b0ase/path402/apps/mcstatus/internal/mcpserver"
)

func main() {
	cfgPath := flag.String("config", "", "path to mcstatus.yaml")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(daemon.Version)
		return
	}

	// stdout belongs to the MCP transport in -mcp mode
	if !*mcpMode {
		printBanner()
	}

	// Resolve config path
	if *cfgPath == "" {
		*cfgPath = config.DefaultPath()
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}
	log.Printf("[main] Config: %s", *cfgPath)

	d, err := daemon.New(cfg)
	if err != nil {
		log.Fatalf("[main] Failed to create daemon: %v", err)
	}

	if err := d.Start(); err != nil {
		log.Fatalf("[main] Failed to start daemon: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mcpMode {
		log.Println("[mcp] Serving tools on stdio")
		if err := mcpserver.New(daemon.Version, d).Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[mcp] Session ended: %v", err)
		}
	} else {
		<-ctx.Done()
		log.Println("[main] Received signal, shutting down...")
	}

	d.Stop()
	log.Println("[main] Goodbye.")
}

func printBanner() {
	// ANSI green: \033[38;5;34m  Reset: \033[0m
	green := "\033[38;5;34m"
	reset := "\033[0m"
	dim := "\033[2m"

	fmt.Printf(green+`
                     _        _
  _ __ ___   ___ ___| |_ __ _| |_ _   _ ___
 | '_ `+"`"+` _ \ / __/ __| __/ _`+"`"+` | __| | | / __|
 | | | | | | (__\__ \ || (_| | |_| |_| \__ \
 |_| |_| |_|\___|___/\__\__,_|\__|\__,_|___/
`+reset+`
  `+dim+`Minecraft server status monitor  v%s`+reset+`
  `+green+`━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━`+reset+`
`, daemon.Version)
}
