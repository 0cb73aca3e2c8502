package main

import (
	"fmt"
	"os"

	"github.com/elC0mpa/spot-allocator/cmd/mcp/tools"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg := LoadConfig()

	s := server.NewMCPServer(
		"spot-allocator-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterSpotTools(s, cfg.Profile, cfg.Workers, cfg.ProbeWorkers, cfg.CallTimeout)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
