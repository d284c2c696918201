package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	ssmcp "github.com/peterkuimelis/stackshuffle/internal/mcp"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// stdout carries the MCP protocol; diagnostics go to stderr.
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configFile != "" {
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	s := server.NewMCPServer("stackshuffle", "1.0.0")
	ssmcp.NewTools(cfg, logger).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
