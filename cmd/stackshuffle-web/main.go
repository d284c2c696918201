package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	"github.com/peterkuimelis/stackshuffle/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

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

	srv := web.NewServer(cfg, logger)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("stackshuffle web UI listening", zap.String("url", fmt.Sprintf("http://localhost:%d", *port)))
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
