package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/FreePeak/mcp-framework/internal/config"
	"github.com/FreePeak/mcp-framework/internal/logger"
	"github.com/FreePeak/mcp-framework/internal/mcp/demo"
	"github.com/FreePeak/mcp-framework/internal/mcpserver"
	"github.com/FreePeak/mcp-framework/internal/transport"
)

// findConfigFile attempts to find config.json in the current directory or
// up to 3 parent directories.
func findConfigFile() string {
	const defaultConfigFile = "config.json"

	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error("Error getting current directory: %v", err)
		return defaultConfigFile
	}

	for i := 0; i < 3; i++ {
		cwd = filepath.Dir(cwd)
		configPath := filepath.Join(cwd, defaultConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return defaultConfigFile
}

func main() {
	configFile := flag.String("c", "config.json", "Server configuration overrides file")
	configPath := flag.String("config", "config.json", "Server configuration overrides file (alternative)")
	serverPort := flag.Int("p", 9090, "Server port")
	serverHost := flag.String("h", "localhost", "Server host")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger.Initialize(*logLevel)

	finalConfigPath := *configFile
	if finalConfigPath == "config.json" && *configPath != "config.json" {
		finalConfigPath = *configPath
	}
	if finalConfigPath == "config.json" {
		if found := findConfigFile(); found != "config.json" {
			logger.Info("Found config file at: %s", found)
			finalConfigPath = found
		}
	}
	if finalConfigPath != "config.json" {
		if err := os.Setenv("CONFIG_PATH", finalConfigPath); err != nil {
			logger.Warn("Warning: failed to set CONFIG_PATH env: %v", err)
		}
	}
	if *serverPort != 9090 {
		if err := os.Setenv("SERVER_PORT", fmt.Sprintf("%d", *serverPort)); err != nil {
			logger.Warn("Warning: failed to set SERVER_PORT env: %v", err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	mcpSrv := mcpserver.New(cfg.ServerName, cfg.ServerVersion)
	if err := mcpSrv.Tools.Add(demo.Tools(), false); err != nil {
		logger.Warn("Warning: error registering demo tools: %v", err)
	}
	logger.Info("Registered %d tool(s)", len(demo.Tools()))

	router := transport.NewRouter(mcpSrv, cfg.SessionTimeout, cfg.CleanupInterval)
	defer router.Stop()

	mux := http.NewServeMux()
	mux.Handle("/mcp", router)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	httpServer := &http.Server{Addr: addr, Handler: mux}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on http://%s:%d/mcp", *serverHost, cfg.ServerPort)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	case <-stop:
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during server shutdown: %v", err)
		}
	}

	logger.Info("Server shutdown complete")
}
