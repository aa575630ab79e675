package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/kqxs/config"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	apiURL := os.Getenv("KQXS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Only needed when the server runs with KQXS_AUTH_ENABLED=true.
	apiKey := os.Getenv("KQXS_API_KEY")

	s := server.NewMCPServer(
		"kqxs",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(lotteryResultTool(), handleLotteryResult(newClient(apiURL, apiKey)))
	s.AddTool(sessionHealthTool(), handleSessionHealth(newClient(apiURL, apiKey)))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
