package cmd

import (
	"fmt"

	"apictl/internal/agent"
	"apictl/internal/cli"
	"apictl/internal/config"

	"github.com/spf13/cobra"
)

// agentCmd serves the command tree as MCP tools over stdio, so AI
// assistants can discover and invoke operations programmatically.
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Serve the command tree as MCP tools on stdio",
	Long: `Run an MCP (Model Context Protocol) server on stdin/stdout exposing
three tools: list_operations, describe_operation, and call_operation.
Point an AI assistant at it to let it drive the API through the same
resolver and executor the CLI uses.

All diagnostics go to stderr; stdout carries only the protocol.`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	t, cfg, err := loadTree()
	if err != nil {
		return err
	}

	apiKey := config.ResolveAPIKey(rootAPIKey)
	if apiKey == "" {
		return fmt.Errorf("no API key: set --api-key or %s", config.EnvAPIKey)
	}
	baseURL := config.ResolveBaseURL(rootBaseURL, cfg, t.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("no base URL: set --base-url, %s, or base_url in config", config.EnvBaseURL)
	}

	server := agent.NewServer(t, cli.ExecutorOptions{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Auth:      cfg.Auth,
		Timeout:   cfg.Timeout(),
		UserAgent: "apictl/" + GetVersion(),
	}, GetVersion())

	return server.Start(cmd.Context())
}
