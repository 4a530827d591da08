package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eddmcp/eddmcp/internal/config"
	"github.com/eddmcp/eddmcp/internal/edd"
	emcp "github.com/eddmcp/eddmcp/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start a Model Context Protocol (MCP) server that exposes the store's
products, sales, customers, discounts, download logs, and stats as tools
for AI agents. Supports stdio (default) and HTTP transports.

In stdio mode, the server communicates over stdin/stdout using JSON-RPC,
suitable for direct integration with Claude Desktop or other MCP clients.

In HTTP mode, the server listens on the specified port for Streamable
HTTP connections.`,
		Example: `  eddmcp serve                             # stdio mode (for Claude Desktop)
  eddmcp serve --transport http --port 3001   # HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(verbose)
		},
	}

	cmd.Flags().String("transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().Int("port", 3001, "HTTP port (only used with --transport http)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cobra.CheckErr(viper.BindPFlag("serve.transport", cmd.Flags().Lookup("transport")))
	cobra.CheckErr(viper.BindPFlag("serve.port", cmd.Flags().Lookup("port")))

	return cmd
}

// parseLogLevel maps the logging.level setting onto a slog level.
// Unknown or empty values fall back to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServe(verbose bool) error {
	// Transport and port resolve through viper: a changed flag wins,
	// then the config file, then the flag default.
	transport := viper.GetString("serve.transport")
	port := viper.GetInt("serve.port")

	// stdout carries the stdio transport, so logs go to stderr.
	logLevel := parseLogLevel(viper.GetString("logging.level"))
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	client, err := edd.NewClient(
		settings.BaseURL,
		settings.PublicKey,
		settings.Token,
		edd.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}

	srv := emcp.NewServer(client, logger, appVersion)

	switch transport {
	case "stdio":
		return srv.ServeStdio()
	case "http":
		addr := fmt.Sprintf(":%d", port)
		return srv.ServeHTTP(addr)
	default:
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}
}
