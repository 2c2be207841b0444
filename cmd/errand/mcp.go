package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/errand/pkg/adapters/google"
	"github.com/aretw0/errand/pkg/adapters/mcp"
	"github.com/aretw0/errand/pkg/adapters/sysmem"
	"github.com/aretw0/errand/pkg/download"
	"github.com/aretw0/errand/pkg/explorer"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the read-only and file-producing errands as MCP tools
(memory_stats, web_search, download_file, list_directory, search_files,
draw_art). Files are confined to --root.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		root := orDefault(cmd, "root", app.cfg.Explorer.Root)

		ex, err := explorer.New(root, explorer.WithLogger(app.logger))
		if err != nil {
			return err
		}

		var searchOpts []google.Option
		if app.cfg.Search.BaseURL != "" {
			searchOpts = append(searchOpts, google.WithBaseURL(app.cfg.Search.BaseURL))
		}

		opts := []mcp.Option{
			mcp.WithLogger(app.logger),
			mcp.WithMemoryReader(sysmem.New()),
			mcp.WithSearcher(google.New(searchOpts...)),
			mcp.WithDownloader(download.New(nil)),
			mcp.WithExplorer(ex),
		}
		if app.journal != nil {
			opts = append(opts, mcp.WithJournal(app.journal))
		}
		srv := mcp.NewServer(opts...)

		return run(cmd, "mcp", func(ctx context.Context) (string, error) {
			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(os.Stderr)
				app.logger.Info("Starting errand MCP Server (Stdio)")
				return transport, srv.ServeStdio()
			case "sse":
				app.logger.Info("Starting errand MCP Server (SSE)", "port", port)
				return transport, srv.ServeSSE(ctx, port)
			default:
				return "", fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport to use (stdio, sse)")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port for SSE server")
	mcpCmd.Flags().String("root", "", "Directory file tools are confined to")
}
