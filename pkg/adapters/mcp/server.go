package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/artwork"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/download"
	"github.com/aretw0/errand/pkg/explorer"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// HistoryURI is the resource exposing recent errand runs.
const HistoryURI = "errand://history"

// MemoryReport aligns the memory_stats output with the CLI report.
type MemoryReport struct {
	TotalGB     float64 `json:"total_gb" jsonschema_description:"Total memory in GiB"`
	AvailableGB float64 `json:"available_gb" jsonschema_description:"Available memory in GiB"`
	UsedGB      float64 `json:"used_gb" jsonschema_description:"Used memory in GiB"`
	UsedPercent float64 `json:"used_percent" jsonschema_description:"Used memory in percent"`
}

// Server exposes the read-only and file-producing errands as MCP tools.
// Mail, SMS and call errands are not exposed.
type Server struct {
	memory     ports.MemoryReader
	searcher   ports.Searcher
	downloader *download.Downloader
	explorer   *explorer.Explorer
	journal    ports.Journal
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

type Option func(*Server)

func WithMemoryReader(r ports.MemoryReader) Option {
	return func(s *Server) { s.memory = r }
}

func WithSearcher(sr ports.Searcher) Option {
	return func(s *Server) { s.searcher = sr }
}

func WithDownloader(d *download.Downloader) Option {
	return func(s *Server) { s.downloader = d }
}

// WithExplorer enables the file tools. Downloads and drawings are written
// below the explorer root.
func WithExplorer(ex *explorer.Explorer) Option {
	return func(s *Server) { s.explorer = ex }
}

func WithJournal(j ports.Journal) Option {
	return func(s *Server) { s.journal = j }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new MCP Server instance. Tools whose dependency was not
// supplied are not registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("errand-mcp", strings.TrimSpace(errand.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	if s.memory != nil {
		memoryTool := mcp.NewTool("memory_stats",
			mcp.WithDescription("Report total, available and used system memory."),
			mcp.WithOutputSchema[MemoryReport](),
		)
		s.mcpServer.AddTool(memoryTool, mcp.NewStructuredToolHandler(s.handleMemoryStats))
	}

	if s.searcher != nil {
		s.mcpServer.AddTool(mcp.NewTool("web_search",
			mcp.WithDescription("Search the web and return result links, one per line."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of links (default 10)")),
		), s.handleWebSearch)
	}

	if s.explorer == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("list_directory",
		mcp.WithDescription("List a directory below the workspace root, directories first."),
		mcp.WithString("path", mcp.Description("Directory, absolute or relative to the root (default root)")),
	), s.handleListDirectory)

	s.mcpServer.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Find files and directories whose name (or text content) contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive text to look for")),
		mcp.WithString("path", mcp.Description("Directory to search (default root)")),
		mcp.WithBoolean("in_content", mcp.Description("Also search inside .txt .py .js .html .css .md .json files")),
	), s.handleSearchFiles)

	s.mcpServer.AddTool(mcp.NewTool("draw_art",
		mcp.WithDescription("Draw the circle and line picture and save it as PNG."),
		mcp.WithString("output", mcp.Description("File name below the root (default art.png)")),
	), s.handleDrawArt)

	if s.downloader != nil {
		s.mcpServer.AddTool(mcp.NewTool("download_file",
			mcp.WithDescription("Download a URL into the workspace root."),
			mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL to fetch")),
			mcp.WithString("name", mcp.Description("Target file name (default: last URL segment)")),
		), s.handleDownloadFile)
	}
}

func (s *Server) handleMemoryStats(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MemoryReport, error) {
	stats, err := s.memory.ReadMemory(ctx)
	if err != nil {
		return MemoryReport{}, fmt.Errorf("read memory: %w", err)
	}
	return MemoryReport{
		TotalGB:     stats.TotalGB(),
		AvailableGB: stats.AvailableGB(),
		UsedGB:      stats.UsedGB(),
		UsedPercent: stats.UsedPercent,
	}, nil
}

func (s *Server) handleWebSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError(domain.ErrEmptyQuery.Error()), nil
	}
	links, err := s.searcher.Search(ctx, query, request.GetInt("limit", 10))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(links) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}
	return mcp.NewToolResultText(strings.Join(links, "\n")), nil
}

func (s *Server) handleListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.explorer.List(ctx, request.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(entries)
}

func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.explorer.Search(ctx,
		request.GetString("path", ""),
		request.GetString("query", ""),
		request.GetBool("in_content", false),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(results)
}

func (s *Server) handleDrawArt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.explorer.Resolve(filepath.Base(request.GetString("output", "art.png")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := artwork.Save(artwork.DefaultSpec(), target); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("draw failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %s", target)), nil
}

func (s *Server) handleDownloadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL := request.GetString("url", "")
	name := request.GetString("name", download.Filename(rawURL))

	target, err := s.explorer.Resolve(filepath.Base(name))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.downloader.Download(ctx, rawURL, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("download failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %s (%s)", res.Path, domain.FormatSize(res.Bytes))), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	if s.journal == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(HistoryURI, "Recent errand runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, err := s.journal.Recent(ctx, "", 50)
		if err != nil {
			return nil, fmt.Errorf("failed to read journal: %w", err)
		}
		jsonBytes, _ := json.Marshal(records)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      HistoryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
