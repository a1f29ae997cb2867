package agent

import (
	"context"
	"os"

	"apictl/internal/cli"
	"apictl/internal/tree"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes a command tree as MCP tools over stdio. It bridges AI
// assistants to the same resolve-and-execute pipeline the CLI uses.
type Server struct {
	tree      *tree.CommandTree
	executor  *cli.Executor
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the given command tree. The
// executor options carry the resolved base URL and credential; the
// progress spinner is always suppressed because stdout belongs to the
// protocol.
func NewServer(t *tree.CommandTree, options cli.ExecutorOptions, version string) *Server {
	options.Quiet = true

	mcpServer := server.NewMCPServer(
		"apictl-agent",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		tree:      t,
		executor:  cli.NewExecutor(options),
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s
}

// Start serves the MCP protocol on stdin/stdout and blocks until the
// client closes the connection or the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_operations",
		mcp.WithDescription("List all API operations in the command tree, optionally filtered by resource"),
		mcp.WithString("resource",
			mcp.Description("Limit the listing to one resource"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleListOperations)

	describeTool := mcp.NewTool("describe_operation",
		mcp.WithDescription("Get the full contract of one operation: method, path, parameters, and request body"),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("Resource name"),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Operation name within the resource"),
		),
	)
	s.mcpServer.AddTool(describeTool, s.handleDescribeOperation)

	callTool := mcp.NewTool("call_operation",
		mcp.WithDescription("Execute an API operation and return the HTTP response"),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("Resource name"),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Operation name within the resource"),
		),
		mcp.WithObject("arguments",
			mcp.Description("Parameter values keyed by parameter name"),
		),
		mcp.WithString("body",
			mcp.Description("Raw JSON request body, for operations that accept one"),
		),
	)
	s.mcpServer.AddTool(callTool, s.handleCallOperation)
}
