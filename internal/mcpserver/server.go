package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
	"github.com/b0ase/path402/apps/mcstatus/internal/presenter"
	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

// StatusInfo provides access to the monitored server for MCP tools.
type StatusInfo interface {
	Uptime() time.Duration
	State() monitor.State
	View() presenter.View
	Addresses() presenter.Addresses
	Target() provider.Target
	Providers() []provider.Adapter
	Refresh() bool
}

// MCPServer wraps the MCP protocol server with mcstatus tools.
type MCPServer struct {
	server *mcp.Server
	status StatusInfo
}

// New creates an MCP server with all mcstatus tools registered.
func New(version string, status StatusInfo) *MCPServer {
	s := &MCPServer{
		status: status,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    "mcstatus",
				Version: version,
			},
			&mcp.ServerOptions{
				Instructions: "Minecraft server status monitor. Provides tools to read the current server status, trigger a check, list the connect addresses and the status providers in use.",
			},
		),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
