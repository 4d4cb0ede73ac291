package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type emptyInput struct{}

// registerTools adds all mcstatus MCP tools to the server.
func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mcstatus_status",
		Description: "Current server status: online flag, players, ping, MOTD, version and last update",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mcstatus_refresh",
		Description: "Check the server now and return the new status",
	}, s.handleRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mcstatus_addresses",
		Description: "Java and Bedrock addresses to connect to the server",
	}, s.handleAddresses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mcstatus_providers",
		Description: "Status providers queried on each check",
	}, s.handleProviders)
}

// --- Handlers ---

func (s *MCPServer) handleStatus(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	return textResult(s.statusText()), nil, nil
}

func (s *MCPServer) handleRefresh(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	if !s.status.Refresh() {
		return errResult("A check is already in progress. Try again in a few seconds."), nil, nil
	}
	return textResult(s.statusText()), nil, nil
}

func (s *MCPServer) handleAddresses(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	a := s.status.Addresses()
	text := fmt.Sprintf("# Server Addresses\n\n- **Java:** `%s`\n- **Bedrock:** `%s`", a.Java, a.Bedrock)
	return textResult(text), nil, nil
}

func (s *MCPServer) handleProviders(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	adapters := s.status.Providers()

	var b strings.Builder
	fmt.Fprintf(&b, "# Providers (%d)\n\n", len(adapters))
	if len(adapters) == 0 {
		fmt.Fprintf(&b, "No providers configured.\n")
	} else {
		t := s.status.Target()
		fmt.Fprintf(&b, "| Provider | Timeout | Request |\n")
		fmt.Fprintf(&b, "|----------|---------|---------|\n")
		for _, a := range adapters {
			fmt.Fprintf(&b, "| %s | %s | `%s` |\n", a.Name(), a.Timeout, a.URL(t))
		}
	}

	return textResult(b.String()), nil, nil
}

func (s *MCPServer) statusText() string {
	st := s.status.State()
	v := s.status.View()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Headline)
	fmt.Fprintf(&b, "**Status:** %s\n", v.StatusText)
	fmt.Fprintf(&b, "**Uptime:** %s\n\n", s.status.Uptime().Round(1e9))

	fmt.Fprintf(&b, "## Server\n")
	fmt.Fprintf(&b, "- Players: %s/%s\n", v.PlayerCount, v.MaxPlayers)
	fmt.Fprintf(&b, "- Ping: %s\n", v.Ping)
	fmt.Fprintf(&b, "- Version: %s\n", v.Version)
	fmt.Fprintf(&b, "- MOTD: %s\n", strings.ReplaceAll(v.MOTD, "\n", " / "))
	fmt.Fprintf(&b, "- Last update: %s\n", v.LastUpdate)
	if st.LastProvider != "" {
		fmt.Fprintf(&b, "- Answered by: %s\n", st.LastProvider)
	}
	if st.ErrorCount > 0 {
		fmt.Fprintf(&b, "- Failed checks in a row: %d\n", st.ErrorCount)
	}

	fmt.Fprintf(&b, "\n## Connect\n")
	fmt.Fprintf(&b, "- Java: `%s`\n", v.Addresses.Java)
	fmt.Fprintf(&b, "- Bedrock: `%s`\n", v.Addresses.Bedrock)
	return b.String()
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
