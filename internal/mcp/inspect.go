package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// Version is reported to servers as the client version during inspection.
var Version = "dev"

const inspectTimeout = 20 * time.Second

// Tool is one tool advertised by a server
type Tool struct {
	Name        string
	Description string
}

// Inspection is what a server reports about itself on startup
type Inspection struct {
	ServerName    string
	ServerVersion string
	Tools         []Tool
}

// Inspect starts a stdio server, performs the MCP handshake, lists its
// tools and shuts it down again. Useful to check a definition before
// enabling it for a session.
func Inspect(ctx context.Context, name string, cfg ServerConfig) (*Inspection, error) {
	if !cfg.IsStdio() {
		return nil, fmt.Errorf("server %s uses %s transport; only stdio servers can be inspected", name, cfg.Type)
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("server %s has no command", name)
	}

	ctx, cancel := context.WithTimeout(ctx, inspectTimeout)
	defer cancel()

	// 1. Create client over stdio
	stdio := transport.NewStdio(cfg.Command, cfg.EnvList(), cfg.Args...)
	mcpClient := client.NewClient(stdio)

	// 2. Start (launch process)
	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP server %s: %w", name, err)
	}
	defer mcpClient.Close()

	// 3. Initialize
	initReq := mcpgo.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	initReq.Params.Capabilities = mcpgo.ClientCapabilities{}
	initReq.Params.ClientInfo = mcpgo.Implementation{
		Name:    "sal",
		Version: Version,
	}

	initResult, err := mcpClient.Initialize(ctx, initReq)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MCP server %s: %w", name, err)
	}

	// 4. Fetch tools
	listResult, err := mcpClient.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools of %s: %w", name, err)
	}

	out := &Inspection{
		ServerName:    initResult.ServerInfo.Name,
		ServerVersion: initResult.ServerInfo.Version,
	}
	for _, tool := range listResult.Tools {
		out.Tools = append(out.Tools, Tool{Name: tool.Name, Description: tool.Description})
	}
	return out, nil
}
