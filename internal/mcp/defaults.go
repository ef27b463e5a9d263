package mcp

import (
	"path/filepath"

	"github.com/igoryan-dao/sal/internal/paths"
)

// serversRoot is where the bundled python servers are expected to live.
const serversRoot = "~/mcp_servers"

type pythonServer struct {
	name   string
	script string
}

var pythonServers = []pythonServer{
	{"gmail", "gmail-mcp-server/gmail_mcp_server.py"},
	{"google-calendar", "gcal-mcp-server/calendar_mcp_server.py"},
	{"airtable", "airtable-mcp-server/airtable_mcp_server.py"},
	{"google-sheets", "googlesheets-mcp-server/sheets_mcp_server.py"},
	{"google-docs", "googledocs-mcp-server/docs_mcp_server.py"},
	{"google-drive", "googledrive-mcp-server/server.py"},
	{"google-people", "people-mcp-server/people_mcp_server.py"},
	{"jotform", "jotform-mcp-server/jotform_mcp_server.py"},
}

// GetBuiltInServers returns the definitions written to mcp.json on first use.
// n8n credentials are left blank; users fill them in after init.
func GetBuiltInServers() map[string]ServerConfig {
	root := paths.ExpandHome(serversRoot)
	python := filepath.Join(root, ".venv", "bin", "python")

	servers := make(map[string]ServerConfig, len(pythonServers)+1)
	for _, s := range pythonServers {
		servers[s.name] = ServerConfig{
			Type:    "stdio",
			Command: python,
			Args:    []string{filepath.Join(root, filepath.FromSlash(s.script))},
			Env:     map[string]string{},
		}
	}

	servers["n8n"] = ServerConfig{
		Type:    "stdio",
		Command: "npx",
		Args:    []string{"n8n-mcp"},
		Env: map[string]string{
			"MCP_MODE":               "stdio",
			"LOG_LEVEL":              "error",
			"DISABLE_CONSOLE_OUTPUT": "true",
			"N8N_API_URL":            "",
			"N8N_API_KEY":            "",
		},
	}

	return servers
}
