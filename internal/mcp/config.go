package mcp

// Settings represents the root of sal's mcp.json
type Settings struct {
	McpServers map[string]ServerConfig `json:"mcpServers"`
}

// ServerConfig is one server definition, copied verbatim into claude's
// per-project mcpServers map.
type ServerConfig struct {
	Type    string            `json:"type,omitempty"` // "stdio", "sse", "http"
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// IsStdio reports whether the server is launched as a local process.
func (c ServerConfig) IsStdio() bool {
	return c.Type == "" || c.Type == "stdio"
}

// EnvList renders Env as KEY=VALUE pairs for exec.
func (c ServerConfig) EnvList() []string {
	out := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		out = append(out, k+"="+v)
	}
	return out
}
