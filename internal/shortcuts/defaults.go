package shortcuts

// Shortcut maps a short alias to a canonical MCP server name.
type Shortcut struct {
	Alias  string
	Server string
}

// builtinShortcuts is ordered the way help lists them.
var builtinShortcuts = []Shortcut{
	{Alias: "gm", Server: "gmail"},
	{Alias: "cal", Server: "google-calendar"},
	{Alias: "at", Server: "airtable"},
	{Alias: "gsh", Server: "google-sheets"},
	{Alias: "doc", Server: "google-docs"},
	{Alias: "drv", Server: "google-drive"},
	{Alias: "gpe", Server: "google-people"},
	{Alias: "n8n", Server: "n8n"},
	{Alias: "jf", Server: "jotform"},
}

var builtinProfiles = map[string][]string{
	"start":  {"at", "gm", "cal"},
	"google": {"gm", "cal", "gsh", "doc", "drv", "gpe"},
	"dev":    {"n8n", "at", "jf"},
	"all":    {"gm", "cal", "at", "gsh", "doc", "drv", "gpe", "n8n", "jf"},
}

// BuiltinShortcuts returns the shipped shortcut table in display order.
func BuiltinShortcuts() []Shortcut {
	out := make([]Shortcut, len(builtinShortcuts))
	copy(out, builtinShortcuts)
	return out
}

// DefaultShortcuts returns the shipped shortcut table as a map.
func DefaultShortcuts() map[string]string {
	m := make(map[string]string, len(builtinShortcuts))
	for _, s := range builtinShortcuts {
		m[s.Alias] = s.Server
	}
	return m
}

// DefaultProfiles returns a copy of the shipped profile table.
func DefaultProfiles() map[string][]string {
	m := make(map[string][]string, len(builtinProfiles))
	for name, members := range builtinProfiles {
		m[name] = append([]string(nil), members...)
	}
	return m
}
