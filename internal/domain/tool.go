package domain

// Tool describes a single tool advertised by a server during discovery.
type Tool struct {
	Name        string
	Description string
	ServerID    string
	ServerName  string
	InputSchema map[string]any
	Categories  []string
}

// DiscoveryQuery selects which servers to query and which tools to keep.
type DiscoveryQuery struct {
	// ServerIDs restricts discovery to these servers, when non-empty.
	ServerIDs []string

	// Search matches case-insensitively against a tool's name or description.
	Search string

	// Category matches case-insensitively and exactly against any of a tool's categories.
	Category string

	// TenantID is forwarded with each discovery call when present.
	TenantID string
}

// DiscoveryResult is the merged output of discovery across servers.
type DiscoveryResult struct {
	Tools []Tool
	Total int

	// ServerCounts maps each queried server ID to the number of tools it contributed after filtering.
	// Servers that failed to respond are present with a count of zero.
	ServerCounts map[string]int
}
