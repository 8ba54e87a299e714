package api

import "evalgo.org/megacloud-mcp/internal/tools"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Tools   int    `json:"tools"`
}

// ToolsResponse represents a list of tools.
type ToolsResponse struct {
	Count int                `json:"count"`
	Tools []tools.Descriptor `json:"tools"`
}

// ToolCallResponse carries the text items a tool returned.
type ToolCallResponse struct {
	Tool    string   `json:"tool"`
	Count   int      `json:"count"`
	Content []string `json:"content"`
}
