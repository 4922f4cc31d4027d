package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/storyreel/internal/story"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the story library to agents.
type Server struct {
	store *story.Store
	deck  story.DeckOptions
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server over the story library.
func NewServer(store *story.Store, deck story.DeckOptions) *Server {
	s := &Server{
		store: store,
		deck:  deck,
	}

	s.mcp = server.NewMCPServer(
		"storyreel",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listStoriesTool, s.handleListStories)
	s.mcp.AddTool(getSlidesTool, s.handleGetSlides)
	s.mcp.AddTool(segmentMarkupTool, s.handleSegmentMarkup)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
