package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listStoriesTool defines the list_stories MCP tool.
var listStoriesTool = mcp.NewTool("list_stories",
	mcp.WithDescription("List stories in the local library with their ids, titles and sources."),
	mcp.WithString("query",
		mcp.Description("Only stories whose title contains this text"),
	),
	mcp.WithString("source",
		mcp.Description("Only stories from this source"),
		mcp.Enum("local", "remote", "import"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of stories to return (default 50)"),
	),
)

// getSlidesTool defines the get_slides MCP tool.
var getSlidesTool = mcp.NewTool("get_slides",
	mcp.WithDescription("Get the slide breakdown of a story: each slide's kind, text, screen time and spoken announcement."),
	mcp.WithString("story_id",
		mcp.Required(),
		mcp.Description("ID of the story, as returned by list_stories"),
	),
)

// segmentMarkupTool defines the segment_markup MCP tool.
var segmentMarkupTool = mcp.NewTool("segment_markup",
	mcp.WithDescription("Preview how HTML or markdown would be split into timed slides, without saving it."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Story content"),
	),
	mcp.WithString("format",
		mcp.Description("Content format (default html)"),
		mcp.Enum("html", "markdown"),
	),
)
