// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the type catalogue, stored components and previews to LLM clients
// over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/preview"
	"github.com/starford/fieldkit/internal/repository"
)

// Server wraps the MCP server with component tools.
type Server struct {
	mcp  *server.MCPServer
	repo repository.Repository
}

// New creates a new MCP server with all tools registered.
func New(repo repository.Repository, version string) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"Fieldkit",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_field_types",
		mcp.WithDescription("List the selectable component types in display order, "+
			"and whether each one requires an options list."),
	), s.listFieldTypes)

	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List every stored component definition in creation order."),
	), s.listComponents)

	s.mcp.AddTool(mcp.NewTool("search_components",
		mcp.WithDescription("Find stored components whose name matches the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name query; empty matches everything")),
	), s.searchComponents)

	s.mcp.AddTool(mcp.NewTool("get_component",
		mcp.WithDescription("Read one stored component definition."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Component ID")),
	), s.getComponent)

	s.mcp.AddTool(mcp.NewTool("preview_field",
		mcp.WithDescription("Describe the control a component of the given type would render as. "+
			"Read the "+FieldTypesURI+" resource for valid types."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Type name from the catalogue")),
		mcp.WithString("name", mcp.Description("Label shown above the control")),
		mcp.WithString("options", mcp.Description("Comma-separated choices for choice types")),
		mcp.WithString("placeholder", mcp.Description("Placeholder text")),
		mcp.WithString("default_value", mcp.Description("Default value")),
	), s.previewField)

	s.mcp.AddResource(
		mcp.NewResource(FieldTypesURI, "Field Types",
			mcp.WithResourceDescription("The component type catalogue and the rules a definition must satisfy."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFieldTypesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listFieldTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalogue.Entries())
}

func (s *Server) listComponents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) searchComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.repo.FindByName(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) getComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) previewField(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d := draft.Draft{
		Name:         req.GetString("name", ""),
		Type:         typ,
		Options:      req.GetString("options", ""),
		Placeholder:  req.GetString("placeholder", ""),
		DefaultValue: req.GetString("default_value", ""),
	}
	c, ok := preview.Render(d)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %q", apperr.ReasonUnknownType, typ)), nil
	}
	return jsonResult(c)
}

func (s *Server) readFieldTypesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FieldTypesURI,
			MIMEType: "text/markdown",
			Text:     FieldTypeGuide(),
		},
	}, nil
}
