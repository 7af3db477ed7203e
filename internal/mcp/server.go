// Package mcp exposes the task store to agents as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
)

// ServerName is reported to clients during initialization.
const ServerName = "cursor-kanban"

// Server binds the tool set to a project registry.
type Server struct {
	registry *app.Registry
	mcp      *server.MCPServer
	session  app.Session
}

// NewServer creates a new MCP server whose tools default to the session's project.
func NewServer(registry *app.Registry, session app.Session, version string) *Server {
	s := &Server{
		registry: registry,
		session:  session,
		mcp:      server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// toolFunc runs one tool against a resolved project.
type toolFunc func(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error)

// handle resolves the target project, runs fn and converts the outcome into
// a tool result. Failures never surface as transport errors.
func (s *Server) handle(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c, err := s.registry.Resolve(s.session, req.GetString(argProject, ""))
		if err != nil {
			return errorResult(err), nil
		}

		out, err := fn(ctx, c, req)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Debug("", "mcp", fmt.Sprintf("%s failed: %v", name, err))
			}
			return errorResult(err), nil
		}

		data, err := json.Marshal(out)
		if err != nil {
			return errorResult(fmt.Errorf("encode result: %w", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// errorResult renders err as {"error": message} with isError set.
func errorResult(err error) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": domain.UserMessage(err)})
	return mcp.NewToolResultError(string(data))
}

// bindArgs decodes the tool arguments into dst.
func bindArgs(req mcp.CallToolRequest, dst any) error {
	data, err := json.Marshal(req.GetArguments())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
	}
	return nil
}
